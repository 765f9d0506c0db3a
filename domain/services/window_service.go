package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"windfall/domain"
	"windfall/domain/entities"
	"windfall/domain/interfaces"
	"windfall/events"
)

const (
	// recentWinnersLimit bounds the winner list returned with window status.
	recentWinnersLimit = 10

	// defaultClaimsLimit is used when an audit listing passes no limit.
	defaultClaimsLimit = 100
)

// windowService owns the claim window state machine. All reads and writes of
// the window state go through one mutex; the winner gate (the check-and-set
// of WinnerAssigned together with the ledger MarkWinner call) runs entirely
// inside that mutex, which is what makes the winner assignment exactly-once
// under concurrent submissions.
type windowService struct {
	claimRepo interfaces.ClaimRepository
	epochRepo interfaces.WindowEpochRepository
	verifier  interfaces.CaptchaVerifier
	eventBus  *events.Bus

	mu         sync.Mutex
	state      *entities.WindowState
	closeTimer *time.Timer

	// now is the clock used for every window decision; tests swap it out.
	now func() time.Time
}

// NewWindowService creates a new window arbiter service
func NewWindowService(
	claimRepo interfaces.ClaimRepository,
	epochRepo interfaces.WindowEpochRepository,
	verifier interfaces.CaptchaVerifier,
	eventBus *events.Bus,
) interfaces.WindowService {
	return &windowService{
		claimRepo: claimRepo,
		epochRepo: epochRepo,
		verifier:  verifier,
		eventBus:  eventBus,
		state:     &entities.WindowState{},
		now:       time.Now,
	}
}

// OpenWindow opens (or re-opens) the claim window for the given duration.
// Opens are serialized with in-flight submits by the state mutex; a re-open
// supersedes the previous epoch, cancels its close timer, and clears the
// winner pool.
func (s *windowService) OpenWindow(ctx context.Context, duration time.Duration, source entities.EpochSource) (*entities.WindowEpoch, error) {
	if duration <= 0 {
		return nil, domain.ValidationError{Field: "duration", Reason: "must be positive"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	epoch := &entities.WindowEpoch{
		OpenedAt:  now,
		ExpiresAt: now.Add(duration),
		Source:    source,
	}
	if err := s.epochRepo.Create(ctx, epoch); err != nil {
		return nil, fmt.Errorf("failed to create window epoch: %w", err)
	}

	if s.closeTimer != nil {
		s.closeTimer.Stop()
	}
	s.state.OpenFor(epoch.ID, now, duration)
	epochID := epoch.ID
	s.closeTimer = time.AfterFunc(duration, func() {
		s.closeExpired(epochID)
	})

	log.WithFields(log.Fields{
		"epochID":  epoch.ID,
		"duration": duration,
		"source":   source,
	}).Info("Claim window opened")

	s.eventBus.Emit(context.Background(), events.WindowOpenedEvent{
		EpochID:   epoch.ID,
		OpenedAt:  epoch.OpenedAt,
		ExpiresAt: epoch.ExpiresAt,
		Duration:  duration,
		Source:    source,
	})

	return epoch, nil
}

// Submit runs one claim through the acceptance pipeline. The winner gate at
// the end is the single serialization point deciding the epoch's winner.
func (s *windowService) Submit(ctx context.Context, payoutMethod, payoutID, captchaToken, remoteIP string) (*entities.SubmitResult, error) {
	now := s.now()

	// Window check. The timestamp comparison is authoritative even when the
	// close timer has not fired yet.
	s.mu.Lock()
	if !s.state.IsOpenAt(now) {
		closed := s.lazyCloseLocked()
		s.mu.Unlock()
		if closed != nil {
			s.eventBus.Emit(context.Background(), *closed)
		}
		return nil, domain.WindowClosedError{}
	}
	epochID := s.state.EpochID
	openedAt := s.state.OpenedAt
	s.mu.Unlock()

	claim := &entities.Claim{
		EpochID:      epochID,
		PayoutMethod: payoutMethod,
		PayoutID:     payoutID,
	}
	claim.Normalize()
	if err := claim.Validate(); err != nil {
		return nil, err
	}

	// Captcha runs before any ledger mutation; a verifier failure of any kind
	// rejects the claim.
	if err := s.verifier.Verify(ctx, captchaToken, remoteIP); err != nil {
		if domain.IsValidation(err) {
			return nil, err
		}
		log.WithError(err).Warn("Captcha verification errored; rejecting claim")
		return nil, domain.ValidationError{Field: "captcha", Reason: "verification failed"}
	}

	// Queue position is display-only: how many claims this window had when
	// this one arrived, plus one. A count failure degrades to zero rather
	// than rejecting an otherwise valid claim.
	var position int64
	if count, err := s.claimRepo.CountSince(ctx, openedAt); err != nil {
		log.WithError(err).WithField("epochID", epochID).Warn("Failed to estimate queue position")
	} else {
		position = count + 1
	}

	claim.Reference = uuid.New().String()
	claim.SubmittedAt = now
	if err := s.claimRepo.Insert(ctx, claim); err != nil {
		return nil, fmt.Errorf("failed to insert claim: %w", err)
	}

	// Winner gate. The epoch re-check keeps a claim inserted under a
	// superseded window from stealing the new epoch's slot; the flag
	// check-and-set and the ledger write stay inside one critical section.
	s.mu.Lock()
	winner := false
	if s.state.EpochID == epochID && !s.state.WinnerAssigned {
		s.state.WinnerAssigned = true
		if err := s.claimRepo.MarkWinner(ctx, claim.ID); err != nil {
			s.state.WinnerAssigned = false
			s.mu.Unlock()
			log.WithError(err).WithFields(log.Fields{
				"claimID": claim.ID,
				"epochID": epochID,
			}).Error("Failed to record winner; slot stays open")
			return nil, fmt.Errorf("failed to mark winner: %w", err)
		}
		winner = true
		claim.IsWinner = true
	}
	s.mu.Unlock()

	if winner {
		log.WithFields(log.Fields{
			"claimID":  claim.ID,
			"epochID":  epochID,
			"position": position,
		}).Info("Winner selected for claim window")

		s.eventBus.Emit(context.Background(), events.WinnerSelectedEvent{
			EpochID:      epochID,
			ClaimID:      claim.ID,
			Reference:    claim.Reference,
			PayoutMethod: claim.PayoutMethod,
			PayoutID:     claim.PayoutID,
			Position:     position,
		})
	}

	return &entities.SubmitResult{
		Accepted:  true,
		Winner:    winner,
		Position:  position,
		ClaimID:   claim.ID,
		Reference: claim.Reference,
	}, nil
}

// State returns the current window status plus recent winners for display.
func (s *windowService) State(ctx context.Context) (*entities.WindowStatus, error) {
	now := s.now()

	s.mu.Lock()
	isOpen := s.state.IsOpenAt(now)
	remaining := s.state.RemainingAt(now)
	var closed *events.WindowClosedEvent
	if !isOpen {
		closed = s.lazyCloseLocked()
	}
	s.mu.Unlock()
	if closed != nil {
		s.eventBus.Emit(context.Background(), *closed)
	}

	winners, err := s.claimRepo.RecentWinners(ctx, recentWinnersLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent winners: %w", err)
	}

	return &entities.WindowStatus{
		IsOpen:           isOpen,
		RemainingSeconds: int64(math.Ceil(remaining.Seconds())),
		RecentWinners:    winners,
	}, nil
}

// ListClaims returns the most recent claims for audit review.
func (s *windowService) ListClaims(ctx context.Context, limit int) ([]*entities.Claim, error) {
	if limit <= 0 {
		limit = defaultClaimsLimit
	}
	claims, err := s.claimRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	return claims, nil
}

// RecentEpochs returns the most recent window openings.
func (s *windowService) RecentEpochs(ctx context.Context, limit int) ([]*entities.WindowEpoch, error) {
	if limit <= 0 {
		limit = defaultClaimsLimit
	}
	epochs, err := s.epochRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list window epochs: %w", err)
	}
	return epochs, nil
}

// Close cancels any scheduled window expiry. Called once at shutdown.
func (s *windowService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closeTimer != nil {
		s.closeTimer.Stop()
		s.closeTimer = nil
	}
}

// closeExpired is the timer callback. It only acts when the window it was
// scheduled for is still the current one; a re-open supersedes stale timers.
func (s *windowService) closeExpired(epochID int64) {
	s.mu.Lock()
	var closed *events.WindowClosedEvent
	if s.state.EpochID == epochID && s.state.Open {
		s.state.Close()
		closed = &events.WindowClosedEvent{
			EpochID:        epochID,
			WinnerAssigned: s.state.WinnerAssigned,
		}
	}
	s.mu.Unlock()

	if closed != nil {
		log.WithFields(log.Fields{
			"epochID":        closed.EpochID,
			"winnerAssigned": closed.WinnerAssigned,
		}).Info("Claim window closed")
		s.eventBus.Emit(context.Background(), *closed)
	}
}

// lazyCloseLocked flips an expired-but-still-flagged-open window to closed
// and returns the close event to emit after the lock is released. The caller
// must hold the mutex.
func (s *windowService) lazyCloseLocked() *events.WindowClosedEvent {
	if !s.state.Open {
		return nil
	}
	s.state.Close()
	return &events.WindowClosedEvent{
		EpochID:        s.state.EpochID,
		WinnerAssigned: s.state.WinnerAssigned,
	}
}
