package interfaces

import (
	"context"
	"time"

	"windfall/domain/entities"
)

// WindowService defines the interface for the claim window arbiter
type WindowService interface {
	// OpenWindow opens a claim window for the given duration and returns the
	// persisted epoch record. Calling it while a window is already open is an
	// operator override: the window resets with a new expiry and a cleared
	// winner pool.
	OpenWindow(ctx context.Context, duration time.Duration, source entities.EpochSource) (*entities.WindowEpoch, error)

	// Submit runs one claim through the acceptance pipeline: window check,
	// field validation, captcha verification, ledger insert, winner gate.
	// Exactly one accepted claim per window epoch reports Winner=true.
	Submit(ctx context.Context, payoutMethod, payoutID, captchaToken, remoteIP string) (*entities.SubmitResult, error)

	// State returns the current window status for display. Read-only.
	State(ctx context.Context) (*entities.WindowStatus, error)

	// ListClaims returns the most recent claims for audit review. Read-only.
	ListClaims(ctx context.Context, limit int) ([]*entities.Claim, error)

	// RecentEpochs returns the most recent window openings. Read-only.
	RecentEpochs(ctx context.Context, limit int) ([]*entities.WindowEpoch, error)

	// Close cancels any scheduled window expiry. Called once at shutdown.
	Close()
}

// CaptchaVerifier validates a captcha response token before a claim may touch
// the ledger. A nil return means the token passed; any error means rejection.
type CaptchaVerifier interface {
	// Verify checks the token with the captcha provider. Implementations must
	// bound the call with a timeout; a verifier outage rejects the claim.
	Verify(ctx context.Context, token, remoteIP string) error
}
