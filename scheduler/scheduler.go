package scheduler

import (
	"context"
	"fmt"
	"time"

	"windfall/domain/entities"
	"windfall/domain/interfaces"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const openTimeout = 10 * time.Second

// Scheduler opens claim windows on a recurring cron schedule. Specs use the
// six-field form with a leading seconds column and run in UTC.
type Scheduler struct {
	cron           *cron.Cron
	windowService  interfaces.WindowService
	windowDuration time.Duration
}

// New creates a scheduler that opens windows of the given duration
func New(windowService interfaces.WindowService, windowDuration time.Duration) *Scheduler {
	return &Scheduler{
		cron:           cron.New(cron.WithLocation(time.UTC), cron.WithSeconds()),
		windowService:  windowService,
		windowDuration: windowDuration,
	}
}

// Schedule registers a cron spec for recurring window openings
func (s *Scheduler) Schedule(spec string) error {
	_, err := s.cron.AddFunc(spec, s.openWindow)
	if err != nil {
		return fmt.Errorf("failed to schedule window opening for spec %q: %w", spec, err)
	}
	return nil
}

// Start begins running scheduled openings in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for an in-flight opening to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) openWindow() {
	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	epoch, err := s.windowService.OpenWindow(ctx, s.windowDuration, entities.EpochSourceSchedule)
	if err != nil {
		log.WithError(err).Error("Failed to open scheduled claim window")
		return
	}

	log.WithFields(log.Fields{
		"epochID":   epoch.ID,
		"expiresAt": epoch.ExpiresAt,
	}).Info("Opened scheduled claim window")
}
