package controller

import (
	"go.uber.org/atomic"
)

// SubmissionStats counts claim outcomes since process start. Handlers on
// different connections bump these concurrently.
type SubmissionStats struct {
	accepted atomic.Int64
	rejected atomic.Int64
	winners  atomic.Int64
}

// NewSubmissionStats creates a zeroed counter set shared by the controllers
func NewSubmissionStats() *SubmissionStats {
	return &SubmissionStats{}
}

func (s *SubmissionStats) recordAccepted(winner bool) {
	s.accepted.Inc()
	if winner {
		s.winners.Inc()
	}
}

func (s *SubmissionStats) recordRejected() {
	s.rejected.Inc()
}

// Snapshot returns the current counter values
func (s *SubmissionStats) Snapshot() (accepted, rejected, winners int64) {
	return s.accepted.Load(), s.rejected.Load(), s.winners.Load()
}
