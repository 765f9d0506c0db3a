package entities

import "time"

// EpochSource identifies what triggered a window opening
type EpochSource string

const (
	EpochSourceAdmin    EpochSource = "admin"
	EpochSourceSchedule EpochSource = "schedule"
)

// WindowEpoch is the persisted audit record of one window opening. Claims
// reference the epoch they were submitted under; at most one claim per epoch
// carries the winner flag.
type WindowEpoch struct {
	ID        int64       `db:"id"`
	OpenedAt  time.Time   `db:"opened_at"`
	ExpiresAt time.Time   `db:"expires_at"`
	Source    EpochSource `db:"source"`
	CreatedAt time.Time   `db:"created_at"`
}

// Duration returns the window length that was requested at opening
func (e *WindowEpoch) Duration() time.Duration {
	return e.ExpiresAt.Sub(e.OpenedAt)
}

// IsExpiredAt reports whether the epoch's window had already ended at the
// given instant.
func (e *WindowEpoch) IsExpiredAt(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
