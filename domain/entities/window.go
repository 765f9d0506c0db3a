package entities

import "time"

// WindowState tracks the single claim window owned by the arbiter. There is
// exactly one instance per arbiter; the arbiter serializes all access behind
// its own mutex, so the state itself carries no locking.
type WindowState struct {
	Open           bool
	EpochID        int64
	OpenedAt       time.Time
	ExpiresAt      time.Time
	WinnerAssigned bool
}

// OpenFor moves the state into a fresh epoch lasting the given duration.
// The winner pool is cleared regardless of the previous epoch's outcome.
func (w *WindowState) OpenFor(epochID int64, now time.Time, duration time.Duration) {
	w.Open = true
	w.EpochID = epochID
	w.OpenedAt = now
	w.ExpiresAt = now.Add(duration)
	w.WinnerAssigned = false
}

// IsOpenAt reports whether claims are accepted at the given instant. The
// timestamp comparison is authoritative: a close timer that has not fired
// yet never keeps an expired window open.
func (w *WindowState) IsOpenAt(now time.Time) bool {
	return w.Open && now.Before(w.ExpiresAt)
}

// RemainingAt returns how much longer the window accepts claims from the
// given instant, or zero when it is closed or expired.
func (w *WindowState) RemainingAt(now time.Time) time.Duration {
	if !w.IsOpenAt(now) {
		return 0
	}
	return w.ExpiresAt.Sub(now)
}

// Close marks the window closed. Winner bookkeeping is left untouched so a
// gate decision still in flight for the same epoch stays consistent.
func (w *WindowState) Close() {
	w.Open = false
}
