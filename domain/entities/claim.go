package entities

import (
	"strings"
	"time"

	"windfall/domain"
)

// Claim represents one payout submission made during a claim window
type Claim struct {
	ID           int64     `db:"id"`
	Reference    string    `db:"reference"`
	EpochID      int64     `db:"epoch_id"`
	PayoutMethod string    `db:"payout_method"`
	PayoutID     string    `db:"payout_id"`
	IsWinner     bool      `db:"is_winner"`
	SubmittedAt  time.Time `db:"submitted_at"`
	CreatedAt    time.Time `db:"created_at"`
}

// SubmitResult represents the outcome of a claim submission (returned to the user)
type SubmitResult struct {
	Accepted  bool
	Winner    bool
	Position  int64
	ClaimID   int64
	Reference string
}

// WindowStatus is the read-only view of the current window for status display
type WindowStatus struct {
	IsOpen           bool
	RemainingSeconds int64
	RecentWinners    []*Claim
}

// Normalize trims surrounding whitespace from the payout fields
func (c *Claim) Normalize() {
	c.PayoutMethod = strings.TrimSpace(c.PayoutMethod)
	c.PayoutID = strings.TrimSpace(c.PayoutID)
}

// Validate checks that the payout fields are present after normalization
func (c *Claim) Validate() error {
	if c.PayoutMethod == "" {
		return domain.ValidationError{Field: "payoutMethod", Reason: "must not be empty"}
	}
	if c.PayoutID == "" {
		return domain.ValidationError{Field: "payoutID", Reason: "must not be empty"}
	}
	return nil
}

// MaskedPayoutID returns the payout ID with the middle replaced by asterisks,
// suitable for public announcement of a winner.
func (c *Claim) MaskedPayoutID() string {
	return MaskPayoutID(c.PayoutID)
}

// MaskPayoutID masks a payout ID for public display. Values of four runes or
// fewer are fully masked.
func MaskPayoutID(payoutID string) string {
	runes := []rune(payoutID)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:2]) + strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-2:])
}
