package testutil

import (
	"fmt"
	"time"

	"windfall/domain/entities"
)

// CreateTestEpoch creates a window epoch opened now with a one minute window
func CreateTestEpoch() *entities.WindowEpoch {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &entities.WindowEpoch{
		OpenedAt:  now,
		ExpiresAt: now.Add(time.Minute),
		Source:    entities.EpochSourceAdmin,
	}
}

// CreateTestEpochAt creates a window epoch with explicit bounds
func CreateTestEpochAt(openedAt time.Time, duration time.Duration) *entities.WindowEpoch {
	return &entities.WindowEpoch{
		OpenedAt:  openedAt,
		ExpiresAt: openedAt.Add(duration),
		Source:    entities.EpochSourceAdmin,
	}
}

// CreateTestClaim creates a claim under the given epoch with default payout
// fields. The reference is derived from the sequence number so callers can
// create many claims without colliding on the unique reference column.
func CreateTestClaim(epochID int64, seq int) *entities.Claim {
	return &entities.Claim{
		Reference:    fmt.Sprintf("11111111-2222-3333-4444-%012d", seq),
		EpochID:      epochID,
		PayoutMethod: "paypal",
		PayoutID:     "winner@example.com",
		SubmittedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
}

// CreateTestClaimAt creates a claim with a specific submission time
func CreateTestClaimAt(epochID int64, seq int, submittedAt time.Time) *entities.Claim {
	claim := CreateTestClaim(epochID, seq)
	claim.SubmittedAt = submittedAt
	return claim
}
