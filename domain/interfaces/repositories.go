package interfaces

import (
	"context"
	"time"

	"windfall/domain/entities"
)

// ClaimRepository defines the interface for the durable claim ledger
type ClaimRepository interface {
	// Insert appends a new claim with the winner flag unset and fills in the
	// ledger-assigned ID and creation time. Assigned IDs are unique and
	// strictly increasing in insertion order, safe under concurrent callers.
	Insert(ctx context.Context, claim *entities.Claim) error

	// MarkWinner sets the winner flag for exactly the given claim. It fails
	// with a NotFoundError when the ID does not exist and is a no-op when the
	// claim is already marked.
	MarkWinner(ctx context.Context, claimID int64) error

	// CountSince returns the number of claims submitted at or after the given
	// time.
	CountSince(ctx context.Context, since time.Time) (int64, error)

	// RecentWinners returns winning claims, most recent first.
	RecentWinners(ctx context.Context, limit int) ([]*entities.Claim, error)

	// List returns the most recent claims, newest first.
	List(ctx context.Context, limit int) ([]*entities.Claim, error)
}

// WindowEpochRepository defines the interface for window opening audit records
type WindowEpochRepository interface {
	// Create persists a new epoch record and fills in its assigned ID.
	Create(ctx context.Context, epoch *entities.WindowEpoch) error

	// GetByID retrieves an epoch by ID, or nil when it does not exist.
	GetByID(ctx context.Context, id int64) (*entities.WindowEpoch, error)

	// Recent returns the most recently opened epochs, newest first.
	Recent(ctx context.Context, limit int) ([]*entities.WindowEpoch, error)
}
