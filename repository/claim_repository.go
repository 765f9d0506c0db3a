package repository

import (
	"context"
	"time"

	"windfall/domain"
	"windfall/domain/entities"
)

// ClaimRepository implements the durable claim ledger on Postgres
type ClaimRepository struct {
	q Queryable
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(q Queryable) *ClaimRepository {
	return &ClaimRepository{q: q}
}

// Insert appends a new claim to the ledger. The winner flag always starts
// unset; BIGSERIAL assignment keeps IDs unique and increasing in insertion
// order under concurrent inserts.
func (r *ClaimRepository) Insert(ctx context.Context, claim *entities.Claim) error {
	query := `
		INSERT INTO claims (reference, epoch_id, payout_method, payout_id, is_winner, submitted_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		claim.Reference,
		claim.EpochID,
		claim.PayoutMethod,
		claim.PayoutID,
		claim.SubmittedAt,
	).Scan(&claim.ID, &claim.CreatedAt)
	if err != nil {
		return domain.StorageError{Op: "insert claim", Err: err}
	}

	claim.IsWinner = false
	return nil
}

// MarkWinner sets the winner flag on exactly the given claim. Re-marking an
// already-winning claim is a no-op; a second winner in the same epoch is
// rejected by the partial unique index on claims(epoch_id).
func (r *ClaimRepository) MarkWinner(ctx context.Context, claimID int64) error {
	query := `
		UPDATE claims
		SET is_winner = TRUE
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, claimID)
	if err != nil {
		return domain.StorageError{Op: "mark winner", Err: err}
	}

	if result.RowsAffected() == 0 {
		return domain.NotFoundError{Entity: "claim", ID: claimID}
	}

	return nil
}

// CountSince returns the number of claims submitted at or after the given time
func (r *ClaimRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM claims
		WHERE submitted_at >= $1
	`

	var count int64
	if err := r.q.QueryRow(ctx, query, since).Scan(&count); err != nil {
		return 0, domain.StorageError{Op: "count claims", Err: err}
	}

	return count, nil
}

// RecentWinners returns winning claims, most recently submitted first
func (r *ClaimRepository) RecentWinners(ctx context.Context, limit int) ([]*entities.Claim, error) {
	query := `
		SELECT id, reference, epoch_id, payout_method, payout_id, is_winner, submitted_at, created_at
		FROM claims
		WHERE is_winner
		ORDER BY submitted_at DESC
		LIMIT $1
	`

	return r.queryClaims(ctx, "list recent winners", query, limit)
}

// List returns the most recent claims, newest first
func (r *ClaimRepository) List(ctx context.Context, limit int) ([]*entities.Claim, error) {
	query := `
		SELECT id, reference, epoch_id, payout_method, payout_id, is_winner, submitted_at, created_at
		FROM claims
		ORDER BY id DESC
		LIMIT $1
	`

	return r.queryClaims(ctx, "list claims", query, limit)
}

func (r *ClaimRepository) queryClaims(ctx context.Context, op, query string, args ...any) ([]*entities.Claim, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.StorageError{Op: op, Err: err}
	}
	defer rows.Close()

	var claims []*entities.Claim
	for rows.Next() {
		var claim entities.Claim
		err := rows.Scan(
			&claim.ID,
			&claim.Reference,
			&claim.EpochID,
			&claim.PayoutMethod,
			&claim.PayoutID,
			&claim.IsWinner,
			&claim.SubmittedAt,
			&claim.CreatedAt,
		)
		if err != nil {
			return nil, domain.StorageError{Op: op, Err: err}
		}
		claims = append(claims, &claim)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.StorageError{Op: op, Err: err}
	}

	return claims, nil
}
