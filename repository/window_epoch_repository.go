package repository

import (
	"context"

	"windfall/domain"
	"windfall/domain/entities"

	"github.com/jackc/pgx/v5"
)

// WindowEpochRepository implements window opening audit storage on Postgres
type WindowEpochRepository struct {
	q Queryable
}

// NewWindowEpochRepository creates a new window epoch repository
func NewWindowEpochRepository(q Queryable) *WindowEpochRepository {
	return &WindowEpochRepository{q: q}
}

// Create persists a new epoch record and fills in its assigned ID
func (r *WindowEpochRepository) Create(ctx context.Context, epoch *entities.WindowEpoch) error {
	query := `
		INSERT INTO window_epochs (opened_at, expires_at, source)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		epoch.OpenedAt,
		epoch.ExpiresAt,
		epoch.Source,
	).Scan(&epoch.ID, &epoch.CreatedAt)
	if err != nil {
		return domain.StorageError{Op: "create window epoch", Err: err}
	}

	return nil
}

// GetByID retrieves an epoch by ID, or nil when it does not exist
func (r *WindowEpochRepository) GetByID(ctx context.Context, id int64) (*entities.WindowEpoch, error) {
	query := `
		SELECT id, opened_at, expires_at, source, created_at
		FROM window_epochs
		WHERE id = $1
	`

	var epoch entities.WindowEpoch
	err := r.q.QueryRow(ctx, query, id).Scan(
		&epoch.ID,
		&epoch.OpenedAt,
		&epoch.ExpiresAt,
		&epoch.Source,
		&epoch.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, domain.StorageError{Op: "get window epoch", Err: err}
	}

	return &epoch, nil
}

// Recent returns the most recently opened epochs, newest first
func (r *WindowEpochRepository) Recent(ctx context.Context, limit int) ([]*entities.WindowEpoch, error) {
	query := `
		SELECT id, opened_at, expires_at, source, created_at
		FROM window_epochs
		ORDER BY opened_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, domain.StorageError{Op: "list window epochs", Err: err}
	}
	defer rows.Close()

	var epochs []*entities.WindowEpoch
	for rows.Next() {
		var epoch entities.WindowEpoch
		err := rows.Scan(
			&epoch.ID,
			&epoch.OpenedAt,
			&epoch.ExpiresAt,
			&epoch.Source,
			&epoch.CreatedAt,
		)
		if err != nil {
			return nil, domain.StorageError{Op: "list window epochs", Err: err}
		}
		epochs = append(epochs, &epoch)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.StorageError{Op: "list window epochs", Err: err}
	}

	return epochs, nil
}
