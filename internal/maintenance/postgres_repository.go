package maintenance

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hebububu/VRCPulse/internal/database"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL maintenance repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a window by its upstream ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Window, error) {
	query := `
		SELECT id, title, status, scheduled_for, scheduled_until, created_at, updated_at
		FROM maintenances
		WHERE id = $1
	`

	var w Window
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&w.ID,
		&w.Title,
		&w.Status,
		&w.ScheduledFor,
		&w.ScheduledUntil,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &w, nil
}

// ListByStatus retrieves all windows in the given status.
func (r *PostgresRepository) ListByStatus(ctx context.Context, status string) ([]*Window, error) {
	query := `
		SELECT id, title, status, scheduled_for, scheduled_until, created_at, updated_at
		FROM maintenances
		WHERE status = $1
		ORDER BY scheduled_for
	`

	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []*Window
	for rows.Next() {
		var w Window
		err := rows.Scan(
			&w.ID,
			&w.Title,
			&w.Status,
			&w.ScheduledFor,
			&w.ScheduledUntil,
			&w.CreatedAt,
			&w.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		windows = append(windows, &w)
	}

	return windows, rows.Err()
}

// Insert stores a new window.
func (r *PostgresRepository) Insert(ctx context.Context, w *Window) error {
	query := `
		INSERT INTO maintenances (id, title, status, scheduled_for, scheduled_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		w.ID,
		w.Title,
		w.Status,
		w.ScheduledFor,
		w.ScheduledUntil,
		w.CreatedAt,
		w.UpdatedAt,
	)
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// Update replaces the mutable fields of an existing window.
func (r *PostgresRepository) Update(ctx context.Context, w *Window) error {
	query := `
		UPDATE maintenances SET
			title = $2,
			status = $3,
			scheduled_for = $4,
			scheduled_until = $5,
			updated_at = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		w.ID,
		w.Title,
		w.Status,
		w.ScheduledFor,
		w.ScheduledUntil,
		w.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
