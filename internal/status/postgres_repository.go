package status

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hebububu/VRCPulse/internal/database"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL status repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// HasSnapshot reports whether a snapshot exists for the given timestamp.
func (r *PostgresRepository) HasSnapshot(ctx context.Context, sourceTimestamp time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM status_logs WHERE source_timestamp = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, sourceTimestamp).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// InsertSnapshot stores a new overall-status snapshot.
func (r *PostgresRepository) InsertSnapshot(ctx context.Context, s *Snapshot) error {
	query := `
		INSERT INTO status_logs (indicator, description, source_timestamp, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		s.Indicator,
		s.Description,
		s.SourceTimestamp,
		s.CreatedAt,
	)
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// HasComponentSample reports whether a sample exists for the given component
// and timestamp.
func (r *PostgresRepository) HasComponentSample(ctx context.Context, componentID string, sourceTimestamp time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM component_logs
			WHERE component_id = $1 AND source_timestamp = $2
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, componentID, sourceTimestamp).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// InsertComponentSample stores a new per-component sample.
func (r *PostgresRepository) InsertComponentSample(ctx context.Context, s *ComponentSample) error {
	query := `
		INSERT INTO component_logs (component_id, name, status, source_timestamp, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		s.ComponentID,
		s.Name,
		s.Status,
		s.SourceTimestamp,
		s.CreatedAt,
	)
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
