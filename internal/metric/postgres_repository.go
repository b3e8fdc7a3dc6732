package metric

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hebububu/VRCPulse/internal/database"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL metric repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// LatestTimestamp returns the newest stored timestamp for a metric.
func (r *PostgresRepository) LatestTimestamp(ctx context.Context, metricName string) (*time.Time, error) {
	query := `
		SELECT timestamp
		FROM metric_logs
		WHERE metric_name = $1
		ORDER BY timestamp DESC
		LIMIT 1
	`

	var ts time.Time
	err := r.pool.QueryRow(ctx, query, metricName).Scan(&ts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ts, nil
}

// Insert stores a new sample.
func (r *PostgresRepository) Insert(ctx context.Context, s *Sample) error {
	query := `
		INSERT INTO metric_logs (metric_name, timestamp, value, unit, interval_sec, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		s.MetricName,
		s.Timestamp,
		s.Value,
		s.Unit,
		s.IntervalSeconds,
		s.CreatedAt,
	)
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// Count returns the number of stored samples for a metric.
func (r *PostgresRepository) Count(ctx context.Context, metricName string) (int64, error) {
	query := `SELECT COUNT(*) FROM metric_logs WHERE metric_name = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, metricName).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
