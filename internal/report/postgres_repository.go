package report

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL claim repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const claimColumns = `id, actor_id, scope_id, category, content, state, created_at`

func scanClaim(row pgx.Row) (*Claim, error) {
	var c Claim
	err := row.Scan(
		&c.ID,
		&c.ActorID,
		&c.ScopeID,
		&c.Category,
		&c.Content,
		&c.State,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// LatestActiveSince returns an actor's most recent active claim after cutoff.
func (r *PostgresRepository) LatestActiveSince(ctx context.Context, actorID string, cutoff time.Time) (*Claim, error) {
	query := `
		SELECT ` + claimColumns + `
		FROM user_reports
		WHERE actor_id = $1 AND state = 'active' AND created_at > $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	c, err := scanClaim(r.pool.QueryRow(ctx, query, actorID, cutoff))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Insert stores a new claim.
func (r *PostgresRepository) Insert(ctx context.Context, c *Claim) error {
	query := `
		INSERT INTO user_reports (id, actor_id, scope_id, category, content, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.ActorID,
		c.ScopeID,
		c.Category,
		c.Content,
		c.State,
		c.CreatedAt,
	)
	return err
}

// ListActiveSince returns an actor's active claims after cutoff, ordered
// ascending by (created_at, id).
func (r *PostgresRepository) ListActiveSince(ctx context.Context, actorID string, cutoff time.Time) ([]*Claim, error) {
	query := `
		SELECT ` + claimColumns + `
		FROM user_reports
		WHERE actor_id = $1 AND state = 'active' AND created_at > $2
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, actorID, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []*Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}

	return claims, rows.Err()
}

// DeleteByID removes a claim.
func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_reports WHERE id = $1`, id)
	return err
}

// CountDistinctActors counts distinct actors with active claims in the
// category after cutoff.
func (r *PostgresRepository) CountDistinctActors(ctx context.Context, category string, cutoff time.Time) (int64, error) {
	query := `
		SELECT COUNT(DISTINCT actor_id)
		FROM user_reports
		WHERE category = $1 AND state = 'active' AND created_at > $2
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query, category, cutoff).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountDistinctOtherActors is CountDistinctActors excluding one actor.
func (r *PostgresRepository) CountDistinctOtherActors(ctx context.Context, category, excludeActorID string, cutoff time.Time) (int64, error) {
	query := `
		SELECT COUNT(DISTINCT actor_id)
		FROM user_reports
		WHERE category = $1 AND actor_id <> $2 AND state = 'active' AND created_at > $3
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query, category, excludeActorID, cutoff).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// RecentTimestamps returns the newest active claim creation times in the
// category after cutoff.
func (r *PostgresRepository) RecentTimestamps(ctx context.Context, category string, cutoff time.Time, limit int) ([]time.Time, error) {
	query := `
		SELECT created_at
		FROM user_reports
		WHERE category = $1 AND state = 'active' AND created_at > $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, category, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var timestamps []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		timestamps = append(timestamps, ts)
	}

	return timestamps, rows.Err()
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
