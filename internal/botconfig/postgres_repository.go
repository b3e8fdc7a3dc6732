package botconfig

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

// NewPostgresRepository creates a new PostgreSQL config repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a config entry by key.
func (r *PostgresRepository) Get(ctx context.Context, key string) (*Entry, error) {
	query := `SELECT key, value, updated_at FROM bot_config WHERE key = $1`

	var e Entry
	err := r.pool.QueryRow(ctx, query, key).Scan(&e.Key, &e.Value, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Set creates or updates a config entry.
func (r *PostgresRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO bot_config (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, key, value, time.Now().UTC())
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
