package subscriber

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL subscriber repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetGuild retrieves a guild's delivery configuration.
func (r *PostgresRepository) GetGuild(ctx context.Context, guildID string) (*GuildConfig, error) {
	query := `
		SELECT guild_id, channel_id, enabled, updated_at
		FROM guild_configs
		WHERE guild_id = $1
	`

	var cfg GuildConfig
	err := r.pool.QueryRow(ctx, query, guildID).Scan(
		&cfg.GuildID,
		&cfg.ChannelID,
		&cfg.Enabled,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}

	return &cfg, nil
}

// UpsertGuild inserts or replaces a guild's delivery configuration.
func (r *PostgresRepository) UpsertGuild(ctx context.Context, cfg *GuildConfig) error {
	query := `
		INSERT INTO guild_configs (guild_id, channel_id, enabled, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id) DO UPDATE SET
			channel_id = EXCLUDED.channel_id,
			enabled = EXCLUDED.enabled,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, cfg.GuildID, cfg.ChannelID, cfg.Enabled, cfg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert guild config: %w", err)
	}

	return nil
}

// ListDeliverableGuilds returns all guilds that are enabled and have a
// delivery channel configured.
func (r *PostgresRepository) ListDeliverableGuilds(ctx context.Context) ([]*GuildConfig, error) {
	query := `
		SELECT guild_id, channel_id, enabled, updated_at
		FROM guild_configs
		WHERE enabled = TRUE AND channel_id IS NOT NULL
		ORDER BY guild_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliverable guilds: %w", err)
	}
	defer rows.Close()

	var configs []*GuildConfig
	for rows.Next() {
		var cfg GuildConfig
		if err := rows.Scan(&cfg.GuildID, &cfg.ChannelID, &cfg.Enabled, &cfg.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan guild config: %w", err)
		}
		configs = append(configs, &cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate guild configs: %w", err)
	}

	return configs, nil
}

// GetUser retrieves a user's delivery configuration.
func (r *PostgresRepository) GetUser(ctx context.Context, userID string) (*UserConfig, error) {
	query := `
		SELECT user_id, enabled, updated_at
		FROM user_configs
		WHERE user_id = $1
	`

	var cfg UserConfig
	err := r.pool.QueryRow(ctx, query, userID).Scan(&cfg.UserID, &cfg.Enabled, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user config: %w", err)
	}

	return &cfg, nil
}

// UpsertUser inserts or replaces a user's delivery configuration.
func (r *PostgresRepository) UpsertUser(ctx context.Context, cfg *UserConfig) error {
	query := `
		INSERT INTO user_configs (user_id, enabled, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query, cfg.UserID, cfg.Enabled, cfg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user config: %w", err)
	}

	return nil
}

// ListEnabledUsers returns all users who opted in to direct delivery.
func (r *PostgresRepository) ListEnabledUsers(ctx context.Context) ([]*UserConfig, error) {
	query := `
		SELECT user_id, enabled, updated_at
		FROM user_configs
		WHERE enabled = TRUE
		ORDER BY user_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled users: %w", err)
	}
	defer rows.Close()

	var configs []*UserConfig
	for rows.Next() {
		var cfg UserConfig
		if err := rows.Scan(&cfg.UserID, &cfg.Enabled, &cfg.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user config: %w", err)
		}
		configs = append(configs, &cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user configs: %w", err)
	}

	return configs, nil
}
