package subscriber

import (
	"context"
	"errors"
)

// Repository errors.
var (
	ErrNotFound = errors.New("subscriber config not found")
)

// Repository defines the interface for subscriber registry persistence.
type Repository interface {
	// GetGuild retrieves a guild's delivery configuration.
	GetGuild(ctx context.Context, guildID string) (*GuildConfig, error)

	// UpsertGuild inserts or replaces a guild's delivery configuration.
	UpsertGuild(ctx context.Context, cfg *GuildConfig) error

	// ListDeliverableGuilds returns all guilds that are enabled and have a
	// delivery channel configured.
	ListDeliverableGuilds(ctx context.Context) ([]*GuildConfig, error)

	// GetUser retrieves a user's delivery configuration.
	GetUser(ctx context.Context, userID string) (*UserConfig, error)

	// UpsertUser inserts or replaces a user's delivery configuration.
	UpsertUser(ctx context.Context, cfg *UserConfig) error

	// ListEnabledUsers returns all users who opted in to direct delivery.
	ListEnabledUsers(ctx context.Context) ([]*UserConfig, error)
}
