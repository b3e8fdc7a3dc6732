package subscriber

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository for testing.
type InMemoryRepository struct {
	mu     sync.RWMutex
	guilds map[string]*GuildConfig
	users  map[string]*UserConfig
}

// NewInMemoryRepository creates a new in-memory subscriber repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		guilds: make(map[string]*GuildConfig),
		users:  make(map[string]*UserConfig),
	}
}

// GetGuild retrieves a guild's delivery configuration.
func (r *InMemoryRepository) GetGuild(_ context.Context, guildID string) (*GuildConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.guilds[guildID]
	if !ok {
		return nil, ErrNotFound
	}

	return copyGuildConfig(cfg), nil
}

// UpsertGuild inserts or replaces a guild's delivery configuration.
func (r *InMemoryRepository) UpsertGuild(_ context.Context, cfg *GuildConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.guilds[cfg.GuildID] = copyGuildConfig(cfg)
	return nil
}

// ListDeliverableGuilds returns all guilds that are enabled and have a
// delivery channel configured.
func (r *InMemoryRepository) ListDeliverableGuilds(_ context.Context) ([]*GuildConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var configs []*GuildConfig
	for _, cfg := range r.guilds {
		if cfg.Deliverable() {
			configs = append(configs, copyGuildConfig(cfg))
		}
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].GuildID < configs[j].GuildID })

	return configs, nil
}

// GetUser retrieves a user's delivery configuration.
func (r *InMemoryRepository) GetUser(_ context.Context, userID string) (*UserConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.users[userID]
	if !ok {
		return nil, ErrNotFound
	}

	cfgCopy := *cfg
	return &cfgCopy, nil
}

// UpsertUser inserts or replaces a user's delivery configuration.
func (r *InMemoryRepository) UpsertUser(_ context.Context, cfg *UserConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfgCopy := *cfg
	r.users[cfg.UserID] = &cfgCopy
	return nil
}

// ListEnabledUsers returns all users who opted in to direct delivery.
func (r *InMemoryRepository) ListEnabledUsers(_ context.Context) ([]*UserConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var configs []*UserConfig
	for _, cfg := range r.users {
		if cfg.Enabled {
			cfgCopy := *cfg
			configs = append(configs, &cfgCopy)
		}
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].UserID < configs[j].UserID })

	return configs, nil
}

// copyGuildConfig creates a deep copy of a guild config.
func copyGuildConfig(cfg *GuildConfig) *GuildConfig {
	cfgCopy := *cfg
	if cfg.ChannelID != nil {
		val := *cfg.ChannelID
		cfgCopy.ChannelID = &val
	}
	return &cfgCopy
}
