package subscriber

import "time"

// GuildConfig holds the alert delivery settings for a guild. A guild only
// receives alerts once it is enabled and has a delivery channel configured.
type GuildConfig struct {
	GuildID   string
	ChannelID *string
	Enabled   bool
	UpdatedAt time.Time
}

// Deliverable reports whether the guild can currently receive alerts.
func (g *GuildConfig) Deliverable() bool {
	return g.Enabled && g.ChannelID != nil && *g.ChannelID != ""
}

// UserConfig holds the direct-delivery settings for a single user.
type UserConfig struct {
	UserID    string
	Enabled   bool
	UpdatedAt time.Time
}
