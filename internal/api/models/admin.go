package models

// PollerStatus describes one polling slot and its current interval.
type PollerStatus struct {
	Name            string `json:"name"`
	IntervalSeconds int64  `json:"intervalSeconds"`
}

// PollerListResponse is the response for GET /v1/admin/pollers.
type PollerListResponse struct {
	Pollers []PollerStatus `json:"pollers"`
}

// UpdateIntervalRequest is the request body for
// PUT /v1/admin/pollers/{name}/interval.
type UpdateIntervalRequest struct {
	Seconds int64 `json:"seconds"`
}

// UpdateThresholdRequest is the request body for
// PUT /v1/admin/alerts/threshold.
type UpdateThresholdRequest struct {
	Value int64 `json:"value"`
}

// UpdateWindowRequest is the request body for PUT /v1/admin/alerts/window.
type UpdateWindowRequest struct {
	Minutes int64 `json:"minutes"`
}

// AlertSettingsResponse is the response for GET /v1/admin/alerts/settings.
type AlertSettingsResponse struct {
	Threshold     int64 `json:"threshold"`
	WindowMinutes int64 `json:"windowMinutes"`
}

// GuildConfigRequest is the request body for PUT /v1/admin/guilds/{guildId}.
type GuildConfigRequest struct {
	ChannelID *string `json:"channelId"`
	Enabled   bool    `json:"enabled"`
}

// GuildConfigResponse describes a guild's alert delivery configuration.
type GuildConfigResponse struct {
	GuildID   string    `json:"guildId"`
	ChannelID *string   `json:"channelId,omitempty"`
	Enabled   bool      `json:"enabled"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// UserConfigRequest is the request body for PUT /v1/admin/users/{userId}.
type UserConfigRequest struct {
	Enabled bool `json:"enabled"`
}

// UserConfigResponse describes a user's alert delivery configuration.
type UserConfigResponse struct {
	UserID    string    `json:"userId"`
	Enabled   bool      `json:"enabled"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// IncidentResponse describes one mirrored incident.
type IncidentResponse struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	Impact     string     `json:"impact"`
	CreatedAt  Timestamp  `json:"createdAt"`
	UpdatedAt  Timestamp  `json:"updatedAt"`
	ResolvedAt *Timestamp `json:"resolvedAt,omitempty"`
}

// MaintenanceResponse describes one mirrored maintenance window.
type MaintenanceResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	ScheduledFor   Timestamp `json:"scheduledFor"`
	ScheduledUntil Timestamp `json:"scheduledUntil"`
}
