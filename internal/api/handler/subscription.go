package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Hebububu/VRCPulse/internal/api/models"
	"github.com/Hebububu/VRCPulse/internal/api/response"
	"github.com/Hebububu/VRCPulse/internal/subscriber"
)

// SubscriptionHandler handles guild and user alert subscription endpoints.
type SubscriptionHandler struct {
	subscribers subscriber.Repository
	logger      zerolog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscribers subscriber.Repository, logger zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subscribers: subscribers, logger: logger}
}

// GetGuild handles GET /v1/admin/guilds/{guildId}.
func (h *SubscriptionHandler) GetGuild(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildId")

	cfg, err := h.subscribers.GetGuild(r.Context(), guildID)
	if err != nil {
		if errors.Is(err, subscriber.ErrNotFound) {
			response.NotFound(w, r, "guild is not configured")
			return
		}
		response.InternalError(w, r, "failed to load guild config")
		return
	}

	response.JSON(w, r, http.StatusOK, guildConfigResponse(cfg))
}

// UpsertGuild handles PUT /v1/admin/guilds/{guildId}.
func (h *SubscriptionHandler) UpsertGuild(w http.ResponseWriter, r *http.Request) {
	guildID := chi.URLParam(r, "guildId")

	var req models.GuildConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	if req.Enabled && (req.ChannelID == nil || *req.ChannelID == "") {
		response.BadRequest(w, r, "an enabled guild needs a delivery channel", []models.FieldError{
			{Field: "channelId", Message: "required when enabled", Code: "required"},
		})
		return
	}

	cfg := &subscriber.GuildConfig{
		GuildID:   guildID,
		ChannelID: req.ChannelID,
		Enabled:   req.Enabled,
		UpdatedAt: time.Now().UTC(),
	}
	if err := h.subscribers.UpsertGuild(r.Context(), cfg); err != nil {
		h.logger.Error().Err(err).Str("guild_id", guildID).Msg("failed to upsert guild config")
		response.InternalError(w, r, "failed to store guild config")
		return
	}

	response.JSON(w, r, http.StatusOK, guildConfigResponse(cfg))
}

// ListGuilds handles GET /v1/admin/guilds.
func (h *SubscriptionHandler) ListGuilds(w http.ResponseWriter, r *http.Request) {
	configs, err := h.subscribers.ListDeliverableGuilds(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to list guild configs")
		return
	}

	resp := make([]models.GuildConfigResponse, 0, len(configs))
	for _, cfg := range configs {
		resp = append(resp, guildConfigResponse(cfg))
	}
	response.JSON(w, r, http.StatusOK, resp)
}

// GetUser handles GET /v1/admin/users/{userId}.
func (h *SubscriptionHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	cfg, err := h.subscribers.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, subscriber.ErrNotFound) {
			response.NotFound(w, r, "user is not configured")
			return
		}
		response.InternalError(w, r, "failed to load user config")
		return
	}

	response.JSON(w, r, http.StatusOK, userConfigResponse(cfg))
}

// UpsertUser handles PUT /v1/admin/users/{userId}.
func (h *SubscriptionHandler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req models.UserConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	cfg := &subscriber.UserConfig{
		UserID:    userID,
		Enabled:   req.Enabled,
		UpdatedAt: time.Now().UTC(),
	}
	if err := h.subscribers.UpsertUser(r.Context(), cfg); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to upsert user config")
		response.InternalError(w, r, "failed to store user config")
		return
	}

	response.JSON(w, r, http.StatusOK, userConfigResponse(cfg))
}

func guildConfigResponse(cfg *subscriber.GuildConfig) models.GuildConfigResponse {
	return models.GuildConfigResponse{
		GuildID:   cfg.GuildID,
		ChannelID: cfg.ChannelID,
		Enabled:   cfg.Enabled,
		UpdatedAt: models.Timestamp(cfg.UpdatedAt),
	}
}

func userConfigResponse(cfg *subscriber.UserConfig) models.UserConfigResponse {
	return models.UserConfigResponse{
		UserID:    cfg.UserID,
		Enabled:   cfg.Enabled,
		UpdatedAt: models.Timestamp(cfg.UpdatedAt),
	}
}
