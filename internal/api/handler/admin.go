package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Hebububu/VRCPulse/internal/api/models"
	"github.com/Hebububu/VRCPulse/internal/api/response"
	"github.com/Hebububu/VRCPulse/internal/botconfig"
)

// AdminHandler handles poller and alert tuning endpoints.
type AdminHandler struct {
	config *botconfig.Service
	logger zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(config *botconfig.Service, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{config: config, logger: logger}
}

// ListPollers handles GET /v1/admin/pollers.
func (h *AdminHandler) ListPollers(w http.ResponseWriter, r *http.Request) {
	resp := models.PollerListResponse{Pollers: []models.PollerStatus{}}

	for _, name := range botconfig.AllPollers() {
		interval, err := h.config.PollerInterval(r.Context(), name)
		if err != nil {
			response.InternalError(w, r, "failed to load polling intervals")
			return
		}
		resp.Pollers = append(resp.Pollers, models.PollerStatus{
			Name:            string(name),
			IntervalSeconds: int64(interval.Seconds()),
		})
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// UpdateInterval handles PUT /v1/admin/pollers/{name}/interval.
func (h *AdminHandler) UpdateInterval(w http.ResponseWriter, r *http.Request) {
	name, err := botconfig.ParsePollerName(chi.URLParam(r, "name"))
	if err != nil {
		response.NotFound(w, r, "unknown poller")
		return
	}

	var req models.UpdateIntervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	if err := botconfig.ValidateInterval(req.Seconds); err != nil {
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "seconds", Message: err.Error(), Code: "out_of_range"},
		})
		return
	}

	if err := h.config.SetPollerInterval(r.Context(), name, req.Seconds); err != nil {
		h.logger.Error().Err(err).Str("poller", string(name)).Msg("failed to update polling interval")
		response.InternalError(w, r, "failed to update polling interval")
		return
	}

	h.logger.Info().
		Str("operator", GetOperator(r.Context())).
		Str("poller", string(name)).
		Int64("seconds", req.Seconds).
		Msg("polling interval updated")

	response.JSON(w, r, http.StatusOK, models.PollerStatus{
		Name:            string(name),
		IntervalSeconds: req.Seconds,
	})
}

// ResetIntervals handles POST /v1/admin/pollers/reset.
func (h *AdminHandler) ResetIntervals(w http.ResponseWriter, r *http.Request) {
	if err := h.config.ResetAllIntervals(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to reset polling intervals")
		response.InternalError(w, r, "failed to reset polling intervals")
		return
	}

	h.logger.Info().
		Str("operator", GetOperator(r.Context())).
		Msg("polling intervals reset to defaults")

	h.ListPollers(w, r)
}

// GetAlertSettings handles GET /v1/admin/alerts/settings.
func (h *AdminHandler) GetAlertSettings(w http.ResponseWriter, r *http.Request) {
	threshold, err := h.config.Threshold(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to load alert settings")
		return
	}
	window, err := h.config.WindowMinutes(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to load alert settings")
		return
	}

	response.JSON(w, r, http.StatusOK, models.AlertSettingsResponse{
		Threshold:     threshold,
		WindowMinutes: window,
	})
}

// UpdateThreshold handles PUT /v1/admin/alerts/threshold.
func (h *AdminHandler) UpdateThreshold(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateThresholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	if req.Value < 1 {
		response.BadRequest(w, r, "threshold must be at least 1", []models.FieldError{
			{Field: "value", Message: "must be at least 1", Code: "out_of_range"},
		})
		return
	}

	if err := h.config.SetThreshold(r.Context(), req.Value); err != nil {
		h.logger.Error().Err(err).Msg("failed to update alert threshold")
		response.InternalError(w, r, "failed to update alert threshold")
		return
	}

	h.logger.Info().
		Str("operator", GetOperator(r.Context())).
		Int64("threshold", req.Value).
		Msg("alert threshold updated")

	h.GetAlertSettings(w, r)
}

// UpdateWindow handles PUT /v1/admin/alerts/window.
func (h *AdminHandler) UpdateWindow(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	if req.Minutes < 1 || req.Minutes > 1440 {
		response.BadRequest(w, r, "window must be between 1 and 1440 minutes", []models.FieldError{
			{Field: "minutes", Message: "must be between 1 and 1440", Code: "out_of_range"},
		})
		return
	}

	if err := h.config.SetWindowMinutes(r.Context(), req.Minutes); err != nil {
		h.logger.Error().Err(err).Msg("failed to update alert window")
		response.InternalError(w, r, "failed to update alert window")
		return
	}

	h.logger.Info().
		Str("operator", GetOperator(r.Context())).
		Int64("minutes", req.Minutes).
		Msg("alert window updated")

	h.GetAlertSettings(w, r)
}
