package handler

import (
	"net/http"

	"github.com/Hebububu/VRCPulse/internal/api/models"
	"github.com/Hebububu/VRCPulse/internal/api/response"
	"github.com/Hebububu/VRCPulse/internal/incident"
	"github.com/Hebububu/VRCPulse/internal/maintenance"
)

// MirrorHandler exposes read-only views of the mirrored upstream state.
type MirrorHandler struct {
	incidents    incident.Repository
	maintenances maintenance.Repository
}

// NewMirrorHandler creates a new MirrorHandler.
func NewMirrorHandler(incidents incident.Repository, maintenances maintenance.Repository) *MirrorHandler {
	return &MirrorHandler{incidents: incidents, maintenances: maintenances}
}

// ListUnresolvedIncidents handles GET /v1/incidents.
func (h *MirrorHandler) ListUnresolvedIncidents(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.incidents.ListUnresolved(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to list incidents")
		return
	}

	resp := make([]models.IncidentResponse, 0, len(incidents))
	for _, inc := range incidents {
		item := models.IncidentResponse{
			ID:        inc.ID,
			Title:     inc.Title,
			Status:    inc.Status,
			Impact:    inc.Impact,
			CreatedAt: models.Timestamp(inc.CreatedAt),
			UpdatedAt: models.Timestamp(inc.UpdatedAt),
		}
		if inc.ResolvedAt != nil {
			resolved := models.Timestamp(*inc.ResolvedAt)
			item.ResolvedAt = &resolved
		}
		resp = append(resp, item)
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// ListMaintenances handles GET /v1/maintenances. The status query parameter
// selects the window status and defaults to scheduled.
func (h *MirrorHandler) ListMaintenances(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = maintenance.StatusScheduled
	}

	switch status {
	case maintenance.StatusScheduled, maintenance.StatusInProgress, maintenance.StatusCompleted:
	default:
		response.BadRequest(w, r, "unknown maintenance status", []models.FieldError{
			{Field: "status", Message: "must be scheduled, in_progress or completed", Code: "invalid"},
		})
		return
	}

	windows, err := h.maintenances.ListByStatus(r.Context(), status)
	if err != nil {
		response.InternalError(w, r, "failed to list maintenance windows")
		return
	}

	resp := make([]models.MaintenanceResponse, 0, len(windows))
	for _, win := range windows {
		resp = append(resp, models.MaintenanceResponse{
			ID:             win.ID,
			Title:          win.Title,
			Status:         win.Status,
			ScheduledFor:   models.Timestamp(win.ScheduledFor),
			ScheduledUntil: models.Timestamp(win.ScheduledUntil),
		})
	}

	response.JSON(w, r, http.StatusOK, resp)
}
