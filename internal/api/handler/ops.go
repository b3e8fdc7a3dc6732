// Package handler provides HTTP handlers for the VRCPulse admin API.
package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/Hebububu/VRCPulse/internal/api/models"
	"github.com/Hebububu/VRCPulse/internal/api/response"
	"github.com/Hebububu/VRCPulse/internal/provider/resilience"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	db        Pinger
}

// NewOpsHandler creates a new OpsHandler. db may be nil, in which case the
// readiness check reports OK unconditionally.
func NewOpsHandler(version, buildTime string, db Pinger) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		db:        db,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ListProviders handles GET /v1/ops/providers - upstream circuit states.
func (h *OpsHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	all := resilience.GlobalRegistry.GetAllHealth()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	resp := models.ProviderHealthResponse{Providers: make([]models.ProviderHealth, 0, len(all))}
	for _, p := range all {
		item := models.ProviderHealth{
			Name:                p.Name,
			CircuitState:        p.CircuitState.String(),
			Healthy:             p.IsHealthy(),
			Requests:            p.Counts.Requests,
			ConsecutiveFailures: p.Counts.ConsecutiveFailures,
			LastError:           p.LastError,
		}
		if p.LastSuccessAt != nil {
			ts := models.Timestamp(*p.LastSuccessAt)
			item.LastSuccessAt = &ts
		}
		if p.LastFailureAt != nil {
			ts := models.Timestamp(*p.LastFailureAt)
			item.LastFailureAt = &ts
		}
		resp.Providers = append(resp.Providers, item)
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Reports
// DEGRADED with a 503 when the database is unreachable.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"database": err.Error()}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}
