package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hebububu/VRCPulse/internal/api/models"
	"github.com/Hebububu/VRCPulse/internal/api/response"
	"github.com/Hebububu/VRCPulse/internal/botconfig"
	"github.com/Hebububu/VRCPulse/internal/report"
)

// AlertEvaluator triggers a threshold evaluation for a report category.
type AlertEvaluator interface {
	EvaluateAndDispatch(ctx context.Context, category string) error
}

// ReportHandler handles user report submissions.
type ReportHandler struct {
	reports *report.Service
	alerts  AlertEvaluator
	config  *botconfig.Service
	logger  zerolog.Logger
}

// NewReportHandler creates a new ReportHandler. alerts may be nil, in which
// case accepted reports do not trigger an evaluation.
func NewReportHandler(reports *report.Service, alerts AlertEvaluator, config *botconfig.Service, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		alerts:  alerts,
		config:  config,
		logger:  logger,
	}
}

// SubmitReport handles POST /v1/reports. An accepted submission records the
// claim and triggers a threshold evaluation for its category; a submission
// inside the cooldown window is answered with the remaining wait, not an
// error.
func (h *ReportHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	var fieldErrors []models.FieldError
	if req.ActorID == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "actorId", Message: "is required", Code: "required"})
	}
	if req.Category == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "category", Message: "is required", Code: "required"})
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid report", fieldErrors)
		return
	}

	result, err := h.reports.Submit(r.Context(), report.SubmitInput{
		ActorID:  req.ActorID,
		ScopeID:  req.ScopeID,
		Category: req.Category,
		Content:  req.Content,
	})
	if err != nil {
		if errors.Is(err, report.ErrContentTooLong) {
			response.BadRequest(w, r, "content too long", []models.FieldError{
				{Field: "content", Message: "exceeds maximum length", Code: "too_long"},
			})
			return
		}
		h.logger.Error().Err(err).Str("actor_id", req.ActorID).Msg("report submission failed")
		response.InternalError(w, r, "failed to record report")
		return
	}

	if !result.Accepted {
		retryAfter := time.Until(result.RetryAt(h.reports.Cooldown()))
		seconds := int64(retryAfter.Round(time.Second) / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		response.JSON(w, r, http.StatusOK, models.SubmitReportResponse{
			Accepted:          false,
			RetryAfterSeconds: seconds,
		})
		return
	}

	resp := models.SubmitReportResponse{
		Accepted: true,
		ClaimID:  result.Claim.ID,
	}

	if minutes, err := h.config.WindowMinutes(r.Context()); err == nil {
		window := time.Duration(minutes) * time.Minute
		if count, err := h.reports.SimilarClaimCount(r.Context(), req.Category, req.ActorID, window); err == nil {
			resp.SimilarReports = count
		}
	}

	if h.alerts != nil {
		if err := h.alerts.EvaluateAndDispatch(r.Context(), req.Category); err != nil {
			h.logger.Error().Err(err).Str("category", req.Category).Msg("alert evaluation failed")
		}
	}

	response.JSON(w, r, http.StatusCreated, resp)
}
