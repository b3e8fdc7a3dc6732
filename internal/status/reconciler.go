package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hebububu/VRCPulse/internal/statuspage"
)

// Source provides the upstream page summary.
type Source interface {
	FetchSummary(ctx context.Context) (*statuspage.Summary, error)
}

// ReconcilerConfig holds configuration for the status reconciler.
type ReconcilerConfig struct {
	Source     Source
	Repository Repository
	Logger     zerolog.Logger
}

// Reconciler appends new overall-status and per-component observations.
// Natural-key uniqueness is the sole correctness gate: rows are inserted
// once per upstream timestamp and never updated.
type Reconciler struct {
	source Source
	repo   Repository
	logger zerolog.Logger
}

// NewReconciler creates a new status reconciler.
func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	return &Reconciler{
		source: cfg.Source,
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}
}

// Reconcile runs one cycle: fetch the summary, then append any observations
// not yet recorded for the page's update timestamp.
func (r *Reconciler) Reconcile(ctx context.Context, now time.Time) error {
	summary, err := r.source.FetchSummary(ctx)
	if err != nil {
		return fmt.Errorf("fetch summary: %w", err)
	}

	sourceTS := summary.Page.UpdatedAt

	exists, err := r.repo.HasSnapshot(ctx, sourceTS)
	if err != nil {
		return fmt.Errorf("check status snapshot: %w", err)
	}
	if !exists {
		snapshot := &Snapshot{
			Indicator:       summary.Status.Indicator,
			Description:     summary.Status.Description,
			SourceTimestamp: sourceTS,
			CreatedAt:       now,
		}
		if err := r.repo.InsertSnapshot(ctx, snapshot); err != nil && !errors.Is(err, ErrDuplicate) {
			return fmt.Errorf("insert status snapshot: %w", err)
		}
		r.logger.Info().
			Str("indicator", summary.Status.Indicator).
			Msg("inserted new status snapshot")
	} else {
		r.logger.Debug().Msg("status snapshot already exists for timestamp, skipping")
	}

	for _, component := range summary.Components {
		exists, err := r.repo.HasComponentSample(ctx, component.ID, sourceTS)
		if err != nil {
			return fmt.Errorf("check component sample %s: %w", component.ID, err)
		}
		if exists {
			continue
		}

		sample := &ComponentSample{
			ComponentID:     component.ID,
			Name:            component.Name,
			Status:          component.Status,
			SourceTimestamp: sourceTS,
			CreatedAt:       now,
		}
		if err := r.repo.InsertComponentSample(ctx, sample); err != nil && !errors.Is(err, ErrDuplicate) {
			return fmt.Errorf("insert component sample %s: %w", component.ID, err)
		}
		r.logger.Debug().
			Str("component_id", component.ID).
			Str("status", component.Status).
			Msg("inserted component sample")
	}

	return nil
}
