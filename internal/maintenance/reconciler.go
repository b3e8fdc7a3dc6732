package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hebububu/VRCPulse/internal/statuspage"
)

// Source provides the upstream maintenance snapshot.
type Source interface {
	// FetchUpcomingMaintenances returns windows that have not started yet.
	FetchUpcomingMaintenances(ctx context.Context) ([]statuspage.Maintenance, error)

	// FetchActiveMaintenances returns windows currently in progress. A window
	// absent from this list past its scheduled end has finished upstream.
	FetchActiveMaintenances(ctx context.Context) ([]statuspage.Maintenance, error)
}

// ReconcilerConfig holds configuration for the maintenance reconciler.
type ReconcilerConfig struct {
	Source     Source
	Repository Repository
	Logger     zerolog.Logger
}

// Reconciler diffs the upstream maintenance lists against stored state.
type Reconciler struct {
	source Source
	repo   Repository
	logger zerolog.Logger
}

// NewReconciler creates a new maintenance reconciler.
func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	return &Reconciler{
		source: cfg.Source,
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}
}

// Reconcile runs one reconciliation cycle. Both fetches must succeed before
// any state is touched.
func (r *Reconciler) Reconcile(ctx context.Context, now time.Time) error {
	upcoming, err := r.source.FetchUpcomingMaintenances(ctx)
	if err != nil {
		return fmt.Errorf("fetch upcoming maintenances: %w", err)
	}
	active, err := r.source.FetchActiveMaintenances(ctx)
	if err != nil {
		return fmt.Errorf("fetch active maintenances: %w", err)
	}

	for i := range upcoming {
		if err := r.upsert(ctx, &upcoming[i]); err != nil {
			return err
		}
	}
	for i := range active {
		if err := r.upsert(ctx, &active[i]); err != nil {
			return err
		}
	}

	activeIDs := make(map[string]bool, len(active))
	for _, m := range active {
		activeIDs[m.ID] = true
	}

	if err := r.completeFinished(ctx, activeIDs, now); err != nil {
		return err
	}

	return r.completeSkipped(ctx, now)
}

// completeFinished marks in-progress windows absent from the active list and
// past their scheduled end as completed.
func (r *Reconciler) completeFinished(ctx context.Context, activeIDs map[string]bool, now time.Time) error {
	inProgress, err := r.repo.ListByStatus(ctx, StatusInProgress)
	if err != nil {
		return fmt.Errorf("list in-progress maintenances: %w", err)
	}

	for _, w := range inProgress {
		if activeIDs[w.ID] || !now.After(w.ScheduledUntil) {
			continue
		}

		w.Status = StatusCompleted
		w.UpdatedAt = now
		if err := r.repo.Update(ctx, w); err != nil {
			return fmt.Errorf("complete maintenance %s: %w", w.ID, err)
		}
		r.logger.Info().Str("maintenance_id", w.ID).Msg("marked maintenance as completed")
	}

	return nil
}

// completeSkipped marks scheduled windows whose end has passed as completed.
// These were never observed in progress: the window was skipped upstream.
func (r *Reconciler) completeSkipped(ctx context.Context, now time.Time) error {
	scheduled, err := r.repo.ListByStatus(ctx, StatusScheduled)
	if err != nil {
		return fmt.Errorf("list scheduled maintenances: %w", err)
	}

	for _, w := range scheduled {
		if !now.After(w.ScheduledUntil) {
			continue
		}

		w.Status = StatusCompleted
		w.UpdatedAt = now
		if err := r.repo.Update(ctx, w); err != nil {
			return fmt.Errorf("complete skipped maintenance %s: %w", w.ID, err)
		}
		r.logger.Info().Str("maintenance_id", w.ID).Msg("marked skipped maintenance as completed")
	}

	return nil
}

// upsert inserts an unknown window or updates a known one when a tracked
// field changed.
func (r *Reconciler) upsert(ctx context.Context, upstream *statuspage.Maintenance) error {
	existing, err := r.repo.Get(ctx, upstream.ID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("get maintenance %s: %w", upstream.ID, err)
		}

		w := &Window{
			ID:             upstream.ID,
			Title:          upstream.Name,
			Status:         upstream.Status,
			ScheduledFor:   upstream.ScheduledFor,
			ScheduledUntil: upstream.ScheduledUntil,
			CreatedAt:      upstream.CreatedAt,
			UpdatedAt:      upstream.UpdatedAt,
		}
		if err := r.repo.Insert(ctx, w); err != nil {
			return fmt.Errorf("insert maintenance %s: %w", upstream.ID, err)
		}
		r.logger.Info().
			Str("maintenance_id", upstream.ID).
			Str("title", upstream.Name).
			Msg("inserted new maintenance")
		return nil
	}

	changed := existing.Status != upstream.Status ||
		!existing.ScheduledFor.Equal(upstream.ScheduledFor) ||
		!existing.ScheduledUntil.Equal(upstream.ScheduledUntil)
	if !changed {
		return nil
	}

	existing.Title = upstream.Name
	existing.Status = upstream.Status
	existing.ScheduledFor = upstream.ScheduledFor
	existing.ScheduledUntil = upstream.ScheduledUntil
	existing.UpdatedAt = upstream.UpdatedAt

	if err := r.repo.Update(ctx, existing); err != nil {
		return fmt.Errorf("update maintenance %s: %w", upstream.ID, err)
	}
	r.logger.Debug().
		Str("maintenance_id", upstream.ID).
		Str("status", upstream.Status).
		Msg("updated maintenance")

	return nil
}
