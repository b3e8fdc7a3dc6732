package incident

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hebububu/VRCPulse/internal/statuspage"
)

// Source provides the upstream incident snapshot.
type Source interface {
	// FetchUnresolvedIncidents returns every incident currently unresolved
	// upstream. An incident absent from this list is resolved upstream.
	FetchUnresolvedIncidents(ctx context.Context) ([]statuspage.Incident, error)
}

// ReconcilerConfig holds configuration for the incident reconciler.
type ReconcilerConfig struct {
	Source     Source
	Repository Repository
	Logger     zerolog.Logger
}

// Reconciler diffs the upstream unresolved-incident snapshot against stored
// state and applies the minimal set of writes.
type Reconciler struct {
	source Source
	repo   Repository
	logger zerolog.Logger
}

// NewReconciler creates a new incident reconciler.
func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	return &Reconciler{
		source: cfg.Source,
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}
}

// Reconcile runs one reconciliation cycle. A fetch failure aborts the cycle
// before any state is touched: a failed fetch must never be read as
// "everything resolved".
func (r *Reconciler) Reconcile(ctx context.Context, now time.Time) error {
	snapshot, err := r.source.FetchUnresolvedIncidents(ctx)
	if err != nil {
		return fmt.Errorf("fetch unresolved incidents: %w", err)
	}

	upstreamIDs := make(map[string]bool, len(snapshot))
	for _, inc := range snapshot {
		upstreamIDs[inc.ID] = true
	}

	if err := r.resolveMissing(ctx, upstreamIDs, now); err != nil {
		return err
	}

	for i := range snapshot {
		if err := r.upsert(ctx, &snapshot[i]); err != nil {
			return err
		}
		for j := range snapshot[i].IncidentUpdates {
			if err := r.insertNoteIfAbsent(ctx, snapshot[i].ID, &snapshot[i].IncidentUpdates[j]); err != nil {
				return err
			}
		}
	}

	return nil
}

// resolveMissing transitions every stored unresolved incident absent from the
// upstream snapshot to resolved, stamping the transition time.
func (r *Reconciler) resolveMissing(ctx context.Context, upstreamIDs map[string]bool, now time.Time) error {
	unresolved, err := r.repo.ListUnresolved(ctx)
	if err != nil {
		return fmt.Errorf("list unresolved incidents: %w", err)
	}

	for _, inc := range unresolved {
		if upstreamIDs[inc.ID] {
			continue
		}

		inc.Status = StatusResolved
		resolvedAt := now
		inc.ResolvedAt = &resolvedAt
		inc.UpdatedAt = now

		if err := r.repo.Update(ctx, inc); err != nil {
			return fmt.Errorf("resolve incident %s: %w", inc.ID, err)
		}
		r.logger.Info().Str("incident_id", inc.ID).Msg("marked incident as resolved")
	}

	return nil
}

// upsert inserts an unknown incident or updates a known one, writing only
// when a tracked field actually changed.
func (r *Reconciler) upsert(ctx context.Context, upstream *statuspage.Incident) error {
	existing, err := r.repo.Get(ctx, upstream.ID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("get incident %s: %w", upstream.ID, err)
		}

		inc := &Incident{
			ID:        upstream.ID,
			Title:     upstream.Name,
			Impact:    upstream.Impact,
			Status:    upstream.Status,
			StartedAt: upstream.CreatedAt,
			CreatedAt: upstream.CreatedAt,
			UpdatedAt: upstream.UpdatedAt,
		}
		if err := r.repo.Insert(ctx, inc); err != nil {
			return fmt.Errorf("insert incident %s: %w", upstream.ID, err)
		}
		r.logger.Info().
			Str("incident_id", upstream.ID).
			Str("title", upstream.Name).
			Msg("inserted new incident")
		return nil
	}

	changed := existing.Status != upstream.Status ||
		existing.Impact != upstream.Impact ||
		existing.Title != upstream.Name ||
		!existing.UpdatedAt.Equal(upstream.UpdatedAt)
	if !changed {
		return nil
	}

	existing.Title = upstream.Name
	existing.Impact = upstream.Impact
	existing.Status = upstream.Status
	existing.UpdatedAt = upstream.UpdatedAt

	if err := r.repo.Update(ctx, existing); err != nil {
		return fmt.Errorf("update incident %s: %w", upstream.ID, err)
	}
	r.logger.Debug().Str("incident_id", upstream.ID).Msg("updated incident")

	return nil
}

// insertNoteIfAbsent stores an incident update note unless it already exists.
// Notes are immutable so existence is the only gate.
func (r *Reconciler) insertNoteIfAbsent(ctx context.Context, incidentID string, upstream *statuspage.IncidentUpdate) error {
	exists, err := r.repo.HasNote(ctx, upstream.ID)
	if err != nil {
		return fmt.Errorf("check note %s: %w", upstream.ID, err)
	}
	if exists {
		return nil
	}

	note := &Note{
		ID:          upstream.ID,
		IncidentID:  incidentID,
		Body:        upstream.Body,
		Status:      upstream.Status,
		PublishedAt: upstream.CreatedAt,
		CreatedAt:   upstream.CreatedAt,
	}
	if err := r.repo.InsertNote(ctx, note); err != nil {
		// A concurrent cycle may have inserted the same note between the
		// existence check and the insert.
		if errors.Is(err, ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("insert note %s: %w", upstream.ID, err)
	}
	r.logger.Debug().Str("update_id", upstream.ID).Msg("inserted incident update")

	return nil
}
