package incident_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hebububu/VRCPulse/internal/incident"
	"github.com/Hebububu/VRCPulse/internal/statuspage"
)

type fakeSource struct {
	incidents []statuspage.Incident
	err       error
}

func (f *fakeSource) FetchUnresolvedIncidents(ctx context.Context) ([]statuspage.Incident, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.incidents, nil
}

func newReconciler(src *fakeSource, repo incident.Repository) *incident.Reconciler {
	return incident.NewReconciler(incident.ReconcilerConfig{
		Source:     src,
		Repository: repo,
		Logger:     zerolog.Nop(),
	})
}

func TestReconciler_InsertsNewIncident(t *testing.T) {
	started := time.Date(2026, 1, 10, 11, 30, 0, 0, time.UTC)
	src := &fakeSource{incidents: []statuspage.Incident{
		{
			ID:        "inc1",
			Name:      "Login issues",
			Status:    "investigating",
			Impact:    "major",
			CreatedAt: started,
			UpdatedAt: started,
			IncidentUpdates: []statuspage.IncidentUpdate{
				{ID: "upd1", Status: "investigating", Body: "Looking into it.", CreatedAt: started},
			},
		},
	}}
	repo := incident.NewInMemoryRepository()

	err := newReconciler(src, repo).Reconcile(context.Background(), started.Add(time.Minute))
	require.NoError(t, err)

	stored, err := repo.Get(context.Background(), "inc1")
	require.NoError(t, err)
	assert.Equal(t, "Login issues", stored.Title)
	assert.Equal(t, "investigating", stored.Status)
	assert.Nil(t, stored.ResolvedAt)

	hasNote, err := repo.HasNote(context.Background(), "upd1")
	require.NoError(t, err)
	assert.True(t, hasNote)
}

func TestReconciler_UpdatesOnlyOnChange(t *testing.T) {
	started := time.Date(2026, 1, 10, 11, 30, 0, 0, time.UTC)
	src := &fakeSource{incidents: []statuspage.Incident{
		{ID: "inc1", Name: "Login issues", Status: "investigating", Impact: "major", CreatedAt: started, UpdatedAt: started},
	}}
	repo := incident.NewInMemoryRepository()
	rec := newReconciler(src, repo)
	ctx := context.Background()

	require.NoError(t, rec.Reconcile(ctx, started.Add(time.Minute)))
	first, err := repo.Get(ctx, "inc1")
	require.NoError(t, err)

	// Second cycle with an identical snapshot must be a no-op.
	require.NoError(t, rec.Reconcile(ctx, started.Add(2*time.Minute)))
	second, err := repo.Get(ctx, "inc1")
	require.NoError(t, err)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)

	// A status change upstream must be applied.
	updated := started.Add(10 * time.Minute)
	src.incidents[0].Status = "monitoring"
	src.incidents[0].UpdatedAt = updated

	require.NoError(t, rec.Reconcile(ctx, updated))
	third, err := repo.Get(ctx, "inc1")
	require.NoError(t, err)
	assert.Equal(t, "monitoring", third.Status)
	assert.Equal(t, updated, third.UpdatedAt)
}

func TestReconciler_ResolvesMissingIncident(t *testing.T) {
	started := time.Date(2026, 1, 10, 11, 30, 0, 0, time.UTC)
	repo := incident.NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &incident.Incident{
		ID:        "gone",
		Title:     "Old incident",
		Impact:    "minor",
		Status:    "monitoring",
		StartedAt: started,
		CreatedAt: started,
		UpdatedAt: started,
	}))

	now := started.Add(time.Hour)
	src := &fakeSource{} // empty snapshot: incident vanished upstream
	rec := newReconciler(src, repo)

	require.NoError(t, rec.Reconcile(ctx, now))

	stored, err := repo.Get(ctx, "gone")
	require.NoError(t, err)
	assert.Equal(t, incident.StatusResolved, stored.Status)
	require.NotNil(t, stored.ResolvedAt)
	assert.Equal(t, now, *stored.ResolvedAt)
	assert.Equal(t, now, stored.UpdatedAt)

	// A second cycle with the same omission must be a no-op.
	later := now.Add(time.Minute)
	require.NoError(t, rec.Reconcile(ctx, later))
	again, err := repo.Get(ctx, "gone")
	require.NoError(t, err)
	assert.Equal(t, now, *again.ResolvedAt)
	assert.Equal(t, now, again.UpdatedAt)
}

func TestReconciler_FetchFailureMutatesNothing(t *testing.T) {
	started := time.Date(2026, 1, 10, 11, 30, 0, 0, time.UTC)
	repo := incident.NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &incident.Incident{
		ID:        "inc1",
		Title:     "Login issues",
		Impact:    "major",
		Status:    "investigating",
		StartedAt: started,
		CreatedAt: started,
		UpdatedAt: started,
	}))

	src := &fakeSource{err: errors.New("upstream unreachable")}
	rec := newReconciler(src, repo)

	err := rec.Reconcile(ctx, started.Add(time.Minute))
	require.Error(t, err)

	// The stored incident must not have been resolved by the failed fetch.
	stored, err := repo.Get(ctx, "inc1")
	require.NoError(t, err)
	assert.Equal(t, "investigating", stored.Status)
	assert.Nil(t, stored.ResolvedAt)
}

func TestReconciler_NotesAreImmutable(t *testing.T) {
	started := time.Date(2026, 1, 10, 11, 30, 0, 0, time.UTC)
	src := &fakeSource{incidents: []statuspage.Incident{
		{
			ID: "inc1", Name: "Login issues", Status: "investigating", Impact: "major",
			CreatedAt: started, UpdatedAt: started,
			IncidentUpdates: []statuspage.IncidentUpdate{
				{ID: "upd1", Status: "investigating", Body: "original body", CreatedAt: started},
			},
		},
	}}
	repo := incident.NewInMemoryRepository()
	rec := newReconciler(src, repo)
	ctx := context.Background()

	require.NoError(t, rec.Reconcile(ctx, started.Add(time.Minute)))
	require.Equal(t, 1, repo.NoteCount())

	// Upstream mutating a note body must not produce a second row.
	src.incidents[0].IncidentUpdates[0].Body = "edited body"
	require.NoError(t, rec.Reconcile(ctx, started.Add(2*time.Minute)))
	assert.Equal(t, 1, repo.NoteCount())
}
