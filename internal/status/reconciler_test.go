package status_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hebububu/VRCPulse/internal/status"
	"github.com/Hebububu/VRCPulse/internal/statuspage"
)

type fakeSource struct {
	summary *statuspage.Summary
	err     error
}

func (f *fakeSource) FetchSummary(ctx context.Context) (*statuspage.Summary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func newReconciler(src *fakeSource, repo status.Repository) *status.Reconciler {
	return status.NewReconciler(status.ReconcilerConfig{
		Source:     src,
		Repository: repo,
		Logger:     zerolog.Nop(),
	})
}

func TestReconciler_AppendsSnapshotAndComponents(t *testing.T) {
	sourceTS := time.Date(2026, 1, 10, 12, 0, 5, 0, time.UTC)
	src := &fakeSource{summary: &statuspage.Summary{
		Page:   statuspage.PageInfo{UpdatedAt: sourceTS},
		Status: statuspage.StatusInfo{Indicator: "minor", Description: "Partially Degraded Service"},
		Components: []statuspage.Component{
			{ID: "cmp1", Name: "API", Status: "degraded_performance"},
			{ID: "cmp2", Name: "Website", Status: "operational"},
		},
	}}
	repo := status.NewInMemoryRepository()
	rec := newReconciler(src, repo)
	ctx := context.Background()

	require.NoError(t, rec.Reconcile(ctx, sourceTS.Add(time.Minute)))
	assert.Equal(t, 1, repo.SnapshotCount())
	assert.Equal(t, 2, repo.ComponentSampleCount())

	// Same upstream timestamp: nothing new.
	require.NoError(t, rec.Reconcile(ctx, sourceTS.Add(2*time.Minute)))
	assert.Equal(t, 1, repo.SnapshotCount())
	assert.Equal(t, 2, repo.ComponentSampleCount())

	// New upstream timestamp: one snapshot and one sample per component.
	src.summary.Page.UpdatedAt = sourceTS.Add(5 * time.Minute)
	require.NoError(t, rec.Reconcile(ctx, sourceTS.Add(6*time.Minute)))
	assert.Equal(t, 2, repo.SnapshotCount())
	assert.Equal(t, 4, repo.ComponentSampleCount())
}

func TestReconciler_FetchFailureMutatesNothing(t *testing.T) {
	repo := status.NewInMemoryRepository()
	rec := newReconciler(&fakeSource{err: errors.New("upstream unreachable")}, repo)

	require.Error(t, rec.Reconcile(context.Background(), time.Now()))
	assert.Equal(t, 0, repo.SnapshotCount())
	assert.Equal(t, 0, repo.ComponentSampleCount())
}
