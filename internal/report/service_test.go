package report_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hebububu/VRCPulse/internal/report"
)

func newService(repo report.Repository, clock func() time.Time) *report.Service {
	return report.NewService(report.ServiceConfig{
		Repository: repo,
		Logger:     zerolog.Nop(),
		Clock:      clock,
	})
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestService_Submit_Accepts(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	repo := report.NewInMemoryRepository()
	svc := newService(repo, fixedClock(now))

	result, err := svc.Submit(context.Background(), report.SubmitInput{
		ActorID:  "actor1",
		Category: "login",
	})
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	require.NotNil(t, result.Claim)
	assert.Equal(t, report.StateActive, result.Claim.State)
	assert.Equal(t, 1, repo.Count())
}

func TestService_Submit_CooldownRejects(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	repo := report.NewInMemoryRepository()
	ctx := context.Background()

	first, err := newService(repo, fixedClock(base)).Submit(ctx, report.SubmitInput{
		ActorID:  "actor1",
		Category: "login",
	})
	require.NoError(t, err)
	require.True(t, first.Accepted)

	// Two minutes later, any category from the same actor is rejected: the
	// cooldown is per actor, not per category.
	second, err := newService(repo, fixedClock(base.Add(2*time.Minute))).Submit(ctx, report.SubmitInput{
		ActorID:  "actor1",
		Category: "voice",
	})
	require.NoError(t, err)
	assert.False(t, second.Accepted)
	require.NotNil(t, second.Conflicting)
	assert.Equal(t, first.Claim.ID, second.Conflicting.ID)
	assert.Equal(t, base.Add(report.DefaultCooldown), second.RetryAt(report.DefaultCooldown))
	assert.Equal(t, 1, repo.Count())

	// Past the window the actor may submit again.
	third, err := newService(repo, fixedClock(base.Add(6*time.Minute))).Submit(ctx, report.SubmitInput{
		ActorID:  "actor1",
		Category: "login",
	})
	require.NoError(t, err)
	assert.True(t, third.Accepted)
}

func TestService_Submit_OtherActorUnaffected(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	repo := report.NewInMemoryRepository()
	svc := newService(repo, fixedClock(now))
	ctx := context.Background()

	first, err := svc.Submit(ctx, report.SubmitInput{ActorID: "actor1", Category: "login"})
	require.NoError(t, err)
	require.True(t, first.Accepted)

	second, err := svc.Submit(ctx, report.SubmitInput{ActorID: "actor2", Category: "login"})
	require.NoError(t, err)
	assert.True(t, second.Accepted)
	assert.Equal(t, 2, repo.Count())
}

func TestService_Submit_ContentTooLong(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	svc := newService(report.NewInMemoryRepository(), fixedClock(now))

	content := strings.Repeat("x", report.MaxContentLength+1)
	_, err := svc.Submit(context.Background(), report.SubmitInput{
		ActorID:  "actor1",
		Category: "login",
		Content:  &content,
	})
	assert.ErrorIs(t, err, report.ErrContentTooLong)
}

func TestService_Submit_ConcurrentSingleClaimSurvives(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	repo := report.NewInMemoryRepository()
	svc := newService(repo, fixedClock(now))
	ctx := context.Background()

	const callers = 16

	var wg sync.WaitGroup
	results := make([]*report.SubmitResult, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Submit(ctx, report.SubmitInput{
				ActorID:  "actor1",
				Category: "login",
			})
		}(i)
	}
	wg.Wait()

	accepted := 0
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		if results[i].Accepted {
			accepted++
		} else {
			require.NotNil(t, results[i].Conflicting)
		}
	}

	// However the callers interleave, the claims converge to exactly one
	// surviving row and at least one caller observed acceptance.
	assert.GreaterOrEqual(t, accepted, 1)
	assert.Equal(t, 1, repo.Count())
}

// racingRepo suppresses the optimistic fast-path read for a fixed number of
// calls, simulating a concurrent caller whose read happened before the other
// caller's insert became visible.
type racingRepo struct {
	*report.InMemoryRepository
	skipReads int
}

func (r *racingRepo) LatestActiveSince(ctx context.Context, actorID string, cutoff time.Time) (*report.Claim, error) {
	if r.skipReads > 0 {
		r.skipReads--
		return nil, report.ErrNotFound
	}
	return r.InMemoryRepository.LatestActiveSince(ctx, actorID, cutoff)
}

func TestService_Submit_RaceLoserWithdraws(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	inner := report.NewInMemoryRepository()
	ctx := context.Background()

	first, err := newService(inner, fixedClock(base)).Submit(ctx, report.SubmitInput{
		ActorID:  "actor1",
		Category: "login",
	})
	require.NoError(t, err)
	require.True(t, first.Accepted)

	// The second caller's optimistic read misses the first claim, so it
	// inserts and must lose the arbitration against the earlier row.
	repo := &racingRepo{InMemoryRepository: inner, skipReads: 1}
	second, err := newService(repo, fixedClock(base.Add(time.Second))).Submit(ctx, report.SubmitInput{
		ActorID:  "actor1",
		Category: "login",
	})
	require.NoError(t, err)
	assert.False(t, second.Accepted)
	require.NotNil(t, second.Conflicting)
	assert.Equal(t, first.Claim.ID, second.Conflicting.ID)
	assert.Equal(t, 1, inner.Count())
}

func TestService_Submit_RaceWinnerDeletesLosers(t *testing.T) {
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	inner := report.NewInMemoryRepository()
	ctx := context.Background()

	// A racer inserted a later-timestamped claim that is already visible but
	// whose caller has not finished arbitrating.
	require.NoError(t, inner.Insert(ctx, &report.Claim{
		ID:        "zzz-racer",
		ActorID:   "actor1",
		Category:  "login",
		State:     report.StateActive,
		CreatedAt: base.Add(time.Second),
	}))

	// This caller's claim carries the earlier timestamp, so it is the
	// canonical winner and removes the racer's row.
	repo := &racingRepo{InMemoryRepository: inner, skipReads: 1}
	result, err := newService(repo, fixedClock(base)).Submit(ctx, report.SubmitInput{
		ActorID:  "actor1",
		Category: "login",
	})
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, 1, inner.Count())

	survivors, err := inner.ListActiveSince(ctx, "actor1", base.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, survivors, 1)
	assert.Equal(t, result.Claim.ID, survivors[0].ID)
}

func TestService_SimilarClaimCount(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	repo := report.NewInMemoryRepository()
	ctx := context.Background()

	for i, actor := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Insert(ctx, &report.Claim{
			ID:        actor,
			ActorID:   actor,
			Category:  "login",
			State:     report.StateActive,
			CreatedAt: now.Add(time.Duration(-i) * time.Minute),
		}))
	}

	svc := newService(repo, fixedClock(now))
	count, err := svc.SimilarClaimCount(ctx, "login", "a", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
