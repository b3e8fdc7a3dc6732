package report

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository for
// testing. Each operation is individually atomic, mirroring the row-level
// atomicity the real store provides; no operation sequence is atomic as a
// whole.
type InMemoryRepository struct {
	mu     sync.RWMutex
	claims map[string]*Claim
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		claims: make(map[string]*Claim),
	}
}

// LatestActiveSince returns an actor's most recent active claim after cutoff.
func (r *InMemoryRepository) LatestActiveSince(ctx context.Context, actorID string, cutoff time.Time) (*Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *Claim
	for _, c := range r.claims {
		if c.ActorID != actorID || c.State != StateActive || !c.CreatedAt.After(cutoff) {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

// Insert stores a new claim.
func (r *InMemoryRepository) Insert(ctx context.Context, c *Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *c
	r.claims[c.ID] = &cp
	return nil
}

// ListActiveSince returns an actor's active claims after cutoff, ordered
// ascending by (created_at, id).
func (r *InMemoryRepository) ListActiveSince(ctx context.Context, actorID string, cutoff time.Time) ([]*Claim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Claim
	for _, c := range r.claims {
		if c.ActorID == actorID && c.State == StateActive && c.CreatedAt.After(cutoff) {
			cp := *c
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteByID removes a claim.
func (r *InMemoryRepository) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.claims, id)
	return nil
}

// CountDistinctActors counts distinct actors with active claims in the
// category after cutoff.
func (r *InMemoryRepository) CountDistinctActors(ctx context.Context, category string, cutoff time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actors := make(map[string]bool)
	for _, c := range r.claims {
		if c.Category == category && c.State == StateActive && c.CreatedAt.After(cutoff) {
			actors[c.ActorID] = true
		}
	}
	return int64(len(actors)), nil
}

// CountDistinctOtherActors is CountDistinctActors excluding one actor.
func (r *InMemoryRepository) CountDistinctOtherActors(ctx context.Context, category, excludeActorID string, cutoff time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actors := make(map[string]bool)
	for _, c := range r.claims {
		if c.Category == category && c.ActorID != excludeActorID && c.State == StateActive && c.CreatedAt.After(cutoff) {
			actors[c.ActorID] = true
		}
	}
	return int64(len(actors)), nil
}

// RecentTimestamps returns the newest active claim creation times in the
// category after cutoff.
func (r *InMemoryRepository) RecentTimestamps(ctx context.Context, category string, cutoff time.Time, limit int) ([]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var timestamps []time.Time
	for _, c := range r.claims {
		if c.Category == category && c.State == StateActive && c.CreatedAt.After(cutoff) {
			timestamps = append(timestamps, c.CreatedAt)
		}
	}
	sort.Slice(timestamps, func(i, j int) bool {
		return timestamps[i].After(timestamps[j])
	})
	if len(timestamps) > limit {
		timestamps = timestamps[:limit]
	}
	return timestamps, nil
}

// Count returns the total number of stored claims.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.claims)
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
