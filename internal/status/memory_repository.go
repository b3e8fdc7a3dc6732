package status

import (
	"context"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository for testing.
type InMemoryRepository struct {
	mu        sync.RWMutex
	snapshots map[int64]*Snapshot          // keyed by source timestamp (unix nanos)
	samples   map[string]*ComponentSample  // keyed by component_id + source timestamp
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		snapshots: make(map[int64]*Snapshot),
		samples:   make(map[string]*ComponentSample),
	}
}

func sampleKey(componentID string, ts time.Time) string {
	return componentID + "@" + ts.UTC().Format(time.RFC3339Nano)
}

// HasSnapshot reports whether a snapshot exists for the given timestamp.
func (r *InMemoryRepository) HasSnapshot(ctx context.Context, sourceTimestamp time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.snapshots[sourceTimestamp.UnixNano()]
	return ok, nil
}

// InsertSnapshot stores a new overall-status snapshot.
func (r *InMemoryRepository) InsertSnapshot(ctx context.Context, s *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := s.SourceTimestamp.UnixNano()
	if _, ok := r.snapshots[key]; ok {
		return ErrDuplicate
	}
	cp := *s
	r.snapshots[key] = &cp
	return nil
}

// HasComponentSample reports whether a sample exists for the given component
// and timestamp.
func (r *InMemoryRepository) HasComponentSample(ctx context.Context, componentID string, sourceTimestamp time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.samples[sampleKey(componentID, sourceTimestamp)]
	return ok, nil
}

// InsertComponentSample stores a new per-component sample.
func (r *InMemoryRepository) InsertComponentSample(ctx context.Context, s *ComponentSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sampleKey(s.ComponentID, s.SourceTimestamp)
	if _, ok := r.samples[key]; ok {
		return ErrDuplicate
	}
	cp := *s
	r.samples[key] = &cp
	return nil
}

// SnapshotCount returns the number of stored snapshots.
func (r *InMemoryRepository) SnapshotCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.snapshots)
}

// ComponentSampleCount returns the number of stored component samples.
func (r *InMemoryRepository) ComponentSampleCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.samples)
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
