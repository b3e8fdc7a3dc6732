package metric

import (
	"context"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository for testing.
type InMemoryRepository struct {
	mu      sync.RWMutex
	samples map[string]*Sample // keyed by metric name + timestamp
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		samples: make(map[string]*Sample),
	}
}

func sampleKey(name string, ts time.Time) string {
	return name + "@" + ts.UTC().Format(time.RFC3339Nano)
}

// LatestTimestamp returns the newest stored timestamp for a metric.
func (r *InMemoryRepository) LatestTimestamp(ctx context.Context, metricName string) (*time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *time.Time
	for _, s := range r.samples {
		if s.MetricName != metricName {
			continue
		}
		if latest == nil || s.Timestamp.After(*latest) {
			ts := s.Timestamp
			latest = &ts
		}
	}
	return latest, nil
}

// Insert stores a new sample.
func (r *InMemoryRepository) Insert(ctx context.Context, s *Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sampleKey(s.MetricName, s.Timestamp)
	if _, ok := r.samples[key]; ok {
		return ErrDuplicate
	}
	cp := *s
	r.samples[key] = &cp
	return nil
}

// Count returns the number of stored samples for a metric.
func (r *InMemoryRepository) Count(ctx context.Context, metricName string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, s := range r.samples {
		if s.MetricName == metricName {
			count++
		}
	}
	return count, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
