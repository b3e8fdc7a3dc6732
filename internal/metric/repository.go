package metric

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicate is returned when an insert conflicts with an existing sample.
var ErrDuplicate = errors.New("metric sample already exists")

// Repository defines the interface for metric sample storage.
type Repository interface {
	// LatestTimestamp returns the newest stored timestamp for a metric, or
	// nil if no samples exist yet.
	LatestTimestamp(ctx context.Context, metricName string) (*time.Time, error)

	// Insert stores a new sample. Returns ErrDuplicate on a
	// (metric_name, timestamp) conflict.
	Insert(ctx context.Context, s *Sample) error

	// Count returns the number of stored samples for a metric.
	Count(ctx context.Context, metricName string) (int64, error)
}
