package status

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicate is returned when an insert conflicts with an existing row.
var ErrDuplicate = errors.New("status row already exists")

// Repository defines the interface for status snapshot storage.
type Repository interface {
	// HasSnapshot reports whether a snapshot exists for the given upstream
	// timestamp.
	HasSnapshot(ctx context.Context, sourceTimestamp time.Time) (bool, error)

	// InsertSnapshot stores a new overall-status snapshot. Returns
	// ErrDuplicate if one already exists for the same source timestamp.
	InsertSnapshot(ctx context.Context, s *Snapshot) error

	// HasComponentSample reports whether a sample exists for the given
	// component and upstream timestamp.
	HasComponentSample(ctx context.Context, componentID string, sourceTimestamp time.Time) (bool, error)

	// InsertComponentSample stores a new per-component sample. Returns
	// ErrDuplicate on a (component_id, source_timestamp) conflict.
	InsertComponentSample(ctx context.Context, s *ComponentSample) error
}
