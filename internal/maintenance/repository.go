package maintenance

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a maintenance window is not found.
var ErrNotFound = errors.New("maintenance window not found")

// ErrDuplicate is returned when an insert conflicts with an existing row.
var ErrDuplicate = errors.New("maintenance window already exists")

// Repository defines the interface for maintenance window storage.
type Repository interface {
	// Get retrieves a window by its upstream ID.
	Get(ctx context.Context, id string) (*Window, error)

	// ListByStatus retrieves all windows in the given status.
	ListByStatus(ctx context.Context, status string) ([]*Window, error)

	// Insert stores a new window.
	Insert(ctx context.Context, w *Window) error

	// Update replaces the mutable fields of an existing window.
	Update(ctx context.Context, w *Window) error
}
