package incident

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an incident is not found.
var ErrNotFound = errors.New("incident not found")

// ErrDuplicate is returned when an insert conflicts with an existing row.
var ErrDuplicate = errors.New("incident row already exists")

// Repository defines the interface for incident storage.
type Repository interface {
	// Get retrieves an incident by its upstream ID.
	Get(ctx context.Context, id string) (*Incident, error)

	// ListUnresolved retrieves all incidents not yet in the resolved status.
	ListUnresolved(ctx context.Context) ([]*Incident, error)

	// Insert stores a new incident.
	Insert(ctx context.Context, inc *Incident) error

	// Update replaces the mutable fields of an existing incident.
	Update(ctx context.Context, inc *Incident) error

	// HasNote reports whether a note with the given upstream ID exists.
	HasNote(ctx context.Context, noteID string) (bool, error)

	// InsertNote stores a new note. Returns ErrDuplicate if a note with the
	// same ID already exists.
	InsertNote(ctx context.Context, note *Note) error
}
