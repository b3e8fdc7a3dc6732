package incident

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository for testing.
type InMemoryRepository struct {
	mu        sync.RWMutex
	incidents map[string]*Incident
	notes     map[string]*Note
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		incidents: make(map[string]*Incident),
		notes:     make(map[string]*Note),
	}
}

// Get retrieves an incident by its upstream ID.
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inc, ok := r.incidents[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *inc
	return &cp, nil
}

// ListUnresolved retrieves all incidents not yet resolved.
func (r *InMemoryRepository) ListUnresolved(ctx context.Context) ([]*Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Incident
	for _, inc := range r.incidents {
		if inc.Status != StatusResolved {
			cp := *inc
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.Before(result[j].StartedAt)
	})
	return result, nil
}

// Insert stores a new incident.
func (r *InMemoryRepository) Insert(ctx context.Context, inc *Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.incidents[inc.ID]; ok {
		return ErrDuplicate
	}
	cp := *inc
	r.incidents[inc.ID] = &cp
	return nil
}

// Update replaces the mutable fields of an existing incident.
func (r *InMemoryRepository) Update(ctx context.Context, inc *Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.incidents[inc.ID]; !ok {
		return ErrNotFound
	}
	cp := *inc
	r.incidents[inc.ID] = &cp
	return nil
}

// HasNote reports whether a note with the given upstream ID exists.
func (r *InMemoryRepository) HasNote(ctx context.Context, noteID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.notes[noteID]
	return ok, nil
}

// InsertNote stores a new note.
func (r *InMemoryRepository) InsertNote(ctx context.Context, note *Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[note.ID]; ok {
		return ErrDuplicate
	}
	cp := *note
	r.notes[note.ID] = &cp
	return nil
}

// NoteCount returns the number of stored notes.
func (r *InMemoryRepository) NoteCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notes)
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
