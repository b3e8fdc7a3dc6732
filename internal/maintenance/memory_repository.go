package maintenance

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository for testing.
type InMemoryRepository struct {
	mu      sync.RWMutex
	windows map[string]*Window
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		windows: make(map[string]*Window),
	}
}

// Get retrieves a window by its upstream ID.
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Window, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.windows[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *w
	return &cp, nil
}

// ListByStatus retrieves all windows in the given status.
func (r *InMemoryRepository) ListByStatus(ctx context.Context, status string) ([]*Window, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Window
	for _, w := range r.windows {
		if w.Status == status {
			cp := *w
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ScheduledFor.Before(result[j].ScheduledFor)
	})
	return result, nil
}

// Insert stores a new window.
func (r *InMemoryRepository) Insert(ctx context.Context, w *Window) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.windows[w.ID]; ok {
		return ErrDuplicate
	}
	cp := *w
	r.windows[w.ID] = &cp
	return nil
}

// Update replaces the mutable fields of an existing window.
func (r *InMemoryRepository) Update(ctx context.Context, w *Window) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.windows[w.ID]; !ok {
		return ErrNotFound
	}
	cp := *w
	r.windows[w.ID] = &cp
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
