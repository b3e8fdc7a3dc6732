package botconfig

import (
	"context"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository for testing.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		entries: make(map[string]*Entry),
	}
}

// NewInMemoryRepositoryWithValues creates a new in-memory repository seeded
// with the given key/value pairs.
func NewInMemoryRepositoryWithValues(values map[string]string) *InMemoryRepository {
	repo := NewInMemoryRepository()
	now := time.Now().UTC()
	for k, v := range values {
		repo.entries[k] = &Entry{Key: k, Value: v, UpdatedAt: now}
	}
	return repo
}

// Get retrieves a config entry by key.
func (r *InMemoryRepository) Get(ctx context.Context, key string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

// Set creates or updates a config entry.
func (r *InMemoryRepository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key] = &Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
