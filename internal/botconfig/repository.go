package botconfig

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a config key is not found.
var ErrNotFound = errors.New("config key not found")

// Repository defines the interface for runtime config storage.
type Repository interface {
	// Get retrieves a config entry by key.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set creates or updates a config entry.
	Set(ctx context.Context, key, value string) error
}
