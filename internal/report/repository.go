package report

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a claim is not found.
var ErrNotFound = errors.New("claim not found")

// Repository defines the interface for claim storage.
type Repository interface {
	// LatestActiveSince returns an actor's most recent active claim created
	// after cutoff, or ErrNotFound.
	LatestActiveSince(ctx context.Context, actorID string, cutoff time.Time) (*Claim, error)

	// Insert stores a new claim.
	Insert(ctx context.Context, c *Claim) error

	// ListActiveSince returns all of an actor's active claims created after
	// cutoff, ordered ascending by (created_at, id).
	ListActiveSince(ctx context.Context, actorID string, cutoff time.Time) ([]*Claim, error)

	// DeleteByID removes a claim.
	DeleteByID(ctx context.Context, id string) error

	// CountDistinctActors counts distinct actors with active claims in the
	// category created after cutoff.
	CountDistinctActors(ctx context.Context, category string, cutoff time.Time) (int64, error)

	// CountDistinctOtherActors is CountDistinctActors excluding one actor.
	CountDistinctOtherActors(ctx context.Context, category, excludeActorID string, cutoff time.Time) (int64, error)

	// RecentTimestamps returns the creation times of the newest active
	// claims in the category created after cutoff, newest first, capped at
	// limit.
	RecentTimestamps(ctx context.Context, category string, cutoff time.Time, limit int) ([]time.Time, error)
}
