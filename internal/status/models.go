// Package status records append-only overall-status and per-component
// snapshots of the upstream page.
package status

import "time"

// Snapshot is one overall-status observation, keyed by the upstream page's
// update timestamp. Append-only: one row per distinct upstream timestamp.
type Snapshot struct {
	// Indicator is one of: none | minor | major | critical.
	Indicator   string
	Description string

	// SourceTimestamp is the upstream page's updated_at. Unique.
	SourceTimestamp time.Time

	CreatedAt time.Time
}

// ComponentSample is one per-component status observation. Append-only,
// unique on (ComponentID, SourceTimestamp).
type ComponentSample struct {
	ComponentID string
	Name        string

	// Status is one of: operational | degraded_performance | partial_outage | major_outage.
	Status string

	SourceTimestamp time.Time
	CreatedAt       time.Time
}
