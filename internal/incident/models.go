// Package incident tracks upstream incidents and their update notes.
package incident

import "time"

// Incident statuses as reported by the Statuspage API.
const (
	StatusInvestigating = "investigating"
	StatusIdentified    = "identified"
	StatusMonitoring    = "monitoring"
	StatusResolved      = "resolved"
)

// Incident is a locally tracked upstream incident.
//
// ResolvedAt is set iff Status == resolved. Once resolved an incident never
// regresses to an earlier status during normal operation.
type Incident struct {
	// ID is the stable upstream incident identifier.
	ID string

	Title  string
	Impact string
	Status string

	StartedAt  time.Time
	ResolvedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Resolved reports whether the incident has reached its terminal status.
func (i *Incident) Resolved() bool {
	return i.Status == StatusResolved
}

// Note is a single status update attached to an incident. Notes are
// immutable: they are inserted once and never modified.
type Note struct {
	// ID is the stable upstream update identifier.
	ID         string
	IncidentID string

	Body        string
	Status      string
	PublishedAt time.Time

	CreatedAt time.Time
}
