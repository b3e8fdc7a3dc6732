// Package maintenance tracks scheduled maintenance windows.
package maintenance

import "time"

// Maintenance window statuses. A window's status only advances forward
// (scheduled -> in_progress -> completed, or scheduled -> completed directly
// when the window was skipped); it never regresses.
const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Window is a locally tracked upstream maintenance window.
type Window struct {
	// ID is the stable upstream maintenance identifier.
	ID string

	Title  string
	Status string

	ScheduledFor   time.Time
	ScheduledUntil time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Completed reports whether the window has reached its terminal status.
func (w *Window) Completed() bool {
	return w.Status == StatusCompleted
}
