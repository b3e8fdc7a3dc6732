// Package report handles user-submitted incident claims and the per-actor
// cooldown that gates them.
package report

import "time"

// Claim states. Only active is transitioned into today; counted and expired
// are declared for the claim lifecycle but no current logic moves a claim
// into them (extension point).
const (
	StateActive  = "active"
	StateCounted = "counted"
	StateExpired = "expired"
)

// DefaultCooldown is the per-actor duplicate-claim cooldown.
const DefaultCooldown = 5 * time.Minute

// MaxContentLength caps the free-form detail text attached to a claim.
const MaxContentLength = 500

// Claim is a single actor's report of an issue in a given category.
type Claim struct {
	// ID is a uuid string. (CreatedAt, ID) is the total order used to
	// arbitrate concurrent submissions.
	ID string

	ActorID string

	// ScopeID is the community the claim was filed from, if any.
	ScopeID *string

	Category string
	Content  *string
	State    string

	CreatedAt time.Time
}
