package statuspage

import "time"

// API response types for the Atlassian Statuspage v2 API as served by
// status.vrchat.com.

// Summary is the response from /summary.json.
type Summary struct {
	Page       PageInfo    `json:"page"`
	Status     StatusInfo  `json:"status"`
	Components []Component `json:"components"`
}

// PageInfo carries the upstream page metadata.
type PageInfo struct {
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusInfo is the overall status block of a summary.
type StatusInfo struct {
	// Indicator is one of: none | minor | major | critical.
	Indicator   string `json:"indicator"`
	Description string `json:"description"`
}

// Component is a single monitored component in a summary.
type Component struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Status is one of: operational | degraded_performance | partial_outage | major_outage.
	Status string `json:"status"`
}

// Incident is a single incident from /incidents/unresolved.json.
type Incident struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Status is one of: investigating | identified | monitoring | resolved.
	Status string `json:"status"`
	// Impact is one of: none | minor | major | critical.
	Impact          string           `json:"impact"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	IncidentUpdates []IncidentUpdate `json:"incident_updates"`
}

// IncidentUpdate is a single status note attached to an incident.
type IncidentUpdate struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Maintenance is a scheduled maintenance window from
// /scheduled-maintenances/upcoming.json or /scheduled-maintenances/active.json.
type Maintenance struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Status is one of: scheduled | in_progress | completed.
	Status         string    `json:"status"`
	ScheduledFor   time.Time `json:"scheduled_for"`
	ScheduledUntil time.Time `json:"scheduled_until"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type incidentsResponse struct {
	Incidents []Incident `json:"incidents"`
}

type maintenancesResponse struct {
	ScheduledMaintenances []Maintenance `json:"scheduled_maintenances"`
}
