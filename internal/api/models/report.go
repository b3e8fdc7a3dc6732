package models

// SubmitReportRequest is the request body for POST /v1/reports.
type SubmitReportRequest struct {
	ActorID  string  `json:"actorId"`
	ScopeID  *string `json:"scopeId,omitempty"`
	Category string  `json:"category"`
	Content  *string `json:"content,omitempty"`
}

// SubmitReportResponse is the outcome of a report submission. When the actor
// is inside the cooldown window Accepted is false and RetryAfterSeconds says
// how long to wait.
type SubmitReportResponse struct {
	Accepted          bool   `json:"accepted"`
	ClaimID           string `json:"claimId,omitempty"`
	SimilarReports    int64  `json:"similarReports"`
	RetryAfterSeconds int64  `json:"retryAfterSeconds,omitempty"`
}
