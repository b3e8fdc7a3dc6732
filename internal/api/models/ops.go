package models

// Health represents the health status of the service.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ProviderHealth describes the circuit state of one upstream provider.
type ProviderHealth struct {
	Name                string     `json:"name"`
	CircuitState        string     `json:"circuitState"`
	Healthy             bool       `json:"healthy"`
	Requests            uint32     `json:"requests"`
	ConsecutiveFailures uint32     `json:"consecutiveFailures"`
	LastSuccessAt       *Timestamp `json:"lastSuccessAt,omitempty"`
	LastFailureAt       *Timestamp `json:"lastFailureAt,omitempty"`
	LastError           string     `json:"lastError,omitempty"`
}

// ProviderHealthResponse is the response for GET /v1/ops/providers.
type ProviderHealthResponse struct {
	Providers []ProviderHealth `json:"providers"`
}
