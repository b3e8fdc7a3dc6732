package statuspage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hebububu/VRCPulse/internal/statuspage"
)

func TestClient_FetchSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/summary.json", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"page": {"updated_at": "2026-01-10T12:00:05Z"},
			"status": {"indicator": "minor", "description": "Partially Degraded Service"},
			"components": [
				{"id": "cmp1", "name": "API", "status": "degraded_performance"},
				{"id": "cmp2", "name": "Website", "status": "operational"}
			]
		}`))
	}))
	defer server.Close()

	client := statuspage.NewClient(statuspage.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	summary, err := client.FetchSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "minor", summary.Status.Indicator)
	assert.Equal(t, "Partially Degraded Service", summary.Status.Description)
	require.Len(t, summary.Components, 2)
	assert.Equal(t, "cmp1", summary.Components[0].ID)
	assert.Equal(t, "degraded_performance", summary.Components[0].Status)
	assert.False(t, summary.Page.UpdatedAt.IsZero())
}

func TestClient_FetchUnresolvedIncidents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/incidents/unresolved.json", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"incidents": [
				{
					"id": "abc123",
					"name": "Login issues",
					"status": "investigating",
					"impact": "major",
					"created_at": "2026-01-10T11:30:00Z",
					"updated_at": "2026-01-10T11:45:00Z",
					"incident_updates": [
						{"id": "upd1", "status": "investigating", "body": "We are investigating.", "created_at": "2026-01-10T11:30:00Z"}
					]
				}
			]
		}`))
	}))
	defer server.Close()

	client := statuspage.NewClient(statuspage.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	incidents, err := client.FetchUnresolvedIncidents(context.Background())
	require.NoError(t, err)
	require.Len(t, incidents, 1)

	assert.Equal(t, "abc123", incidents[0].ID)
	assert.Equal(t, "Login issues", incidents[0].Name)
	assert.Equal(t, "investigating", incidents[0].Status)
	assert.Equal(t, "major", incidents[0].Impact)
	require.Len(t, incidents[0].IncidentUpdates, 1)
	assert.Equal(t, "upd1", incidents[0].IncidentUpdates[0].ID)
}

func TestClient_FetchMaintenances(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"scheduled_maintenances": [
				{
					"id": "mnt1",
					"name": "Database upgrade",
					"status": "scheduled",
					"scheduled_for": "2026-01-11T02:00:00Z",
					"scheduled_until": "2026-01-11T04:00:00Z",
					"created_at": "2026-01-09T00:00:00Z",
					"updated_at": "2026-01-09T00:00:00Z"
				}
			]
		}`))
	}))
	defer server.Close()

	client := statuspage.NewClient(statuspage.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	upcoming, err := client.FetchUpcomingMaintenances(context.Background())
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "mnt1", upcoming[0].ID)
	assert.Equal(t, "scheduled", upcoming[0].Status)

	active, err := client.FetchActiveMaintenances(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
}

func TestClient_FetchSummary_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := statuspage.NewClient(statuspage.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.FetchSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}
