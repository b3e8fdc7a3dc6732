// Package statuspage provides a client for the VRChat Statuspage API.
package statuspage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Hebububu/VRCPulse/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the VRChat Statuspage API.
	DefaultBaseURL = "https://status.vrchat.com/api/v2"

	// ProviderName identifies this provider.
	ProviderName = "statuspage"
)

// ClientConfig holds configuration for the Statuspage client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a Statuspage API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new Statuspage client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		rc := resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
		resilience.GlobalRegistry.Register(ProviderName, rc)
		httpClient = rc
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// FetchSummary retrieves the current page summary (overall status plus
// per-component statuses).
func (c *Client) FetchSummary(ctx context.Context) (*Summary, error) {
	var summary Summary
	if err := c.getJSON(ctx, "/summary.json", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// FetchUnresolvedIncidents retrieves all currently unresolved incidents.
// An incident absent from this list is considered resolved upstream.
func (c *Client) FetchUnresolvedIncidents(ctx context.Context) ([]Incident, error) {
	var result incidentsResponse
	if err := c.getJSON(ctx, "/incidents/unresolved.json", &result); err != nil {
		return nil, err
	}
	return result.Incidents, nil
}

// FetchUpcomingMaintenances retrieves maintenance windows that have not
// started yet.
func (c *Client) FetchUpcomingMaintenances(ctx context.Context) ([]Maintenance, error) {
	var result maintenancesResponse
	if err := c.getJSON(ctx, "/scheduled-maintenances/upcoming.json", &result); err != nil {
		return nil, err
	}
	return result.ScheduledMaintenances, nil
}

// FetchActiveMaintenances retrieves maintenance windows currently in progress.
func (c *Client) FetchActiveMaintenances(ctx context.Context) ([]Maintenance, error) {
	var result maintenancesResponse
	if err := c.getJSON(ctx, "/scheduled-maintenances/active.json", &result); err != nil {
		return nil, err
	}
	return result.ScheduledMaintenances, nil
}

// getJSON fetches a single endpoint and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		resilience.GlobalRegistry.RecordFailure(ProviderName, err)
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
		resilience.GlobalRegistry.RecordFailure(ProviderName, err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	resilience.GlobalRegistry.RecordSuccess(ProviderName)
	return nil
}
