// Package metricsfeed provides a client for the CloudFront-hosted VRChat
// metrics feed. Each endpoint serves an array of [unix_timestamp, value]
// pairs.
package metricsfeed

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
	// DefaultBaseURL is the base URL for the CloudFront metrics feed.
	DefaultBaseURL = "https://d31qqo63tn8lj0.cloudfront.net"

	// ProviderName identifies this provider.
	ProviderName = "metricsfeed"
)

// Definition describes one metric endpoint of the feed.
type Definition struct {
	Endpoint string
	Name     string
	Unit     string
}

// Definitions lists every metric endpoint the feed serves.
var Definitions = []Definition{
	{Endpoint: "/apilatency.json", Name: "api_latency", Unit: "ms"},
	{Endpoint: "/visits.json", Name: "visits", Unit: "count"},
	{Endpoint: "/apirequests.json", Name: "api_requests", Unit: "count"},
	{Endpoint: "/apierrors.json", Name: "api_errors", Unit: "count"},
	{Endpoint: "/extauth_steam.json", Name: "extauth_steam", Unit: "ms"},
	{Endpoint: "/extauth_oculus.json", Name: "extauth_oculus", Unit: "ms"},
	{Endpoint: "/extauth_steam_count.json", Name: "extauth_steam_count", Unit: "count"},
	{Endpoint: "/extauth_oculus_count.json", Name: "extauth_oculus_count", Unit: "count"},
}

// Point is a single raw data point: a unix timestamp and a value.
type Point struct {
	UnixTimestamp int64
	Value         float64
}

// UnmarshalJSON decodes the feed's [timestamp, value] tuple form.
func (p *Point) UnmarshalJSON(data []byte) error {
	var tuple [2]float64
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	p.UnixTimestamp = int64(tuple[0])
	p.Value = tuple[1]
	return nil
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the metrics feed client.
type ClientConfig struct {
	// BaseURL is the feed base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual requests (default: 10s).
	Timeout time.Duration
}

// Client is a metrics feed client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new metrics feed client.
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

// FetchPoints retrieves all data points for one metric definition.
func (c *Client) FetchPoints(ctx context.Context, def Definition) ([]Point, error) {
	url := c.baseURL + def.Endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		resilience.GlobalRegistry.RecordFailure(ProviderName, err)
		return nil, fmt.Errorf("fetch %s: %w", def.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d from %s", resp.StatusCode, def.Endpoint)
		resilience.GlobalRegistry.RecordFailure(ProviderName, err)
		return nil, err
	}

	var points []Point
	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", def.Name, err)
	}

	resilience.GlobalRegistry.RecordSuccess(ProviderName)
	return points, nil
}
