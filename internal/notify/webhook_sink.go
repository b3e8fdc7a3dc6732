package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Hebububu/VRCPulse/internal/provider/resilience"
)

// webhookEnvelope is the wire format posted to the delivery webhook.
type webhookEnvelope struct {
	Destination Destination `json:"destination"`
	Payload     Payload     `json:"payload"`
}

// HTTPDoer executes HTTP requests. Satisfied by *http.Client and the
// resilience client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookSink delivers alerts by POSTing them to a delivery webhook, which
// owns the final hop to the chat surface.
type WebhookSink struct {
	url        string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// WebhookSinkConfig holds configuration for the webhook sink.
type WebhookSinkConfig struct {
	// URL is the webhook endpoint. Required.
	URL string

	// HTTPClient is the client used for delivery. If nil, a resilient
	// client with default settings is used.
	HTTPClient HTTPDoer

	Logger zerolog.Logger
}

// NewWebhookSink creates a webhook-backed sink.
func NewWebhookSink(cfg WebhookSinkConfig) *WebhookSink {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig("alert-webhook"))
	}

	return &WebhookSink{
		url:        cfg.URL,
		httpClient: httpClient,
		logger:     cfg.Logger.With().Str("component", "webhook_sink").Logger(),
	}
}

// Deliver posts the payload to the webhook endpoint.
func (s *WebhookSink) Deliver(ctx context.Context, dest Destination, payload Payload) error {
	body, err := json.Marshal(webhookEnvelope{Destination: dest, Payload: payload})
	if err != nil {
		return &DeliveryError{Dest: dest, Permanent: true, Err: fmt.Errorf("failed to encode payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return &DeliveryError{Dest: dest, Permanent: true, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &DeliveryError{Dest: dest, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		s.logger.Debug().
			Str("reference_id", payload.ReferenceID).
			Str("kind", string(dest.Kind)).
			Msg("alert delivered")
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// The destination rejected the payload; retrying the same
		// destination will not help.
		return &DeliveryError{
			Dest:      dest,
			Permanent: true,
			Err:       fmt.Errorf("webhook rejected delivery: status %d", resp.StatusCode),
		}
	default:
		return &DeliveryError{
			Dest: dest,
			Err:  fmt.Errorf("webhook delivery failed: status %d", resp.StatusCode),
		}
	}
}
