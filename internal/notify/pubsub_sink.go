package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubSink publishes alerts to a Pub/Sub topic for downstream delivery
// workers to fan out.
type PubSubSink struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	logger    zerolog.Logger
}

// PubSubSinkConfig holds configuration for the Pub/Sub sink.
type PubSubSinkConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// NewPubSubSink creates a Pub/Sub-backed sink.
func NewPubSubSink(ctx context.Context, cfg PubSubSinkConfig) (*PubSubSink, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &PubSubSink{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		topicName: cfg.TopicName,
		logger:    cfg.Logger.With().Str("component", "pubsub_sink").Logger(),
	}, nil
}

// Deliver publishes the payload and blocks until the publish is acknowledged.
func (s *PubSubSink) Deliver(ctx context.Context, dest Destination, payload Payload) error {
	data, err := json.Marshal(webhookEnvelope{Destination: dest, Payload: payload})
	if err != nil {
		return &DeliveryError{Dest: dest, Permanent: true, Err: fmt.Errorf("failed to encode payload: %w", err)}
	}

	result := s.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"category":     payload.Category,
			"reference_id": payload.ReferenceID,
		},
	})

	id, err := result.Get(ctx)
	if err != nil {
		return &DeliveryError{Dest: dest, Err: fmt.Errorf("publish failed: %w", err)}
	}

	s.logger.Debug().
		Str("message_id", id).
		Str("topic", s.topicName).
		Str("reference_id", payload.ReferenceID).
		Msg("alert published")

	return nil
}

// Close flushes pending publishes and releases the client.
func (s *PubSubSink) Close() error {
	s.publisher.Stop()
	return s.client.Close()
}
