package notify

import (
	"context"
	"fmt"
	"time"
)

// DestinationKind identifies what kind of recipient a payload targets.
type DestinationKind string

// Destination kinds.
const (
	DestinationGuildChannel DestinationKind = "guild_channel"
	DestinationDirectUser   DestinationKind = "direct_user"
)

// Destination identifies a single delivery target.
type Destination struct {
	Kind DestinationKind `json:"kind"`

	// GuildID and ChannelID are set for guild channel deliveries.
	GuildID   string `json:"guild_id,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`

	// UserID is set for direct user deliveries.
	UserID string `json:"user_id,omitempty"`
}

// Payload is the rendered alert content handed to a sink.
type Payload struct {
	Category    string    `json:"category"`
	ReferenceID string    `json:"reference_id"`
	ReportCount int       `json:"report_count"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	// RecentReportTimes lists the timestamps of the most recent reports
	// backing the alert, newest first.
	RecentReportTimes []time.Time `json:"recent_report_times,omitempty"`
}

// Sink delivers alert payloads to an external surface.
type Sink interface {
	// Deliver sends the payload to the destination. A nil return means the
	// payload is durably handed off to the delivery surface.
	Deliver(ctx context.Context, dest Destination, payload Payload) error
}

// DeliveryError wraps a sink failure. Permanent failures (for example a
// deleted channel) should not be retried against the same destination.
type DeliveryError struct {
	Dest      Destination
	Permanent bool
	Err       error
}

func (e *DeliveryError) Error() string {
	if e.Dest.Kind == DestinationDirectUser {
		return fmt.Sprintf("delivery to user %s failed: %v", e.Dest.UserID, e.Err)
	}
	return fmt.Sprintf("delivery to guild %s channel %s failed: %v", e.Dest.GuildID, e.Dest.ChannelID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
