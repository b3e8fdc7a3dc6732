package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Hebububu/VRCPulse/internal/notify"
	"github.com/Hebububu/VRCPulse/internal/subscriber"
)

// recentSampleLimit caps how many backing report timestamps are attached to
// an alert payload.
const recentSampleLimit = 5

// ReportSource exposes the aggregate report queries the dispatcher needs.
type ReportSource interface {
	CountDistinctActors(ctx context.Context, category string, cutoff time.Time) (int64, error)
	RecentTimestamps(ctx context.Context, category string, cutoff time.Time, limit int) ([]time.Time, error)
}

// Settings exposes the tunable alert parameters.
type Settings interface {
	Threshold(ctx context.Context) (int64, error)
	WindowMinutes(ctx context.Context) (int64, error)
}

// Directory enumerates the recipients subscribed to alerts.
type Directory interface {
	ListDeliverableGuilds(ctx context.Context) ([]*subscriber.GuildConfig, error)
	ListEnabledUsers(ctx context.Context) ([]*subscriber.UserConfig, error)
}

// Dispatcher evaluates report volume against the configured threshold and
// fans alerts out to subscribers at most once per recipient per reference.
type Dispatcher struct {
	receipts    Repository
	reports     ReportSource
	settings    Settings
	subscribers Directory
	sink        notify.Sink
	logger      zerolog.Logger
	clock       func() time.Time
}

// DispatcherConfig holds configuration for the dispatcher.
type DispatcherConfig struct {
	Receipts    Repository
	Reports     ReportSource
	Settings    Settings
	Subscribers Directory
	Sink        notify.Sink
	Logger      zerolog.Logger

	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// NewDispatcher creates a new threshold alert dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Dispatcher{
		receipts:    cfg.Receipts,
		reports:     cfg.Reports,
		settings:    cfg.Settings,
		subscribers: cfg.Subscribers,
		sink:        cfg.Sink,
		logger:      cfg.Logger.With().Str("component", "alert_dispatcher").Logger(),
		clock:       clock,
	}
}

// EvaluateAndDispatch counts the distinct actors reporting in the category
// within the configured window and, if the threshold is met, delivers one
// alert per subscribed recipient. Redundant evaluations within the same
// 15-minute bucket are collapsed by the receipt reference, so recipients are
// never notified twice for the same episode.
func (d *Dispatcher) EvaluateAndDispatch(ctx context.Context, category string) error {
	logger := d.logger.With().Str("category", category).Logger()

	threshold, err := d.settings.Threshold(ctx)
	if err != nil {
		// Missing or unreadable settings suppress alerting rather than
		// guessing a value.
		logger.Error().Err(err).Msg("alert threshold unavailable, suppressing alerts")
		return nil
	}
	windowMinutes, err := d.settings.WindowMinutes(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("alert window unavailable, suppressing alerts")
		return nil
	}

	now := d.clock()
	cutoff := now.Add(-time.Duration(windowMinutes) * time.Minute)

	count, err := d.reports.CountDistinctActors(ctx, category, cutoff)
	if err != nil {
		return fmt.Errorf("count reporting actors: %w", err)
	}
	if count < threshold {
		logger.Debug().
			Int64("actors", count).
			Int64("threshold", threshold).
			Msg("below alert threshold")
		return nil
	}

	referenceID := ReferenceID(category, now)

	recentTimes, err := d.reports.RecentTimestamps(ctx, category, cutoff, recentSampleLimit)
	if err != nil {
		return fmt.Errorf("load recent report timestamps: %w", err)
	}

	payload := notify.Payload{
		Category:          category,
		ReferenceID:       referenceID,
		ReportCount:       int(count),
		WindowStart:       cutoff,
		WindowEnd:         now,
		RecentReportTimes: recentTimes,
	}

	guilds, err := d.subscribers.ListDeliverableGuilds(ctx)
	if err != nil {
		return fmt.Errorf("list subscribed guilds: %w", err)
	}
	users, err := d.subscribers.ListEnabledUsers(ctx)
	if err != nil {
		return fmt.Errorf("list subscribed users: %w", err)
	}

	delivered := 0
	skipped := 0
	failed := 0

	for _, g := range guilds {
		receipt := &DeliveryReceipt{
			ID:          uuid.NewString(),
			GuildID:     g.GuildID,
			AlertType:   TypeThreshold,
			ReferenceID: referenceID,
			NotifiedAt:  now,
		}
		dest := notify.Destination{
			Kind:      notify.DestinationGuildChannel,
			GuildID:   g.GuildID,
			ChannelID: *g.ChannelID,
		}
		switch d.dispatchOne(ctx, receipt, dest, payload) {
		case dispatchDelivered:
			delivered++
		case dispatchSkipped:
			skipped++
		case dispatchFailed:
			failed++
		}
	}

	for _, u := range users {
		receipt := &DeliveryReceipt{
			ID:          uuid.NewString(),
			UserID:      u.UserID,
			AlertType:   TypeThreshold,
			ReferenceID: referenceID,
			NotifiedAt:  now,
		}
		dest := notify.Destination{
			Kind:   notify.DestinationDirectUser,
			UserID: u.UserID,
		}
		switch d.dispatchOne(ctx, receipt, dest, payload) {
		case dispatchDelivered:
			delivered++
		case dispatchSkipped:
			skipped++
		case dispatchFailed:
			failed++
		}
	}

	logger.Info().
		Str("reference_id", referenceID).
		Int64("actors", count).
		Int64("threshold", threshold).
		Int("delivered", delivered).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("threshold alert dispatched")

	return nil
}

type dispatchOutcome int

const (
	dispatchDelivered dispatchOutcome = iota
	dispatchSkipped
	dispatchFailed
)

// dispatchOne reserves the recipient's receipt before delivering, so a
// concurrent or later evaluation of the same reference cannot double-send.
// If delivery fails the reservation is released and a later cycle retries.
func (d *Dispatcher) dispatchOne(ctx context.Context, receipt *DeliveryReceipt, dest notify.Destination, payload notify.Payload) dispatchOutcome {
	if err := d.receipts.Insert(ctx, receipt); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return dispatchSkipped
		}
		d.logger.Error().Err(err).
			Str("reference_id", receipt.ReferenceID).
			Msg("failed to reserve delivery receipt")
		return dispatchFailed
	}

	if err := d.sink.Deliver(ctx, dest, payload); err != nil {
		d.logger.Error().Err(err).
			Str("reference_id", receipt.ReferenceID).
			Str("kind", string(dest.Kind)).
			Msg("alert delivery failed, releasing receipt")
		if delErr := d.receipts.DeleteByID(ctx, receipt.ID); delErr != nil {
			d.logger.Error().Err(delErr).
				Str("receipt_id", receipt.ID).
				Msg("failed to release delivery receipt")
		}
		return dispatchFailed
	}

	return dispatchDelivered
}
