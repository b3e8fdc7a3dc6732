package metric

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hebububu/VRCPulse/internal/metricsfeed"
)

// Source provides raw data points for one metric definition.
type Source interface {
	FetchPoints(ctx context.Context, def metricsfeed.Definition) ([]metricsfeed.Point, error)
}

// ReconcilerConfig holds configuration for the metric reconciler.
type ReconcilerConfig struct {
	Source      Source
	Repository  Repository
	Logger      zerolog.Logger
	Definitions []metricsfeed.Definition
}

// Reconciler ingests new data points for every metric endpoint. Ingestion
// performs no aggregation; (metric_name, timestamp) uniqueness is the dedup
// gate and unparsable timestamps are dropped.
type Reconciler struct {
	source      Source
	repo        Repository
	logger      zerolog.Logger
	definitions []metricsfeed.Definition
}

// NewReconciler creates a new metric reconciler.
func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	definitions := cfg.Definitions
	if len(definitions) == 0 {
		definitions = metricsfeed.Definitions
	}

	return &Reconciler{
		source:      cfg.Source,
		repo:        cfg.Repository,
		logger:      cfg.Logger,
		definitions: definitions,
	}
}

// Reconcile polls every metric endpoint. A failure on one metric is logged
// and skipped; the remaining metrics are still processed.
func (r *Reconciler) Reconcile(ctx context.Context, now time.Time) error {
	for _, def := range r.definitions {
		if err := r.reconcileMetric(ctx, def, now); err != nil {
			r.logger.Warn().
				Str("metric", def.Name).
				Err(err).
				Msg("failed to poll metric, skipping")
		}
	}
	return nil
}

func (r *Reconciler) reconcileMetric(ctx context.Context, def metricsfeed.Definition, now time.Time) error {
	points, err := r.source.FetchPoints(ctx, def)
	if err != nil {
		return fmt.Errorf("fetch points: %w", err)
	}
	if len(points) == 0 {
		return nil
	}

	latest, err := r.repo.LatestTimestamp(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("latest timestamp: %w", err)
	}

	inserted := 0
	for _, p := range points {
		ts, ok := parseUnixTimestamp(p.UnixTimestamp)
		if !ok {
			r.logger.Warn().
				Int64("timestamp", p.UnixTimestamp).
				Str("metric", def.Name).
				Msg("invalid timestamp, skipping")
			continue
		}

		// Skip points already stored.
		if latest != nil && !ts.After(*latest) {
			continue
		}

		sample := &Sample{
			MetricName:      def.Name,
			Timestamp:       ts,
			Value:           p.Value,
			Unit:            def.Unit,
			IntervalSeconds: DefaultIntervalSeconds,
			CreatedAt:       now,
		}
		if err := r.repo.Insert(ctx, sample); err != nil {
			// A concurrent cycle may have stored the same point.
			if errors.Is(err, ErrDuplicate) {
				continue
			}
			return fmt.Errorf("insert sample: %w", err)
		}
		inserted++
	}

	if inserted > 0 {
		r.logger.Debug().
			Str("metric", def.Name).
			Int("count", inserted).
			Msg("inserted metric data points")
	}

	return nil
}

// parseUnixTimestamp validates a raw unix timestamp and converts it to a
// point in time. The feed occasionally serves garbage values; anything that
// does not land in a plausible range is rejected.
func parseUnixTimestamp(unix int64) (time.Time, bool) {
	// Bounds: 2000-01-01 to 3000-01-01.
	const minUnix = 946684800
	const maxUnix = 32503680000
	if unix < minUnix || unix > maxUnix {
		return time.Time{}, false
	}
	return time.Unix(unix, 0).UTC(), true
}
