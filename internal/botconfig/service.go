package botconfig

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the config service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger
}

// Service reads and mutates runtime configuration. It also owns one
// single-slot interval mailbox per poller: the scheduling loops select on
// these channels to pick up interval changes without a restart.
type Service struct {
	repo   Repository
	logger zerolog.Logger

	updates map[PollerName]chan time.Duration
}

// NewService creates a new config service.
func NewService(cfg ServiceConfig) *Service {
	updates := make(map[PollerName]chan time.Duration, len(AllPollers()))
	for _, name := range AllPollers() {
		updates[name] = make(chan time.Duration, 1)
	}

	return &Service{
		repo:    cfg.Repository,
		logger:  cfg.Logger,
		updates: updates,
	}
}

// IntervalUpdates returns the live interval channel for a poller. The
// channel carries the most recent value only; stale values are replaced,
// never queued.
func (s *Service) IntervalUpdates(name PollerName) <-chan time.Duration {
	return s.updates[name]
}

// PollerInterval loads a poller's interval from storage. A missing or
// unparsable value is an error: silently picking a default could mask
// misconfiguration, so startup fails instead.
func (s *Service) PollerInterval(ctx context.Context, name PollerName) (time.Duration, error) {
	seconds, err := s.intValue(ctx, name.Key())
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

// SetPollerInterval validates and applies a new interval. The update is a
// two-step commit: push onto the live channel (takes effect immediately in
// the running loop), then persist (survives restart). A crash between the
// two steps leaves the running process correct but reverts the value on
// restart; this window is accepted.
func (s *Service) SetPollerInterval(ctx context.Context, name PollerName, seconds int64) error {
	if err := ValidateInterval(seconds); err != nil {
		return err
	}

	s.push(name, time.Duration(seconds)*time.Second)

	if err := s.repo.Set(ctx, name.Key(), strconv.FormatInt(seconds, 10)); err != nil {
		return fmt.Errorf("persist interval %s: %w", name.Key(), err)
	}

	s.logger.Info().
		Str("poller", string(name)).
		Int64("seconds", seconds).
		Msg("updated polling interval")

	return nil
}

// ResetAllIntervals restores every poller to the default interval.
func (s *Service) ResetAllIntervals(ctx context.Context) error {
	for _, name := range AllPollers() {
		s.push(name, DefaultIntervalSeconds*time.Second)
		if err := s.repo.Set(ctx, name.Key(), strconv.Itoa(DefaultIntervalSeconds)); err != nil {
			return fmt.Errorf("persist interval %s: %w", name.Key(), err)
		}
	}

	s.logger.Info().
		Int("seconds", DefaultIntervalSeconds).
		Msg("reset all polling intervals to default")

	return nil
}

// Threshold loads the alert threshold (distinct reporting actors required to
// trigger an alert).
func (s *Service) Threshold(ctx context.Context) (int64, error) {
	return s.intValue(ctx, KeyReportThreshold)
}

// SetThreshold validates and persists a new alert threshold.
func (s *Service) SetThreshold(ctx context.Context, n int64) error {
	if n < 1 {
		return fmt.Errorf("threshold must be at least 1")
	}
	if err := s.repo.Set(ctx, KeyReportThreshold, strconv.FormatInt(n, 10)); err != nil {
		return fmt.Errorf("persist threshold: %w", err)
	}

	s.logger.Info().Int64("threshold", n).Msg("updated alert threshold")
	return nil
}

// WindowMinutes loads the alert aggregation window in minutes.
func (s *Service) WindowMinutes(ctx context.Context) (int64, error) {
	return s.intValue(ctx, KeyReportInterval)
}

// SetWindowMinutes validates and persists a new aggregation window.
func (s *Service) SetWindowMinutes(ctx context.Context, minutes int64) error {
	if minutes < 1 || minutes > 1440 {
		return fmt.Errorf("window must be between 1 and 1440 minutes")
	}
	if err := s.repo.Set(ctx, KeyReportInterval, strconv.FormatInt(minutes, 10)); err != nil {
		return fmt.Errorf("persist window: %w", err)
	}

	s.logger.Info().Int64("minutes", minutes).Msg("updated alert window")
	return nil
}

// push replaces the mailbox value for a poller. Never blocks: a pending
// stale value is discarded first.
func (s *Service) push(name PollerName, d time.Duration) {
	ch := s.updates[name]
	for {
		select {
		case ch <- d:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

func (s *Service) intValue(ctx context.Context, key string) (int64, error) {
	entry, err := s.repo.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("load config %s: %w", key, err)
	}

	n, err := strconv.ParseInt(entry.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid config value for %s: %q", key, entry.Value)
	}
	return n, nil
}
