package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Definition describes one polling slot: a named job, its starting interval,
// and an optional channel carrying live interval changes.
type Definition struct {
	// Name identifies the slot in logs.
	Name string

	// Interval is the initial polling interval. Required.
	Interval time.Duration

	// Updates carries replacement intervals. The supervisor re-arms the
	// slot's timer whenever a value arrives. May be nil.
	Updates <-chan time.Duration

	// Poll runs one polling cycle. Errors are logged and the slot keeps
	// running.
	Poll func(ctx context.Context) error
}

// Supervisor runs a set of polling slots, one goroutine per slot. Each slot
// fires at most one poll per timer expiry; a cycle that overruns its
// interval delays the next tick instead of stacking up.
type Supervisor struct {
	defs   []Definition
	logger zerolog.Logger
}

// SupervisorConfig holds configuration for the supervisor.
type SupervisorConfig struct {
	Definitions []Definition
	Logger      zerolog.Logger
}

// NewSupervisor creates a new polling supervisor.
func NewSupervisor(cfg SupervisorConfig) *Supervisor {
	return &Supervisor{
		defs:   cfg.Definitions,
		logger: cfg.Logger.With().Str("component", "poller").Logger(),
	}
}

// Run starts every slot and blocks until the context is cancelled and all
// slots have drained.
func (s *Supervisor) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := range s.defs {
		def := s.defs[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runSlot(ctx, def)
		}()
	}
	wg.Wait()
}

func (s *Supervisor) runSlot(ctx context.Context, def Definition) {
	logger := s.logger.With().Str("poller", def.Name).Logger()
	interval := def.Interval

	logger.Info().Dur("interval", interval).Msg("poller started")

	// First cycle runs immediately so a fresh deployment converges without
	// waiting a full interval.
	s.poll(ctx, def, logger)

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("poller stopped")
			return

		case next := <-def.Updates:
			if next == interval {
				continue
			}
			logger.Info().
				Dur("old_interval", interval).
				Dur("new_interval", next).
				Msg("polling interval changed")
			interval = next
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(interval)

		case <-timer.C:
			s.poll(ctx, def, logger)
			timer.Reset(interval)
		}
	}
}

func (s *Supervisor) poll(ctx context.Context, def Definition, logger zerolog.Logger) {
	start := time.Now()
	if err := def.Poll(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("polling cycle failed")
		return
	}
	logger.Debug().Dur("duration", time.Since(start)).Msg("polling cycle completed")
}
