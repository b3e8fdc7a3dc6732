// Package botconfig stores runtime-tunable configuration in the bot_config
// table: poller intervals and the alert threshold/window.
package botconfig

import (
	"fmt"
	"time"
)

// Interval bounds for pollers, in seconds.
const (
	MinIntervalSeconds     = 60
	MaxIntervalSeconds     = 3600
	DefaultIntervalSeconds = 60
)

// Config keys.
const (
	KeyReportThreshold = "report_threshold"
	KeyReportInterval  = "report_interval"

	pollingKeyPrefix = "polling."
)

// PollerName identifies one poller slot.
type PollerName string

// Poller slots.
const (
	PollerStatus      PollerName = "status"
	PollerIncident    PollerName = "incident"
	PollerMaintenance PollerName = "maintenance"
	PollerMetrics     PollerName = "metrics"
)

// AllPollers lists every poller slot.
func AllPollers() []PollerName {
	return []PollerName{PollerStatus, PollerIncident, PollerMaintenance, PollerMetrics}
}

// ParsePollerName validates a poller name.
func ParsePollerName(s string) (PollerName, error) {
	switch PollerName(s) {
	case PollerStatus, PollerIncident, PollerMaintenance, PollerMetrics:
		return PollerName(s), nil
	}
	return "", fmt.Errorf("unknown poller %q", s)
}

// Key returns the bot_config key for this poller's interval.
func (p PollerName) Key() string {
	return pollingKeyPrefix + string(p)
}

// ValidateInterval checks a poller interval against the allowed bounds.
func ValidateInterval(seconds int64) error {
	if seconds < MinIntervalSeconds {
		return fmt.Errorf("interval must be at least %d seconds", MinIntervalSeconds)
	}
	if seconds > MaxIntervalSeconds {
		return fmt.Errorf("interval must be at most %d seconds", MaxIntervalSeconds)
	}
	return nil
}

// Entry is one persisted key/value pair.
type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
