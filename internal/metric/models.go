// Package metric stores append-only metric samples from the upstream feed.
package metric

import "time"

// DefaultIntervalSeconds is the upstream feed's sampling interval.
const DefaultIntervalSeconds = 60

// Sample is one metric observation. Append-only, unique on
// (MetricName, Timestamp); samples are never updated.
type Sample struct {
	MetricName string
	Timestamp  time.Time
	Value      float64
	Unit       string

	IntervalSeconds int64
	CreatedAt       time.Time
}
