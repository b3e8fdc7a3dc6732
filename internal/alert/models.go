package alert

import (
	"fmt"
	"time"
)

// TypeThreshold is the alert type recorded for threshold-triggered fanouts.
const TypeThreshold = "threshold"

// DeliveryReceipt records that an alert was delivered (or reserved for
// delivery) to a single recipient. The (GuildID, UserID, AlertType,
// ReferenceID) tuple is unique, which is what makes fanout at-most-once.
type DeliveryReceipt struct {
	ID string

	// Exactly one of GuildID and UserID is set; the other is empty.
	GuildID string
	UserID  string

	AlertType   string
	ReferenceID string
	NotifiedAt  time.Time
}

// ReferenceID derives the deduplication reference for a threshold alert in
// the given category. The timestamp is floored to a 15-minute bucket so that
// repeated evaluations within the bucket collapse onto one reference.
func ReferenceID(category string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("threshold_%s_%s:%02d", category, t.Format("2006-01-02T15"), (t.Minute()/15)*15)
}
