package alert

import (
	"context"
	"errors"
)

// Repository errors.
var (
	// ErrDuplicate means a receipt for the same recipient, alert type and
	// reference already exists.
	ErrDuplicate = errors.New("delivery receipt already exists")
)

// Repository defines the interface for delivery receipt persistence.
type Repository interface {
	// Insert stores a new receipt. Returns ErrDuplicate if the recipient
	// already holds a receipt for the alert type and reference.
	Insert(ctx context.Context, receipt *DeliveryReceipt) error

	// DeleteByID removes a receipt, releasing the reservation.
	DeleteByID(ctx context.Context, id string) error

	// ListByReference returns all receipts recorded for an alert type and
	// reference.
	ListByReference(ctx context.Context, alertType, referenceID string) ([]*DeliveryReceipt, error)
}
