package alert

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository for testing.
type InMemoryRepository struct {
	mu       sync.Mutex
	receipts map[string]*DeliveryReceipt // keyed by receipt ID
	unique   map[string]string           // recipient key -> receipt ID
}

// NewInMemoryRepository creates a new in-memory receipt repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		receipts: make(map[string]*DeliveryReceipt),
		unique:   make(map[string]string),
	}
}

func uniqueKey(r *DeliveryReceipt) string {
	return r.GuildID + "\x00" + r.UserID + "\x00" + r.AlertType + "\x00" + r.ReferenceID
}

// Insert stores a new receipt, enforcing recipient uniqueness per reference.
func (r *InMemoryRepository) Insert(_ context.Context, receipt *DeliveryReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := uniqueKey(receipt)
	if _, ok := r.unique[key]; ok {
		return ErrDuplicate
	}

	receiptCopy := *receipt
	r.receipts[receipt.ID] = &receiptCopy
	r.unique[key] = receipt.ID
	return nil
}

// DeleteByID removes a receipt, releasing the reservation.
func (r *InMemoryRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	receipt, ok := r.receipts[id]
	if !ok {
		return nil
	}

	delete(r.unique, uniqueKey(receipt))
	delete(r.receipts, id)
	return nil
}

// ListByReference returns all receipts recorded for an alert type and
// reference.
func (r *InMemoryRepository) ListByReference(_ context.Context, alertType, referenceID string) ([]*DeliveryReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var receipts []*DeliveryReceipt
	for _, receipt := range r.receipts {
		if receipt.AlertType == alertType && receipt.ReferenceID == referenceID {
			receiptCopy := *receipt
			receipts = append(receipts, &receiptCopy)
		}
	}
	sort.Slice(receipts, func(i, j int) bool {
		if receipts[i].NotifiedAt.Equal(receipts[j].NotifiedAt) {
			return receipts[i].ID < receipts[j].ID
		}
		return receipts[i].NotifiedAt.Before(receipts[j].NotifiedAt)
	})

	return receipts, nil
}

// Count returns the number of stored receipts.
func (r *InMemoryRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.receipts)
}
