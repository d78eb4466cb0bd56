package payment

import (
	"context"
	"sync"

	"github.com/shadows-market/storefront/pkg/models"
)

// MemoryRepo backs local runs and tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	byOrder map[string]models.PaymentRecord
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byOrder: make(map[string]models.PaymentRecord)}
}

func (r *MemoryRepo) Create(_ context.Context, record *models.PaymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byOrder[record.OrderID] = *record
	return nil
}

func (r *MemoryRepo) FindEffectiveByOrder(_ context.Context, orderID string) (*models.PaymentRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, exists := r.byOrder[orderID]
	if !exists {
		return nil, ErrPaymentNotFound
	}
	out := record
	return &out, nil
}
