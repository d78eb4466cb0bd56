// Package payment records payment notifications and drives the resulting
// order status change exactly once per order.
package payment

import (
	"context"
	"errors"

	"github.com/shadows-market/storefront/pkg/models"
)

// ErrPaymentNotFound means no effective record exists for the order.
var ErrPaymentNotFound = errors.New("payment not found")

// Repo persists payment records. FindEffectiveByOrder is the idempotency
// lookup: at most one effective record per order.
type Repo interface {
	Create(ctx context.Context, record *models.PaymentRecord) error
	FindEffectiveByOrder(ctx context.Context, orderID string) (*models.PaymentRecord, error)
}
