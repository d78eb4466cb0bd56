package payment

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/shadows-market/storefront/pkg/faults"
	"github.com/shadows-market/storefront/pkg/models"
)

// StatusUpdater pushes the payment-driven status change to the order service.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID string, target models.OrderStatus) error
}

// Bridge accepts payment notifications at-least-once. The persisted record is
// the idempotency anchor: a retried notification for an already-recorded order
// gets the original record back and never charges twice. The status sync is
// re-driven on every delivery; the status machine treats a replay for an order
// already past payment as a no-op, so a retry after a failed sync heals the
// order instead of stranding it in PENDING.
type Bridge struct {
	repo   Repo
	orders StatusUpdater
}

func NewBridge(repo Repo, orders StatusUpdater) *Bridge {
	return &Bridge{repo: repo, orders: orders}
}

// Process records the payment and drives the order to the method's target
// status (card -> PAID, cash on delivery -> WAITING_DELIVERY). When the record
// persists but the status push fails, the caller gets the record together with
// a PartialFailure so it can retry the status sync by resending the same
// notification.
func (b *Bridge) Process(ctx context.Context, payer, orderID string, amount float64, method models.PaymentMethod) (*models.PaymentRecord, error) {
	existing, err := b.repo.FindEffectiveByOrder(ctx, orderID)
	switch {
	case err == nil:
		if existing.Amount != amount || existing.Method != method {
			log.Printf("payment notification for order %s (%.2f %s) does not match recorded payment %s (%.2f %s)",
				orderID, amount, method, existing.ID, existing.Amount, existing.Method)
			return nil, faults.ErrConflict
		}
		log.Printf("payment for order %s already recorded (%s), re-driving status sync", orderID, existing.ID)
		return b.driveStatus(ctx, existing)
	case !errors.Is(err, ErrPaymentNotFound):
		return nil, faults.ErrUnavailable
	}

	record := &models.PaymentRecord{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Amount:    amount,
		Method:    method,
		Outcome:   method.Outcome(),
		Payer:     payer,
		CreatedAt: time.Now().UTC(),
	}
	if err := b.repo.Create(ctx, record); err != nil {
		// A concurrent duplicate may have won the unique-constraint race.
		if existing, findErr := b.repo.FindEffectiveByOrder(ctx, orderID); findErr == nil {
			return b.driveStatus(ctx, existing)
		}
		log.Printf("failed to persist payment for order %s: %v", orderID, err)
		return nil, faults.ErrUnavailable
	}

	return b.driveStatus(ctx, record)
}

// driveStatus pushes the record's target status downstream. Safe to call more
// than once per order: the order service answers a replayed payment-driven
// transition on an already-paid order with success.
func (b *Bridge) driveStatus(ctx context.Context, record *models.PaymentRecord) (*models.PaymentRecord, error) {
	if err := b.orders.UpdateStatus(ctx, record.OrderID, record.Method.TargetStatus()); err != nil {
		log.Printf("payment %s recorded but status update for order %s failed: %v", record.ID, record.OrderID, err)
		return record, &faults.PartialFailure{
			PaymentRecorded:    true,
			StatusUpdateFailed: true,
			Cause:              err,
		}
	}
	return record, nil
}
