// Package checkout converts a cart or item list into a priced order while
// keeping stock consistent under concurrent requests.
package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shadows-market/storefront/internal/order/store"
	"github.com/shadows-market/storefront/pkg/faults"
	"github.com/shadows-market/storefront/pkg/models"
	"github.com/shadows-market/storefront/pkg/money"
)

// Engine validates requested lines against a consistent inventory snapshot,
// decrements stock atomically for the affected product set and persists the
// resulting order in state PENDING.
type Engine struct {
	store store.Store
	locks *productLocks
}

func NewEngine(s store.Store) *Engine {
	return &Engine{store: s, locks: newProductLocks()}
}

// mergeLines collapses duplicate product ids by summing quantities, keeping
// first-seen order for deterministic line sequence.
func mergeLines(items []models.CheckoutItem) ([]string, map[string]int) {
	ids := make([]string, 0, len(items))
	merged := make(map[string]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if _, seen := merged[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		merged[item.ProductID] += item.Quantity
	}
	return ids, merged
}

// Checkout runs the whole read-validate-decrement sequence under the locks of
// the affected product set. A concurrent checkout for an overlapping set
// blocks until this one commits and then re-validates against the
// post-decrement state.
func (e *Engine) Checkout(ctx context.Context, buyer string, items []models.CheckoutItem) (*models.Order, error) {
	ids, merged := mergeLines(items)
	if len(ids) == 0 {
		return nil, faults.ErrEmptyCheckout
	}

	unlock := e.locks.lockAll(ids)
	defer unlock()

	products, err := e.store.GetProducts(ctx, ids)
	if err != nil {
		return nil, faults.ErrUnavailable
	}

	var missing []string
	for _, id := range ids {
		if _, exists := products[id]; !exists {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &faults.ProductNotFound{MissingIDs: missing}
	}

	// The snapshot read above is consistent for the whole request: the locks
	// keep any overlapping checkout from decrementing underneath us.
	for _, id := range ids {
		p := products[id]
		if qty := merged[id]; qty > p.Quantity {
			return nil, &faults.InsufficientStock{
				ProductID: id,
				Available: p.Quantity,
				Requested: qty,
			}
		}
	}

	total := decimal.Zero
	lines := make([]models.OrderLine, 0, len(ids))
	dec := make(map[string]int, len(ids))
	for _, id := range ids {
		p := products[id]
		qty := merged[id]
		lines = append(lines, models.OrderLine{
			ProductID: p.ID,
			Name:      p.Name,
			Owner:     p.Owner,
			UnitPrice: p.Price,
			Quantity:  qty,
		})
		total = total.Add(money.Line(p.Price, qty))
		dec[id] = qty
	}

	if err := e.store.ApplyStockDecrements(ctx, dec); err != nil {
		// Another service instance can win the database-level stock guard
		// even though this instance holds the keyed locks.
		if errors.Is(err, store.ErrStockUnderflow) {
			return nil, faults.ErrConflict
		}
		return nil, faults.ErrUnavailable
	}

	order := &models.Order{
		ID:        uuid.NewString(),
		Buyer:     buyer,
		Lines:     lines,
		Total:     money.Fixed(total),
		Status:    models.OrderPending,
		CreatedAt: time.Now(),
	}
	if err := e.store.CreateOrder(ctx, order); err != nil {
		// No order, so the decrement must not stand. The locks are still
		// held, keeping the re-increment race-free.
		if restoreErr := e.store.RestoreStock(ctx, dec); restoreErr != nil {
			log.Printf("failed to restore stock %v after losing order %s: %v", dec, order.ID, restoreErr)
		}
		return nil, faults.ErrUnavailable
	}

	log.Printf("checkout: buyer=%s order=%s items=%d total=%s", buyer, order.ID, order.ItemCount(), order.Total)
	return order, nil
}

// CheckoutCart checks out the buyer's stored cart and clears it on success.
func (e *Engine) CheckoutCart(ctx context.Context, buyer string) (*models.Order, error) {
	cart, err := e.store.GetCart(ctx, buyer)
	if err != nil {
		return nil, faults.ErrUnavailable
	}
	if cart.IsEmpty() {
		return nil, faults.ErrEmptyCheckout
	}

	items := make([]models.CheckoutItem, 0, len(cart.Lines))
	for id, qty := range cart.Lines {
		items = append(items, models.CheckoutItem{ProductID: id, Quantity: qty})
	}

	order, err := e.Checkout(ctx, buyer, items)
	if err != nil {
		return nil, err
	}

	if err := e.store.ClearCart(ctx, buyer); err != nil {
		// The order exists either way; an uncleared cart is an annoyance,
		// not a correctness problem.
		log.Printf("Warning: failed to clear cart for %s after checkout %s: %v", buyer, order.ID, err)
	}
	return order, nil
}
