// Package status implements the role-gated order lifecycle state machine.
package status

import (
	"context"
	"errors"
	"log"

	"github.com/shadows-market/storefront/internal/order/store"
	"github.com/shadows-market/storefront/pkg/faults"
	"github.com/shadows-market/storefront/pkg/models"
)

// transitions is the complete legal-transition table. SHIPPED and CANCELLED
// are terminal; nothing moves backwards.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:         {models.OrderPaid, models.OrderWaitingDelivery, models.OrderCancelled},
	models.OrderPaid:            {models.OrderShipped, models.OrderCancelled},
	models.OrderWaitingDelivery: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:         nil,
	models.OrderCancelled:       nil,
}

// CanTransition reports whether from -> to is structurally legal. This binds
// every actor; even an admin cannot move SHIPPED back to PENDING.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Machine serializes status mutation per order id through compare-and-set on
// the current status, so two authorized actors racing on mutually exclusive
// transitions cannot both win.
type Machine struct {
	store store.Store
}

func NewMachine(s store.Store) *Machine {
	return &Machine{store: s}
}

// casAttempts bounds the re-read loop after a lost CAS race.
const casAttempts = 2

func (m *Machine) SetStatus(ctx context.Context, orderID string, actor models.Actor, target models.OrderStatus) (*models.Order, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		order, err := m.store.GetOrder(ctx, orderID)
		if errors.Is(err, store.ErrOrderNotFound) {
			return nil, faults.ErrOrderNotFound
		}
		if err != nil {
			return nil, faults.ErrUnavailable
		}

		if err := authorize(actor, order, target); err != nil {
			return nil, err
		}
		// A replayed payment notification for an order that already moved
		// past payment must succeed without changing anything.
		if actor.System && pastPayment(order.Status) {
			return order, nil
		}
		if !CanTransition(order.Status, target) {
			return nil, &faults.IllegalTransition{From: order.Status, To: target}
		}

		ok, err := m.store.CompareAndSetStatus(ctx, orderID, order.Status, target)
		if errors.Is(err, store.ErrOrderNotFound) {
			return nil, faults.ErrOrderNotFound
		}
		if err != nil {
			return nil, faults.ErrUnavailable
		}
		if ok {
			order.Status = target
			log.Printf("order %s: %s by %s (%s)", orderID, target, actor.Subject, actor.Role)
			return order, nil
		}
		// Lost the race; re-read and re-evaluate legality against the
		// fresh status before giving up.
	}
	return nil, faults.ErrConflict
}

// pastPayment reports whether an order has already absorbed a payment.
func pastPayment(s models.OrderStatus) bool {
	switch s {
	case models.OrderPaid, models.OrderWaitingDelivery, models.OrderShipped:
		return true
	}
	return false
}

// authorize applies the actor matrix. It runs before the structural
// transition check, so an unauthorized target is Forbidden even when the
// transition itself would be legal.
func authorize(actor models.Actor, order *models.Order, target models.OrderStatus) error {
	// The payment notification path: trusted internal caller limited to the
	// payment-driven transitions.
	if actor.System {
		if target == models.OrderPaid || target == models.OrderWaitingDelivery {
			return nil
		}
		return faults.ErrForbidden
	}

	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleClient:
		if actor.Subject != order.Buyer {
			return faults.ErrForbidden
		}
		switch target {
		case models.OrderPaid, models.OrderWaitingDelivery, models.OrderCancelled:
			return nil
		}
		return faults.ErrForbidden
	case models.RoleShop:
		if !order.OwnedBySeller(actor.Subject) {
			return faults.ErrForbidden
		}
		if target != models.OrderShipped {
			return faults.ErrForbidden
		}
		return nil
	}
	return faults.ErrForbidden
}
