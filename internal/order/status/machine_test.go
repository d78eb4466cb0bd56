package status

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadows-market/storefront/internal/order/store"
	"github.com/shadows-market/storefront/pkg/faults"
	"github.com/shadows-market/storefront/pkg/models"
)

var (
	admin  = models.Actor{Subject: "root", Role: models.RoleAdmin}
	alice  = models.Actor{Subject: "alice", Role: models.RoleClient}
	bob    = models.Actor{Subject: "bob", Role: models.RoleClient}
	shop1  = models.Actor{Subject: "shop1", Role: models.RoleShop}
	shop2  = models.Actor{Subject: "shop2", Role: models.RoleShop}
	system = models.SystemActor("payment-service")
)

func seedOrder(t *testing.T, st *store.MemoryStore, status models.OrderStatus) string {
	t.Helper()
	order := &models.Order{
		ID:    "order-1",
		Buyer: "alice",
		Lines: []models.OrderLine{
			{ProductID: "P1", Name: "Widget", Owner: "shop1", UnitPrice: 2, Quantity: 1},
		},
		Total:     "2.00",
		Status:    status,
		CreatedAt: time.Now(),
	}
	require.NoError(t, st.CreateOrder(context.Background(), order))
	return order.ID
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		legal    bool
	}{
		{models.OrderPending, models.OrderPaid, true},
		{models.OrderPending, models.OrderWaitingDelivery, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderPending, models.OrderShipped, false},
		{models.OrderPaid, models.OrderShipped, true},
		{models.OrderPaid, models.OrderCancelled, true},
		{models.OrderPaid, models.OrderPending, false},
		{models.OrderWaitingDelivery, models.OrderShipped, true},
		{models.OrderWaitingDelivery, models.OrderCancelled, true},
		{models.OrderWaitingDelivery, models.OrderPaid, false},
		{models.OrderShipped, models.OrderPending, false},
		{models.OrderShipped, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderPending, false},
		{models.OrderCancelled, models.OrderPaid, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.legal, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestSetStatusOrderNotFound(t *testing.T) {
	m := NewMachine(store.NewMemoryStore())
	_, err := m.SetStatus(context.Background(), "ghost", admin, models.OrderCancelled)
	assert.ErrorIs(t, err, faults.ErrOrderNotFound)
}

func TestSetStatusAuthorization(t *testing.T) {
	cases := []struct {
		name   string
		start  models.OrderStatus
		actor  models.Actor
		target models.OrderStatus
		want   error
	}{
		{"buyer pays own order", models.OrderPending, alice, models.OrderPaid, nil},
		{"buyer cancels own order", models.OrderPending, alice, models.OrderCancelled, nil},
		{"other client touches order", models.OrderPending, bob, models.OrderPaid, faults.ErrForbidden},
		{"buyer tries to ship", models.OrderPaid, alice, models.OrderShipped, faults.ErrForbidden},
		{"seller ships paid order", models.OrderPaid, shop1, models.OrderShipped, nil},
		{"seller ships waiting order", models.OrderWaitingDelivery, shop1, models.OrderShipped, nil},
		{"seller cancels order", models.OrderPaid, shop1, models.OrderCancelled, faults.ErrForbidden},
		{"unrelated seller ships", models.OrderPaid, shop2, models.OrderShipped, faults.ErrForbidden},
		{"system marks paid", models.OrderPending, system, models.OrderPaid, nil},
		{"system marks waiting", models.OrderPending, system, models.OrderWaitingDelivery, nil},
		{"system tries to ship", models.OrderPaid, system, models.OrderShipped, faults.ErrForbidden},
		{"admin cancels", models.OrderPaid, admin, models.OrderCancelled, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			id := seedOrder(t, st, tc.start)
			m := NewMachine(st)

			order, err := m.SetStatus(context.Background(), id, tc.actor, tc.target)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.target, order.Status)
		})
	}
}

func TestSetStatusIllegalTransition(t *testing.T) {
	st := store.NewMemoryStore()
	id := seedOrder(t, st, models.OrderPending)
	m := NewMachine(st)

	// The seller is authorized to ship but the order was never paid.
	_, err := m.SetStatus(context.Background(), id, shop1, models.OrderShipped)
	var ill *faults.IllegalTransition
	require.ErrorAs(t, err, &ill)
	assert.Equal(t, models.OrderPending, ill.From)
	assert.Equal(t, models.OrderShipped, ill.To)

	// Once the buyer pays, the same request goes through.
	_, err = m.SetStatus(context.Background(), id, alice, models.OrderPaid)
	require.NoError(t, err)
	order, err := m.SetStatus(context.Background(), id, shop1, models.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, order.Status)
}

func TestSetStatusReplayedPaymentIsNoOp(t *testing.T) {
	st := store.NewMemoryStore()
	id := seedOrder(t, st, models.OrderShipped)
	m := NewMachine(st)

	// A late payment callback for an already shipped order must not fail.
	order, err := m.SetStatus(context.Background(), id, system, models.OrderPaid)
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, order.Status)
}

func TestSetStatusAdminBoundByTable(t *testing.T) {
	st := store.NewMemoryStore()
	id := seedOrder(t, st, models.OrderShipped)
	m := NewMachine(st)

	_, err := m.SetStatus(context.Background(), id, admin, models.OrderPending)
	var ill *faults.IllegalTransition
	assert.ErrorAs(t, err, &ill)
}

func TestSetStatusConcurrentRace(t *testing.T) {
	st := store.NewMemoryStore()
	id := seedOrder(t, st, models.OrderPaid)
	m := NewMachine(st)

	var wg sync.WaitGroup
	var shipErr, cancelErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, shipErr = m.SetStatus(context.Background(), id, shop1, models.OrderShipped)
	}()
	go func() {
		defer wg.Done()
		_, cancelErr = m.SetStatus(context.Background(), id, alice, models.OrderCancelled)
	}()
	wg.Wait()

	// Exactly one of the two mutually exclusive transitions wins; the loser
	// gets a definite error, never a silent half-applied state.
	order, err := st.GetOrder(context.Background(), id)
	require.NoError(t, err)

	switch {
	case shipErr == nil && cancelErr != nil:
		assert.Equal(t, models.OrderShipped, order.Status)
	case cancelErr == nil && shipErr != nil:
		assert.Equal(t, models.OrderCancelled, order.Status)
	default:
		t.Fatalf("expected exactly one winner, ship=%v cancel=%v", shipErr, cancelErr)
	}
}
