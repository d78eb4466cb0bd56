package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadows-market/storefront/pkg/models"
)

func seedProduct(t *testing.T, s *MemoryStore, id string, qty int) {
	t.Helper()
	p := &models.Product{ID: id, Name: "Item " + id, Price: 1, Quantity: qty, Owner: "shop1"}
	p.SyncStatus()
	require.NoError(t, s.CreateProduct(context.Background(), p))
}

func TestApplyStockDecrementsAllOrNothing(t *testing.T) {
	s := NewMemoryStore()
	seedProduct(t, s, "P1", 5)
	seedProduct(t, s, "P2", 1)

	// P2 underflows, so P1 must stay untouched too.
	err := s.ApplyStockDecrements(context.Background(), map[string]int{"P1": 2, "P2": 3})
	assert.ErrorIs(t, err, ErrStockUnderflow)

	p1, err := s.GetProduct(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, 5, p1.Quantity)
}

func TestApplyStockDecrementsUnknownProduct(t *testing.T) {
	s := NewMemoryStore()
	err := s.ApplyStockDecrements(context.Background(), map[string]int{"GHOST": 1})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestApplyStockDecrementsSyncsStatus(t *testing.T) {
	s := NewMemoryStore()
	seedProduct(t, s, "P1", 2)

	require.NoError(t, s.ApplyStockDecrements(context.Background(), map[string]int{"P1": 2}))

	p, err := s.GetProduct(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, models.ProductOutOfStock, p.Status)
}

func TestRestoreStockUndoesDecrement(t *testing.T) {
	s := NewMemoryStore()
	seedProduct(t, s, "P1", 2)

	require.NoError(t, s.ApplyStockDecrements(context.Background(), map[string]int{"P1": 2}))
	require.NoError(t, s.RestoreStock(context.Background(), map[string]int{"P1": 2}))

	p, err := s.GetProduct(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Quantity)
	assert.Equal(t, models.ProductAvailable, p.Status)
}

func TestRestoreStockSkipsDeletedProducts(t *testing.T) {
	s := NewMemoryStore()
	seedProduct(t, s, "P1", 3)

	err := s.RestoreStock(context.Background(), map[string]int{"P1": 1, "GHOST": 4})
	require.NoError(t, err)

	p, err := s.GetProduct(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, 4, p.Quantity)
}

func TestGetProductReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	seedProduct(t, s, "P1", 5)

	p, err := s.GetProduct(context.Background(), "P1")
	require.NoError(t, err)
	p.Quantity = 0

	again, err := s.GetProduct(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, 5, again.Quantity)
}

func TestGetCartLazilyCreates(t *testing.T) {
	s := NewMemoryStore()

	cart, err := s.GetCart(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", cart.Owner)
	assert.True(t, cart.IsEmpty())

	cart.SetLine("P1", 2)
	require.NoError(t, s.SaveCart(context.Background(), cart))

	saved, err := s.GetCart(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Lines["P1"])

	require.NoError(t, s.ClearCart(context.Background(), "alice"))
	cleared, err := s.GetCart(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, cleared.IsEmpty())
}

func TestCompareAndSetStatus(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.CreateOrder(context.Background(), &models.Order{
		ID: "order-1", Buyer: "alice", Status: models.OrderPending, CreatedAt: time.Now(),
	}))

	ok, err := s.CompareAndSetStatus(context.Background(), "order-1", models.OrderPending, models.OrderPaid)
	require.NoError(t, err)
	assert.True(t, ok)

	// Stale expectation loses without error.
	ok, err = s.CompareAndSetStatus(context.Background(), "order-1", models.OrderPending, models.OrderCancelled)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.CompareAndSetStatus(context.Background(), "ghost", models.OrderPending, models.OrderPaid)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	order, err := s.GetOrder(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, order.Status)
}

func TestListOrdersBySeller(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.CreateOrder(context.Background(), &models.Order{
		ID: "o1", Buyer: "alice", Status: models.OrderPaid, CreatedAt: time.Now(),
		Lines: []models.OrderLine{{ProductID: "P1", Owner: "shop1", Quantity: 1}},
	}))
	require.NoError(t, s.CreateOrder(context.Background(), &models.Order{
		ID: "o2", Buyer: "bob", Status: models.OrderPaid, CreatedAt: time.Now(),
		Lines: []models.OrderLine{{ProductID: "P2", Owner: "shop2", Quantity: 1}},
	}))

	orders, err := s.ListOrdersBySeller(context.Background(), "shop1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
}
