package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadows-market/storefront/pkg/models"
)

type fakeCatalog struct {
	products []models.Product
	orders   []models.Order
}

func (f *fakeCatalog) ListProducts(context.Context) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeCatalog) ListMyOrders(context.Context, string) ([]models.Order, error) {
	return f.orders, nil
}

func TestHistorySignatureOrderIndependent(t *testing.T) {
	a := HistorySignature([]string{"P1", "P2", "P3"})
	b := HistorySignature([]string{"P3", "P1", "P2"})
	c := HistorySignature([]string{"P1", "P2"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestRecommendPrefersPurchasedCategories(t *testing.T) {
	catalog := &fakeCatalog{
		products: []models.Product{
			{ID: "P1", Name: "Bought", Category: "books", Status: models.ProductAvailable},
			{ID: "P2", Name: "Same shelf", Category: "books", Status: models.ProductAvailable},
			{ID: "P3", Name: "Elsewhere", Category: "tools", Status: models.ProductAvailable},
			{ID: "P4", Name: "Gone", Category: "books", Status: models.ProductOutOfStock},
		},
		orders: []models.Order{
			{ID: "o1", Status: models.OrderPaid, Lines: []models.OrderLine{{ProductID: "P1"}}},
		},
	}
	service := NewService(catalog, false)

	got, err := service.Recommend(context.Background(), "alice", "token", 5)
	require.NoError(t, err)

	require.Len(t, got, 2)
	// Same-category first, already-purchased and out-of-stock never suggested.
	assert.Equal(t, "P2", got[0].ID)
	assert.Equal(t, "P3", got[1].ID)
}

func TestRecommendIgnoresCancelledOrders(t *testing.T) {
	catalog := &fakeCatalog{
		products: []models.Product{
			{ID: "P1", Name: "Cancelled buy", Category: "books", Status: models.ProductAvailable},
			{ID: "P2", Name: "Other", Category: "tools", Status: models.ProductAvailable},
		},
		orders: []models.Order{
			{ID: "o1", Status: models.OrderCancelled, Lines: []models.OrderLine{{ProductID: "P1"}}},
		},
	}
	service := NewService(catalog, false)

	got, err := service.Recommend(context.Background(), "alice", "token", 5)
	require.NoError(t, err)

	// A cancelled order is not history: its product stays recommendable.
	ids := make([]string, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, "P1")
}

func TestRecommendHonorsLimit(t *testing.T) {
	catalog := &fakeCatalog{
		products: []models.Product{
			{ID: "P1", Status: models.ProductAvailable},
			{ID: "P2", Status: models.ProductAvailable},
			{ID: "P3", Status: models.ProductAvailable},
		},
	}
	service := NewService(catalog, false)

	got, err := service.Recommend(context.Background(), "alice", "token", 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
