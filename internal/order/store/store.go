// Package store holds persistence for the order service: products, carts and
// orders. Two implementations exist, a Mongo-backed one for deployments and an
// in-memory one used by tests and local runs without MONGODB_URI.
package store

import (
	"context"
	"errors"

	"github.com/shadows-market/storefront/pkg/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrStockUnderflow  = errors.New("stock decrement would go negative")
)

type Store interface {
	// Products. Catalog reads take no lock and may be stale; mutation goes
	// through the checkout engine or the owning seller.
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProducts(ctx context.Context, ids []string) (map[string]*models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error

	// ApplyStockDecrements persists the decrements of one checkout. Every
	// touched product gets its quantity reduced and its status flipped to
	// OUT_OF_STOCK when the result is zero. Applies all of dec or none of it.
	ApplyStockDecrements(ctx context.Context, dec map[string]int) error

	// RestoreStock re-adds quantities, compensating a checkout whose order
	// could not be persisted after the decrement already committed.
	RestoreStock(ctx context.Context, inc map[string]int) error

	// Carts. GetCart creates the cart lazily on first access.
	GetCart(ctx context.Context, owner string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	ClearCart(ctx context.Context, owner string) error

	// Orders.
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrdersByBuyer(ctx context.Context, buyer string) ([]models.Order, error)
	ListOrdersBySeller(ctx context.Context, seller string) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)

	// CompareAndSetStatus atomically moves an order from one status to
	// another. It returns false (and no error) when the current status no
	// longer matches, which is how concurrent actors lose the race.
	CompareAndSetStatus(ctx context.Context, id string, from, to models.OrderStatus) (bool, error)
}
