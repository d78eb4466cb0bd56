package store

import (
	"context"
	"sort"
	"sync"

	"github.com/shadows-market/storefront/pkg/models"
)

// MemoryStore implements Store with in-memory maps guarded by a single
// RWMutex. Copies go in and out so callers never alias internal state.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]*models.Product
	carts    map[string]*models.Cart
	orders   map[string]*models.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]*models.Product),
		carts:    make(map[string]*models.Cart),
		orders:   make(map[string]*models.Order),
	}
}

func copyProduct(p *models.Product) *models.Product {
	cp := *p
	return &cp
}

func copyOrder(o *models.Order) *models.Order {
	cp := *o
	cp.Lines = append([]models.OrderLine(nil), o.Lines...)
	return &cp
}

func copyCart(c *models.Cart) *models.Cart {
	cp := *c
	cp.Lines = make(map[string]int, len(c.Lines))
	for k, v := range c.Lines {
		cp.Lines[k] = v
	}
	return &cp
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, exists := s.products[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	return copyProduct(p), nil
}

func (s *MemoryStore) GetProducts(_ context.Context, ids []string) (map[string]*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.Product, len(ids))
	for _, id := range ids {
		if p, exists := s.products[id]; exists {
			out[id] = copyProduct(p)
		}
	}
	return out, nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = copyProduct(p)
	return nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[p.ID]; !exists {
		return ErrProductNotFound
	}
	s.products[p.ID] = copyProduct(p)
	return nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.products[id]; !exists {
		return ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *MemoryStore) ApplyStockDecrements(_ context.Context, dec map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: everything must exist and stay non-negative.
	for id, qty := range dec {
		p, exists := s.products[id]
		if !exists {
			return ErrProductNotFound
		}
		if p.Quantity < qty {
			return ErrStockUnderflow
		}
	}
	for id, qty := range dec {
		p := s.products[id]
		p.Quantity -= qty
		p.SyncStatus()
	}
	return nil
}

func (s *MemoryStore) RestoreStock(_ context.Context, inc map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, qty := range inc {
		p, exists := s.products[id]
		if !exists {
			// Deleted underneath the checkout; nothing left to restore to.
			continue
		}
		p.Quantity += qty
		p.SyncStatus()
	}
	return nil
}

func (s *MemoryStore) GetCart(_ context.Context, owner string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, exists := s.carts[owner]
	if !exists {
		c = models.NewCart(owner)
		s.carts[owner] = c
	}
	return copyCart(c), nil
}

func (s *MemoryStore) SaveCart(_ context.Context, cart *models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cart.Owner] = copyCart(cart)
	return nil
}

func (s *MemoryStore) ClearCart(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, owner)
	return nil
}

func (s *MemoryStore) CreateOrder(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = copyOrder(o)
	return nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, exists := s.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (s *MemoryStore) listOrders(match func(*models.Order) bool) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Order
	for _, o := range s.orders {
		if match(o) {
			out = append(out, *copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *MemoryStore) ListOrdersByBuyer(_ context.Context, buyer string) ([]models.Order, error) {
	return s.listOrders(func(o *models.Order) bool { return o.Buyer == buyer }), nil
}

func (s *MemoryStore) ListOrdersBySeller(_ context.Context, seller string) ([]models.Order, error) {
	return s.listOrders(func(o *models.Order) bool { return o.OwnedBySeller(seller) }), nil
}

func (s *MemoryStore) ListOrders(_ context.Context) ([]models.Order, error) {
	return s.listOrders(func(*models.Order) bool { return true }), nil
}

func (s *MemoryStore) CompareAndSetStatus(_ context.Context, id string, from, to models.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, exists := s.orders[id]
	if !exists {
		return false, ErrOrderNotFound
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}
