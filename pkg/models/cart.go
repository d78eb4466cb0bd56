package models

import "time"

// Cart is a per-buyer mapping of product id to desired quantity. Carts are
// created lazily on first access and cleared after a successful checkout.
// A quantity never reaches zero: removing an item deletes the line.
type Cart struct {
	Owner     string         `json:"owner" bson:"_id"`
	Lines     map[string]int `json:"lines" bson:"lines"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

func NewCart(owner string) *Cart {
	return &Cart{Owner: owner, Lines: make(map[string]int), UpdatedAt: time.Now()}
}

// SetLine sets the desired quantity for a product. qty <= 0 removes the line.
func (c *Cart) SetLine(productID string, qty int) {
	if qty <= 0 {
		delete(c.Lines, productID)
	} else {
		c.Lines[productID] = qty
	}
	c.UpdatedAt = time.Now()
}

// AddLine increases the desired quantity for a product.
func (c *Cart) AddLine(productID string, qty int) {
	if qty <= 0 {
		return
	}
	c.Lines[productID] += qty
	c.UpdatedAt = time.Now()
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateCartLineRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}
