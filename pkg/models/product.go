package models

import "time"

// ProductStatus mirrors stock availability. A product is OUT_OF_STOCK exactly
// when its quantity is zero; the checkout engine maintains the invariant.
type ProductStatus string

const (
	ProductAvailable  ProductStatus = "AVAILABLE"
	ProductOutOfStock ProductStatus = "OUT_OF_STOCK"
)

// Product is a catalog entry owned by a seller. Buyers never mutate products
// directly; stock is decremented by the checkout engine only.
type Product struct {
	ID          string        `json:"id" bson:"_id"`
	Name        string        `json:"name" bson:"name" validate:"required,min=2,max=200"`
	Description string        `json:"description" bson:"description" validate:"max=2000"`
	Category    string        `json:"category" bson:"category"`
	ImageURL    string        `json:"imageUrl" bson:"image_url"`
	Price       float64       `json:"price" bson:"price" validate:"required,gte=0"`
	Quantity    int           `json:"quantity" bson:"quantity" validate:"gte=0"`
	Owner       string        `json:"seller" bson:"owner"`
	Status      ProductStatus `json:"status" bson:"status"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
}

// SyncStatus re-derives the availability flag from the quantity.
func (p *Product) SyncStatus() {
	if p.Quantity <= 0 {
		p.Quantity = 0
		p.Status = ProductOutOfStock
	} else {
		p.Status = ProductAvailable
	}
}

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=200"`
	Description string  `json:"description" binding:"max=2000"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	Quantity    int     `json:"quantity" binding:"gte=0"`
}

func (req *CreateProductRequest) ToProduct(id, owner string) *Product {
	p := &Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Owner:       owner,
		CreatedAt:   time.Now(),
	}
	p.SyncStatus()
	return p
}
