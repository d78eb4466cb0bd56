package models

import "time"

// OrderStatus is the closed set of order lifecycle states. Anything outside
// this set is rejected at the boundary instead of being stored as-is.
type OrderStatus string

const (
	OrderPending         OrderStatus = "PENDING"
	OrderPaid            OrderStatus = "PAID"
	OrderWaitingDelivery OrderStatus = "WAITING_DELIVERY"
	OrderShipped         OrderStatus = "SHIPPED"
	OrderCancelled       OrderStatus = "CANCELLED"
)

// ParseOrderStatus validates a status string coming off the wire.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderPending, OrderPaid, OrderWaitingDelivery, OrderShipped, OrderCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// OrderLine is a snapshot taken at checkout time. UnitPrice and Owner are
// frozen copies of the product's values, so later catalog edits never change
// historical orders.
type OrderLine struct {
	ProductID string  `json:"productId" bson:"product_id"`
	Name      string  `json:"name" bson:"name"`
	Owner     string  `json:"seller" bson:"owner"`
	UnitPrice float64 `json:"unitPrice" bson:"unit_price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

// Order is created exactly once by the checkout engine and is immutable
// afterwards except for Status.
type Order struct {
	ID        string      `json:"id" bson:"_id"`
	Buyer     string      `json:"buyer" bson:"buyer"`
	Lines     []OrderLine `json:"lines" bson:"lines"`
	Total     string      `json:"total" bson:"total"` // fixed two-decimal string
	Status    OrderStatus `json:"status" bson:"status"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// OwnedBySeller reports whether at least one line belongs to the seller,
// which is what entitles a SHOP actor to ship the order.
func (o *Order) OwnedBySeller(seller string) bool {
	for _, l := range o.Lines {
		if l.Owner == seller {
			return true
		}
	}
	return false
}

// ItemCount returns the total quantity across all lines.
func (o *Order) ItemCount() int {
	var n int
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

type CheckoutItem struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type CheckoutRequest struct {
	Items []CheckoutItem `json:"items" binding:"required,min=1,dive"`
}
