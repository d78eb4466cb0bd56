package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shadows-market/storefront/pkg/faults"
	"github.com/shadows-market/storefront/pkg/global"
	"github.com/shadows-market/storefront/pkg/models"
)

func (h *handlers) GetMyOrders(c *gin.Context) {
	orders, err := h.deps.Store.ListOrdersByBuyer(c.Request.Context(), currentActor(c).Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch orders", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(orders))
}

// GetAllOrders is the admin view across every buyer.
func (h *handlers) GetAllOrders(c *gin.Context) {
	if currentActor(c).Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, global.ErrorResponse("Forbidden", nil))
		return
	}
	orders, err := h.deps.Store.ListOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch orders", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(orders))
}

func (h *handlers) GetOrderByID(c *gin.Context) {
	actor := currentActor(c)
	order, err := h.deps.Store.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Order not found", nil))
		return
	}

	// Buyers see their own orders, sellers the ones holding their products.
	allowed := actor.System ||
		actor.Role == models.RoleAdmin ||
		order.Buyer == actor.Subject ||
		(actor.Role == models.RoleShop && order.OwnedBySeller(actor.Subject))
	if !allowed {
		c.JSON(http.StatusForbidden, global.ErrorResponse("Forbidden", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

// GetSellerSales lists, per line, the paid-or-later orders containing the
// seller's products.
func (h *handlers) GetSellerSales(c *gin.Context) {
	actor := currentActor(c)
	if actor.Role != models.RoleShop {
		c.JSON(http.StatusForbidden, global.ErrorResponse("Forbidden", nil))
		return
	}

	orders, err := h.deps.Store.ListOrdersBySeller(c.Request.Context(), actor.Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch sales", nil))
		return
	}

	type saleLine struct {
		OrderID     string  `json:"orderId"`
		OrderStatus string  `json:"orderStatus"`
		OrderDate   string  `json:"orderDate"`
		Buyer       string  `json:"buyerUsername"`
		ProductID   string  `json:"productId"`
		ProductName string  `json:"productName"`
		UnitPrice   float64 `json:"unitPrice"`
		Quantity    int     `json:"quantity"`
	}

	lines := make([]saleLine, 0)
	for _, o := range orders {
		switch o.Status {
		case models.OrderPaid, models.OrderWaitingDelivery, models.OrderShipped:
		default:
			continue
		}
		for _, l := range o.Lines {
			if l.Owner != actor.Subject {
				continue
			}
			lines = append(lines, saleLine{
				OrderID:     o.ID,
				OrderStatus: string(o.Status),
				OrderDate:   o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
				Buyer:       o.Buyer,
				ProductID:   l.ProductID,
				ProductName: l.Name,
				UnitPrice:   l.UnitPrice,
				Quantity:    l.Quantity,
			})
		}
	}
	c.JSON(http.StatusOK, global.SuccessResponse(lines))
}

// SetOrderStatus drives the status machine. The target comes as
// ?status=PAID; unknown statuses are rejected before touching the machine.
func (h *handlers) SetOrderStatus(c *gin.Context) {
	target, ok := models.ParseOrderStatus(c.Query("status"))
	if !ok {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Unknown status", []global.ValidationError{
			{Field: "status", Message: "status must be one of PENDING, PAID, WAITING_DELIVERY, SHIPPED, CANCELLED", Code: "invalid_value"},
		}))
		return
	}

	order, err := h.deps.Machine.SetStatus(c.Request.Context(), c.Param("id"), currentActor(c), target)
	if err != nil {
		h.writeStatusError(c, err)
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(order))
}

func (h *handlers) writeStatusError(c *gin.Context, err error) {
	code := faults.HTTPStatus(err)

	var ill *faults.IllegalTransition
	if errors.As(err, &ill) {
		c.JSON(code, gin.H{
			"success": false,
			"message": "Illegal transition",
			"from":    ill.From,
			"to":      ill.To,
		})
		return
	}
	c.JSON(code, global.ErrorResponse(err.Error(), nil))
}
