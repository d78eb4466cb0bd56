package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shadows-market/storefront/pkg/faults"
	"github.com/shadows-market/storefront/pkg/global"
	"github.com/shadows-market/storefront/pkg/models"
)

// checkoutResponse is the wire shape the storefront front-end consumes.
type checkoutResponse struct {
	OrderID string `json:"orderId"`
	Total   string `json:"total"`
	Status  string `json:"status"`
}

func (h *handlers) Checkout(c *gin.Context) {
	actor := currentActor(c)

	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Empty cart", []global.ValidationError{
			{Field: "items", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	key := c.GetHeader(Header)
	if orderID, seen := h.idempotency.lookup(actor.Subject, key); seen {
		order, err := h.deps.Store.GetOrder(c.Request.Context(), orderID)
		if err == nil {
			c.JSON(http.StatusOK, global.SuccessResponse(checkoutResponse{
				OrderID: order.ID, Total: order.Total, Status: string(order.Status),
			}))
			return
		}
	}

	order, err := h.deps.Engine.Checkout(c.Request.Context(), actor.Subject, req.Items)
	if err != nil {
		h.writeCheckoutError(c, err)
		return
	}
	h.idempotency.remember(actor.Subject, key, order.ID)

	c.JSON(http.StatusOK, global.SuccessResponse(checkoutResponse{
		OrderID: order.ID, Total: order.Total, Status: string(order.Status),
	}))
}

func (h *handlers) CheckoutCart(c *gin.Context) {
	actor := currentActor(c)

	key := c.GetHeader(Header)
	if orderID, seen := h.idempotency.lookup(actor.Subject, key); seen {
		order, err := h.deps.Store.GetOrder(c.Request.Context(), orderID)
		if err == nil {
			c.JSON(http.StatusOK, global.SuccessResponse(checkoutResponse{
				OrderID: order.ID, Total: order.Total, Status: string(order.Status),
			}))
			return
		}
	}

	order, err := h.deps.Engine.CheckoutCart(c.Request.Context(), actor.Subject)
	if err != nil {
		h.writeCheckoutError(c, err)
		return
	}
	h.idempotency.remember(actor.Subject, key, order.ID)

	c.JSON(http.StatusOK, global.SuccessResponse(checkoutResponse{
		OrderID: order.ID, Total: order.Total, Status: string(order.Status),
	}))
}

func (h *handlers) writeCheckoutError(c *gin.Context, err error) {
	code := faults.HTTPStatus(err)

	var pnf *faults.ProductNotFound
	if errors.As(err, &pnf) {
		c.JSON(code, gin.H{
			"success":           false,
			"message":           "Products not found",
			"missingProductIds": pnf.MissingIDs,
		})
		return
	}

	var ins *faults.InsufficientStock
	if errors.As(err, &ins) {
		c.JSON(code, gin.H{
			"success":   false,
			"message":   "Insufficient stock",
			"productId": ins.ProductID,
			"available": ins.Available,
			"requested": ins.Requested,
		})
		return
	}

	c.JSON(code, global.ErrorResponse(err.Error(), nil))
}
