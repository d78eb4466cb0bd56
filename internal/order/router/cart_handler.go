package router

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shadows-market/storefront/internal/order/store"
	"github.com/shadows-market/storefront/pkg/global"
	"github.com/shadows-market/storefront/pkg/models"
)

func (h *handlers) GetCart(c *gin.Context) {
	cart, err := h.deps.Store.GetCart(c.Request.Context(), currentActor(c).Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to get cart", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}

func (h *handlers) AddToCart(c *gin.Context) {
	actor := currentActor(c)

	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	// Reject unknown products up front; stock itself is only checked at
	// checkout time.
	if _, err := h.deps.Store.GetProduct(c.Request.Context(), req.ProductID); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch product", nil))
		return
	}

	cart, err := h.deps.Store.GetCart(c.Request.Context(), actor.Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to get cart", nil))
		return
	}
	cart.AddLine(req.ProductID, req.Quantity)
	if err := h.deps.Store.SaveCart(c.Request.Context(), cart); err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to save cart", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}

func (h *handlers) UpdateCartLine(c *gin.Context) {
	actor := currentActor(c)
	productID := c.Param("productId")

	qty, err := strconv.Atoi(c.Query("quantity"))
	if err != nil || qty < 1 {
		var req models.UpdateCartLineRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid quantity", []global.ValidationError{
				{Field: "quantity", Message: "quantity must be >= 1", Code: "invalid_value"},
			}))
			return
		}
		qty = req.Quantity
	}

	cart, err := h.deps.Store.GetCart(c.Request.Context(), actor.Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to get cart", nil))
		return
	}
	cart.SetLine(productID, qty)
	if err := h.deps.Store.SaveCart(c.Request.Context(), cart); err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to save cart", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}

func (h *handlers) RemoveCartLine(c *gin.Context) {
	actor := currentActor(c)

	cart, err := h.deps.Store.GetCart(c.Request.Context(), actor.Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to get cart", nil))
		return
	}
	cart.SetLine(c.Param("productId"), 0)
	if err := h.deps.Store.SaveCart(c.Request.Context(), cart); err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to save cart", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(cart))
}

func (h *handlers) ClearCart(c *gin.Context) {
	if err := h.deps.Store.ClearCart(c.Request.Context(), currentActor(c).Subject); err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to clear cart", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"message": "Cart cleared"}))
}
