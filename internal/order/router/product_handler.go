package router

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shadows-market/storefront/internal/order/store"
	"github.com/shadows-market/storefront/pkg/global"
	"github.com/shadows-market/storefront/pkg/models"
)

// GetAllProducts lists the catalog. Public; stale reads are acceptable here.
func (h *handlers) GetAllProducts(c *gin.Context) {
	products, err := h.deps.Store.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to get products", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(products))
}

func (h *handlers) GetProductByID(c *gin.Context) {
	product, err := h.deps.Store.GetProduct(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", []global.ValidationError{
			{Field: "id", Message: "No product exists with this ID", Code: "not_found"},
		}))
		return
	}
	if err != nil {
		log.Printf("Error fetching product: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch product", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func (h *handlers) GetSellerProducts(c *gin.Context) {
	actor := currentActor(c)
	products, err := h.deps.Store.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to get products", nil))
		return
	}

	own := make([]models.Product, 0)
	for _, p := range products {
		if p.Owner == actor.Subject {
			own = append(own, p)
		}
	}
	c.JSON(http.StatusOK, global.SuccessResponse(own))
}

func (h *handlers) CreateSellerProduct(c *gin.Context) {
	actor := currentActor(c)
	if actor.Role != models.RoleShop && actor.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, global.ErrorResponse("Forbidden", nil))
		return
	}

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	product := req.ToProduct(uuid.NewString(), actor.Subject)
	if err := h.deps.Store.CreateProduct(c.Request.Context(), product); err != nil {
		log.Printf("Error creating product: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create product", nil))
		return
	}
	c.JSON(http.StatusCreated, global.SuccessResponse(product))
}

// loadOwnProduct fetches a product and enforces seller ownership (admins may
// edit anything).
func (h *handlers) loadOwnProduct(c *gin.Context) (*models.Product, bool) {
	actor := currentActor(c)
	product, err := h.deps.Store.GetProduct(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, global.ErrorResponse("Product not found", nil))
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to fetch product", nil))
		return nil, false
	}
	if actor.Role != models.RoleAdmin && product.Owner != actor.Subject {
		c.JSON(http.StatusForbidden, global.ErrorResponse("Not your product", nil))
		return nil, false
	}
	return product, true
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	ImageURL    *string  `json:"imageUrl"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
}

func (h *handlers) UpdateSellerProduct(c *gin.Context) {
	product, ok := h.loadOwnProduct(c)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Price != nil {
		if *req.Price < 0 {
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid price", []global.ValidationError{
				{Field: "price", Message: "price must be >= 0", Code: "invalid_value"},
			}))
			return
		}
		product.Price = *req.Price
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid quantity", []global.ValidationError{
				{Field: "quantity", Message: "quantity must be >= 0", Code: "invalid_value"},
			}))
			return
		}
		product.Quantity = *req.Quantity
	}
	product.SyncStatus()

	if err := h.deps.Store.UpdateProduct(c.Request.Context(), product); err != nil {
		log.Printf("Error updating product: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to update product", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(product))
}

func (h *handlers) DeleteSellerProduct(c *gin.Context) {
	product, ok := h.loadOwnProduct(c)
	if !ok {
		return
	}

	if err := h.deps.Store.DeleteProduct(c.Request.Context(), product.ID); err != nil {
		log.Printf("Error deleting product: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to delete product", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"message": "Product deleted"}))
}
