// Package router wires the order service's HTTP surface: catalog browsing,
// seller product management, carts, checkout and the order status endpoint.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shadows-market/storefront/internal/authclient"
	"github.com/shadows-market/storefront/internal/order/checkout"
	"github.com/shadows-market/storefront/internal/order/status"
	"github.com/shadows-market/storefront/internal/order/store"
	"github.com/shadows-market/storefront/pkg/global"
	"github.com/shadows-market/storefront/pkg/metrics"
)

type Deps struct {
	Store    store.Store
	Engine   *checkout.Engine
	Machine  *status.Machine
	Verifier authclient.Verifier
	// ServiceToken authenticates the payment service's system calls.
	ServiceToken string
	Metrics      *metrics.ServerMetrics
}

type handlers struct {
	deps Deps
	// idempotency maps client-supplied checkout keys to order ids.
	idempotency *idempotencyIndex
}

func New(deps Deps) *gin.Engine {
	h := &handlers{deps: deps, idempotency: newIdempotencyIndex()}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "Idempotency-Key", "X-Service-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(deps.Metrics.GinMiddleware())
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/order-service/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/products", h.GetAllProducts)
		api.GET("/products/:id", h.GetProductByID)

		authed := api.Group("")
		authed.Use(AuthRequired(deps.Verifier, deps.ServiceToken))
		{
			cart := authed.Group("/cart")
			{
				cart.GET("", h.GetCart)
				cart.POST("", h.AddToCart)
				cart.PUT("/items/:productId", h.UpdateCartLine)
				cart.DELETE("/items/:productId", h.RemoveCartLine)
				cart.DELETE("", h.ClearCart)
			}

			authed.POST("/checkout", h.Checkout)
			authed.POST("/checkout/cart", h.CheckoutCart)

			authed.GET("/orders/me", h.GetMyOrders)
			authed.GET("/orders", h.GetAllOrders)
			authed.GET("/orders/:id", h.GetOrderByID)
			authed.POST("/orders/:id/status", h.SetOrderStatus)

			seller := authed.Group("/seller")
			{
				seller.GET("/products", h.GetSellerProducts)
				seller.POST("/products", h.CreateSellerProduct)
				seller.PUT("/products/:id", h.UpdateSellerProduct)
				seller.DELETE("/products/:id", h.DeleteSellerProduct)
				seller.GET("/sales", h.GetSellerSales)
			}
		}
	}
	return r
}

func (h *handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"status": "OK"}))
}
