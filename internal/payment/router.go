package payment

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shadows-market/storefront/internal/authclient"
	"github.com/shadows-market/storefront/pkg/faults"
	"github.com/shadows-market/storefront/pkg/global"
	"github.com/shadows-market/storefront/pkg/metrics"
	"github.com/shadows-market/storefront/pkg/models"
)

// Handler serves the payment notification endpoint.
type Handler struct {
	bridge   *Bridge
	verifier authclient.Verifier
}

func NewHandler(bridge *Bridge, verifier authclient.Verifier) *Handler {
	return &Handler{bridge: bridge, verifier: verifier}
}

func (h *Handler) Router(m *metrics.ServerMetrics) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(m.GinMiddleware())
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/payment/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"status": "OK"}))
		})
		api.POST("/process", h.Process)
	}
	return r
}

func (h *Handler) Process(c *gin.Context) {
	payer, ok := h.authenticate(c)
	if !ok {
		return
	}

	var req models.ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	method, ok := models.NormalizeMethod(req.Method)
	if !ok {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Unknown payment method", []global.ValidationError{
			{Field: "method", Message: "method must be CARD or CASH_ON_DELIVERY", Code: "invalid_value"},
		}))
		return
	}

	record, err := h.bridge.Process(c.Request.Context(), payer, req.OrderID, req.Amount, method)
	if err != nil {
		var pf *faults.PartialFailure
		if errors.As(err, &pf) {
			c.JSON(faults.HTTPStatus(err), gin.H{
				"success":            false,
				"message":            "Payment recorded but order status update failed",
				"payment":            record,
				"paymentRecorded":    pf.PaymentRecorded,
				"statusUpdateFailed": pf.StatusUpdateFailed,
			})
			return
		}
		c.JSON(faults.HTTPStatus(err), global.ErrorResponse(err.Error(), nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(record))
}

// authenticate resolves the bearer token into the paying user.
func (h *Handler) authenticate(c *gin.Context) (string, bool) {
	authorization := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Missing/invalid token", nil))
		return "", false
	}

	v, err := h.verifier.Verify(c.Request.Context(), strings.TrimSpace(authorization[len(prefix):]))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, global.ErrorResponse("Auth service unavailable", nil))
		return "", false
	}
	if !v.Valid {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Missing/invalid token", nil))
		return "", false
	}
	return v.Username, true
}
