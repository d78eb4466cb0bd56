package recommend

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shadows-market/storefront/internal/authclient"
	"github.com/shadows-market/storefront/pkg/global"
	"github.com/shadows-market/storefront/pkg/metrics"
)

type Handler struct {
	service  *Service
	verifier authclient.Verifier
}

func NewHandler(service *Service, verifier authclient.Verifier) *Handler {
	return &Handler{service: service, verifier: verifier}
}

func (h *Handler) Router(m *metrics.ServerMetrics) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(m.GinMiddleware())
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/recommendation-service/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"status": "OK"}))
		})
		api.GET("/recommendations", h.GetRecommendations)
	}
	return r
}

func (h *Handler) GetRecommendations(c *gin.Context) {
	authorization := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Missing/invalid token", nil))
		return
	}
	token := strings.TrimSpace(authorization[len(prefix):])

	v, err := h.verifier.Verify(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, global.ErrorResponse("Auth service unavailable", nil))
		return
	}
	if !v.Valid {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Missing/invalid token", nil))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	products, err := h.service.Recommend(c.Request.Context(), v.Username, token, limit)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, global.ErrorResponse("Failed to compute recommendations", nil))
		return
	}
	c.JSON(http.StatusOK, global.SuccessResponse(products))
}
