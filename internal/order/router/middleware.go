package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shadows-market/storefront/internal/authclient"
	"github.com/shadows-market/storefront/pkg/global"
	"github.com/shadows-market/storefront/pkg/models"
)

const actorKey = "actor"

func extractBearerToken(c *gin.Context) string {
	authorization := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		return ""
	}
	return strings.TrimSpace(authorization[len(prefix):])
}

// AuthRequired resolves the caller into an Actor. A matching service token
// yields the trusted system actor used by the payment notification path;
// everything else goes through the token-verifier capability.
func AuthRequired(verifier authclient.Verifier, serviceToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if serviceToken != "" && c.GetHeader("X-Service-Token") == serviceToken {
			c.Set(actorKey, models.SystemActor("payment-service"))
			c.Next()
			return
		}

		token := extractBearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Missing/invalid token", nil))
			c.Abort()
			return
		}

		v, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, global.ErrorResponse("Auth service unavailable", nil))
			c.Abort()
			return
		}
		if !v.Valid {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Missing/invalid token", nil))
			c.Abort()
			return
		}

		c.Set(actorKey, models.Actor{Subject: v.Username, Role: v.Role})
		c.Next()
	}
}

// RequireRole gates a route group to one role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentActor(c).Role != role {
			c.JSON(http.StatusForbidden, global.ErrorResponse("Forbidden", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentActor(c *gin.Context) models.Actor {
	v, _ := c.Get(actorKey)
	actor, _ := v.(models.Actor)
	return actor
}
