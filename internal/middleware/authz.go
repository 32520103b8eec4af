package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medresearch/internal/authz"
)

func RequireRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("roles")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "no roles in context"})
			return
		}
		roles, _ := v.([]string)
		if !authz.HasAny(roles, allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
