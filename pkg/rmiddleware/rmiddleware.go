package rmiddleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/labcollective/memberhub/internal/middleware"
)

// RoleMiddleware lets the request through when the authenticated role is one of requiredRoles.
// It must run after middleware.AuthMiddleware.
func RoleMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := middleware.GetRoleFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
			return
		}

		if !slices.Contains(requiredRoles, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "Forbidden",
				"required": requiredRoles,
			})
			return
		}
		c.Next()
	}
}

// AdminMiddleware is a convenience middleware for admin-only access
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware("admin")
}
