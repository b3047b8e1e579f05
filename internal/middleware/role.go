package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roombooking/internal/pkg/response"
)

// RequireRole ensures that the authenticated user has the specified role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if role == "" {
			response.Abort(c, http.StatusUnauthorized, "Not authorized")
			return
		}

		if role != requiredRole {
			response.Abort(c, http.StatusForbidden, "Not authorized as "+requiredRole)
			return
		}

		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}
