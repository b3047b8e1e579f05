package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"roombooking/internal/pkg/jwt"
	"roombooking/internal/pkg/response"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// IdentityStore reports the stored role of a token subject. found is false
// when the account no longer exists.
type IdentityStore interface {
	CurrentRole(ctx context.Context, userID string) (role string, found bool, err error)
}

// JWTAuth requires a valid bearer token and stores the caller identity in
// the gin context under CtxUserID and CtxRole. The role comes from users, not
// from the token, so demotions and deletions apply immediately. A nil users
// trusts the token claims.
func JWTAuth(jwtService *jwt.Service, users IdentityStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Abort(c, http.StatusUnauthorized, "Not authorized, invalid authorization header")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		role := claims.Role
		if users != nil {
			stored, found, err := users.CurrentRole(c.Request.Context(), claims.UserID)
			if err != nil {
				response.AbortError(c, http.StatusInternalServerError, "Server error", err)
				return
			}
			if !found {
				response.Abort(c, http.StatusUnauthorized, "User not found")
				return
			}
			role = stored
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, role)
		c.Next()
	}
}
