// Package middleware provides the Gin middleware for bearer-token
// authentication.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"optinet-backend/auth"
	"optinet-backend/models"
	"optinet-backend/service"

	"github.com/gin-gonic/gin"
)

// userKey is the Gin context key the authenticated user is stored under.
const userKey = "authUser"

// TokenVerifier validates an access token and loads the referenced user.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth verifies the bearer JWT (Authorization header, with a cookie
// fallback) and stores the authenticated user in the context.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_TOKEN",
					"message": "Authorization token is required",
				},
			})
			return
		}

		user, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			code := "TOKEN_INVALID"
			message := "Invalid authentication token"
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				code = "TOKEN_EXPIRED"
				message = "Authentication token has expired"
			case errors.Is(err, service.ErrUserNotFound):
				code = "USER_NOT_FOUND"
				message = "User no longer exists"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    code,
					"message": message,
				},
			})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// UserFromContext returns the authenticated user set by RequireAuth.
func UserFromContext(c *gin.Context) (*models.User, bool) {
	value, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	// Cookie fallback for browser clients.
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}

	return ""
}
