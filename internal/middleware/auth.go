package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/campusclubs/venuebook-backend/internal/authz"
	"github.com/campusclubs/venuebook-backend/internal/services"
	"github.com/campusclubs/venuebook-backend/pkg/utils"
)

const principalKey = "principal"

// AuthMiddleware validates the bearer token and resolves its session
// into a request-scoped principal. A token whose session was revoked
// at logout is rejected even if the signature is still valid.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			c.JSON(401, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.JSON(401, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(401, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		sid, _ := claims["sid"].(string)
		principal, err := services.GetSession(c.Request.Context(), sid)
		if err != nil {
			c.JSON(401, gin.H{"error": "Session expired or revoked"})
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Set("userId", principal.UserID)
		c.Set("sessionId", sid)
		c.Next()
	}
}

// GetPrincipal returns the principal resolved by AuthMiddleware, or nil
// on an unauthenticated request.
func GetPrincipal(c *gin.Context) *authz.Principal {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*authz.Principal)
	if !ok {
		return nil
	}
	return principal
}

// SetPrincipal injects a principal directly. Used by tests that bypass
// the token/session plumbing.
func SetPrincipal(c *gin.Context, principal *authz.Principal) {
	c.Set(principalKey, principal)
	c.Set("userId", principal.UserID)
}
