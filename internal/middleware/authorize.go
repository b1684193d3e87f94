package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/campusclubs/venuebook-backend/internal/authz"
)

// RequirePermission gates a route on the given (subject, action)
// requirements. Must run after AuthMiddleware.
func RequirePermission(evaluator *authz.Evaluator, required ...authz.Ref) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := evaluator.Authorize(GetPrincipal(c), required...)
		if err == nil {
			c.Next()
			return
		}
		if errors.Is(err, authz.ErrUnauthenticated) {
			c.JSON(401, gin.H{"error": "Authentication required"})
		} else {
			c.JSON(403, gin.H{"error": "Permission denied"})
		}
		c.Abort()
	}
}
