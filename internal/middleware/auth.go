package middleware

import (
	"net/http"
	"strings"

	"github.com/ayoubkr/maalem-market/internal/auth"
	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware guards admin-only routes. It expects a Bearer token
// issued by the admin login endpoint and stores the admin ID on the context.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			c.Abort()
			return
		}

		adminID, err := auth.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("adminID", adminID)
		c.Next()
	}
}
