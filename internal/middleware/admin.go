package middleware

import (
	"net/http" // HTTP status codes

	"helgykoin/internal/config" // Admin allowlist

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks the authenticated account against the
// configured admin allowlist on each request
func AdminOnlyMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, exists := c.Get("accountID") // Get account id from context
		// Check if account id exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Check the allowlist
		if !cfg.IsAdmin(accountID.(uint)) {
			// If not an admin, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
