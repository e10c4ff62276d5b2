package api

import (
	"net/http" // HTTP status codes

	"helgykoin/internal/engine" // Ledger engine

	"github.com/gin-gonic/gin" // Gin web framework
)

// CatalogHandler returns the purchasable booster catalog
func CatalogHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"boosters": eng.Catalog()}) // Static catalog
	}
}

// BuyBoosterHandler purchases the booster named by the :key path parameter
func BuyBoosterHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, exists := c.Get("accountID") // Get account id from context
		// Check if account id exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		booster, err := eng.Buy(c.Request.Context(), accountID.(uint), c.Param("key"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"booster": booster}) // Return the active booster
	}
}
