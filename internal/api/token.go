package api

import (
	"net/http" // HTTP status codes

	"helgykoin/internal/engine" // Ledger engine

	"github.com/gin-gonic/gin" // Gin web framework
)

// GetTokenHandler returns the token metadata, cache allowed
func GetTokenHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := eng.GetInfo(c.Request.Context(), true)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token}) // Return token metadata
	}
}

// MarketCapHandler returns total_supply x current_price
func MarketCapHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		marketCap, err := eng.MarketCap(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"market_cap": marketCap}) // Return market capitalization
	}
}
