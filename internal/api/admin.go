package api

import (
	"net/http" // HTTP status codes

	"helgykoin/internal/engine" // Ledger engine

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Exact decimal amounts
)

// MintRequest represents an administrative token emission
type MintRequest struct {
	AccountID uint            `json:"account_id" binding:"required"` // Receiving account
	Amount    decimal.Decimal `json:"amount" binding:"required"`     // Emitted amount
}

// SetPriceRequest represents an administrative price override
type SetPriceRequest struct {
	Price decimal.Decimal `json:"price"` // New price; zero is allowed
}

// MintHandler emits new tokens to an account, growing the total supply
func MintHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MintRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := eng.Mint(c.Request.Context(), req.AccountID, req.Amount); err != nil {
			respondError(c, err)
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Mint successful"})
	}
}

// SetPriceHandler overrides the current token price
func SetPriceHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetPriceRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if err := eng.SetPrice(c.Request.Context(), req.Price); err != nil {
			respondError(c, err)
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Price updated"})
	}
}
