package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"helgykoin/internal/engine" // Ledger engine

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Exact decimal amounts
)

// TransferRequest represents a transfer request
type TransferRequest struct {
	ReceiverID uint            `json:"receiver_id" binding:"required"` // Target account id
	Amount     decimal.Decimal `json:"amount" binding:"required"`      // Transfer amount
}

// SellRequest represents a sale of tokens back to the system
type SellRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"` // Sold amount
}

// GetWalletHandler returns the authenticated account, cache allowed
func GetWalletHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, exists := c.Get("accountID") // Get account id from context
		// Check if account id exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		account, err := eng.GetAccount(c.Request.Context(), accountID.(uint), true)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"account": account}) // Return account info
	}
}

// TransferHandler moves funds from the authenticated account to another
func TransferHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, exists := c.Get("accountID") // Get account id from context
		// Check if account id exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req TransferRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Prevent transferring to self; the engine would net it to zero but
		// the entry would be noise
		if req.ReceiverID == accountID.(uint) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot transfer to yourself"})
			return
		}
		if err := eng.Transfer(c.Request.Context(), accountID.(uint), req.ReceiverID, req.Amount); err != nil {
			respondError(c, err)
			return
		}
		// Return success response
		c.JSON(http.StatusOK, gin.H{"message": "Transfer successful"})
	}
}

// SellHandler sells tokens from the authenticated account back to the system
func SellHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, exists := c.Get("accountID") // Get account id from context
		// Check if account id exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req SellRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		proceeds, err := eng.SellToSystem(c.Request.Context(), accountID.(uint), req.Amount)
		if err != nil {
			respondError(c, err)
			return
		}
		// Return the BotUSD proceeds
		c.JSON(http.StatusOK, gin.H{"message": "Sale successful", "proceeds_botusd": proceeds})
	}
}

// GetHistoryHandler returns the authenticated account's ledger history,
// newest first; always bypasses the cache
func GetHistoryHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, exists := c.Get("accountID") // Get account id from context
		// Check if account id exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		limit := 20 // Default page size
		offset := 0 // Default offset
		// If limit exists in query
		if l := c.Query("limit"); l != "" {
			// Convert limit to integer
			if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
				limit = v // Set limit if valid
			}
		}
		// If offset exists in query
		if o := c.Query("offset"); o != "" {
			// Convert offset to integer
			if v, err := strconv.Atoi(o); err == nil && v >= 0 {
				offset = v // Set offset if valid
			}
		}
		entries, err := eng.GetHistory(c.Request.Context(), accountID.(uint), limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"entries": entries, // Ledger entries, newest first
			"limit":   limit,   // Applied limit
			"offset":  offset,  // Applied offset
		})
	}
}
