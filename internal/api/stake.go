package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Stake id parsing

	"helgykoin/internal/engine" // Ledger engine

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Exact decimal amounts
)

// OpenStakeRequest represents a stake-open request
type OpenStakeRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"` // Principal to lock
}

// OpenStakeHandler locks tokens from the authenticated account into a stake
func OpenStakeHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, exists := c.Get("accountID") // Get account id from context
		// Check if account id exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req OpenStakeRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If invalid, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		stake, err := eng.OpenStake(c.Request.Context(), accountID.(uint), req.Amount)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"stake": stake}) // Return the new stake
	}
}

// ListStakesHandler returns the account's stakes with pending rewards
func ListStakesHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, exists := c.Get("accountID") // Get account id from context
		// Check if account id exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		stakes, err := eng.ListStakesWithRewards(c.Request.Context(), accountID.(uint))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"stakes": stakes}) // Return stakes with rewards
	}
}

// stakeIDParam parses the :id path parameter
func stakeIDParam(c *gin.Context) (uint, bool) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stake id"})
		return 0, false
	}
	return uint(v), true
}

// ClaimRewardHandler pays out the pending reward of one stake
func ClaimRewardHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, exists := c.Get("accountID") // Get account id from context
		// Check if account id exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		stakeID, ok := stakeIDParam(c) // Parse stake id from path
		if !ok {
			return
		}
		paid, err := eng.ClaimReward(c.Request.Context(), accountID.(uint), stakeID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"paid": paid}) // Return the paid reward
	}
}

// ClaimAllHandler pays out the pending rewards of every qualifying stake
func ClaimAllHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, exists := c.Get("accountID") // Get account id from context
		// Check if account id exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		total, err := eng.ClaimAll(c.Request.Context(), accountID.(uint))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"total_paid": total}) // Return the total paid
	}
}

// CloseStakeHandler unstakes: principal plus pending reward back to balance
func CloseStakeHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, exists := c.Get("accountID") // Get account id from context
		// Check if account id exists in context
		if !exists {
			// If not, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		stakeID, ok := stakeIDParam(c) // Parse stake id from path
		if !ok {
			return
		}
		principal, reward, err := eng.CloseStake(c.Request.Context(), accountID.(uint), stakeID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"principal": principal,             // Returned principal
			"reward":    reward,                // Paid reward
			"total":     principal.Add(reward), // Total credited
		})
	}
}
