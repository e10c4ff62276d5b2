package api

import (
	"net/http" // HTTP status codes

	"helgykoin/internal/engine" // Ledger engine
	"helgykoin/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRequest represents an account registration request
type RegisterRequest struct {
	ID          uint   `json:"id" binding:"required"` // External account identity
	DisplayName string `json:"display_name"`          // Optional display name
}

// AuthResponse carries the bearer token issued at registration
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// RegisterHandler creates an account (credited with the startup bonus) and
// issues a bearer token for it
func RegisterHandler(eng *engine.Engine, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Create the account with its startup bonus
		account, err := eng.CreateAccount(c.Request.Context(), req.ID, req.DisplayName)
		if err != nil {
			respondError(c, err)
			return
		}
		// Issue the bearer token for the new account
		token, err := utils.GenerateJWT(account.ID, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the account and its token
		c.JSON(http.StatusCreated, gin.H{"account": account, "token": token})
	}
}
