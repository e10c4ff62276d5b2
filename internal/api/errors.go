package api

import (
	"errors"   // Sentinel matching
	"net/http" // HTTP status codes

	"helgykoin/internal/engine" // Engine error sentinels

	"github.com/gin-gonic/gin" // Gin web framework
)

// errStatus maps a typed engine failure to an HTTP status code
func errStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrAccountNotFound),
		errors.Is(err, engine.ErrStakeNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, engine.ErrInsufficientFunds),
		errors.Is(err, engine.ErrInvalidAmount),
		errors.Is(err, engine.ErrInvalidPrice),
		errors.Is(err, engine.ErrStakeBelowMinimum),
		errors.Is(err, engine.ErrStakeAboveMaximum),
		errors.Is(err, engine.ErrUnknownBooster),
		errors.Is(err, engine.ErrNothingToClaim):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrTransientStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the engine failure as a JSON error response; store
// internals are not leaked to clients
func respondError(c *gin.Context, err error) {
	status := errStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}
