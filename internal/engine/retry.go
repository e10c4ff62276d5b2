package engine

import (
	"context" // Cancellation while waiting between attempts
	"errors"  // Error classification
	"fmt"     // Error wrapping
	"time"    // Fixed backoff delay

	"github.com/go-sql-driver/mysql" // MySQL error numbers for conflict detection
	"github.com/sirupsen/logrus"     // Logging library
	"gorm.io/gorm"                   // GORM ORM library
)

// MySQL error numbers the engine classifies.
const (
	mysqlDeadlock        = 1213
	mysqlLockWaitTimeout = 1205
	mysqlDuplicateEntry  = 1062
)

// isRetryable reports whether the error is a store-level conflict that a
// fresh attempt can resolve. Business-rule errors are never retried.
func isRetryable(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDeadlock || myErr.Number == mysqlLockWaitTimeout
	}
	return false
}

// isDuplicateKey reports whether the error is a unique-constraint violation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	return false
}

// withRetry runs fn up to MaxRetries times, sleeping RetryDelay between
// attempts, but only for retryable store errors. After the final failed
// attempt the failure surfaces as ErrTransientStore immediately, without a
// trailing sleep.
func (e *Engine) withRetry(ctx context.Context, op string, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !isRetryable(err) {
			return err
		}
		if attempt >= e.eco.MaxRetries {
			return fmt.Errorf("%w: %v", ErrTransientStore, err)
		}
		logrus.WithFields(logrus.Fields{
			"operation": op,          // Operation being retried
			"attempt":   attempt,     // Attempt that just failed
			"error":     err.Error(), // Conflict error
		}).Warn("Retrying after store conflict")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.eco.RetryDelay):
		}
	}
}
