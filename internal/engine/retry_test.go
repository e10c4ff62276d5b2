package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsRetryable(t *testing.T) {
	require.True(t, isRetryable(&mysql.MySQLError{Number: 1213, Message: "deadlock found"}))
	require.True(t, isRetryable(&mysql.MySQLError{Number: 1205, Message: "lock wait timeout"}))
	require.False(t, isRetryable(&mysql.MySQLError{Number: 1062, Message: "duplicate entry"}))
	require.False(t, isRetryable(ErrInsufficientFunds))
	require.False(t, isRetryable(errors.New("boom")))
	require.False(t, isRetryable(nil))
}

func TestIsDuplicateKey(t *testing.T) {
	require.True(t, isDuplicateKey(&mysql.MySQLError{Number: 1062, Message: "duplicate entry"}))
	require.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	require.False(t, isDuplicateKey(&mysql.MySQLError{Number: 1213, Message: "deadlock found"}))
	require.False(t, isDuplicateKey(errors.New("boom")))
	require.False(t, isDuplicateKey(nil))
}

func TestWithRetryPassesThroughBusinessErrors(t *testing.T) {
	e, _ := newTestEngine(t)

	attempts := 0
	err := e.withRetry(context.Background(), "test", func() error {
		attempts++
		return ErrInsufficientFunds
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.Equal(t, 1, attempts, "business-rule errors are never retried")
}

func TestWithRetryRecoversFromConflict(t *testing.T) {
	e, _ := newTestEngine(t)

	attempts := 0
	err := e.withRetry(context.Background(), "test", func() error {
		attempts++
		if attempts == 1 {
			return &mysql.MySQLError{Number: 1213, Message: "deadlock found"}
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, attempts)
}

func TestWithRetrySurfacesTransientAfterExhaustion(t *testing.T) {
	e, _ := newTestEngine(t)

	attempts := 0
	err := e.withRetry(context.Background(), "test", func() error {
		attempts++
		return &mysql.MySQLError{Number: 1205, Message: "lock wait timeout"}
	})
	require.ErrorIs(t, err, ErrTransientStore)
	require.Equal(t, e.eco.MaxRetries, attempts)
}

func TestWithRetryNoDelayAfterFinalAttempt(t *testing.T) {
	e, _ := newTestEngine(t)
	e.eco.MaxRetries = 1
	e.eco.RetryDelay = time.Hour // Would hang the test if slept after the last attempt

	start := time.Now()
	err := e.withRetry(context.Background(), "test", func() error {
		return &mysql.MySQLError{Number: 1213, Message: "deadlock found"}
	})
	require.ErrorIs(t, err, ErrTransientStore)
	require.Less(t, time.Since(start), time.Second)
}

func TestWithRetryHonorsContextCancellation(t *testing.T) {
	e, _ := newTestEngine(t)
	e.eco.RetryDelay = time.Minute // The canceled context must win the wait
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.withRetry(ctx, "test", func() error {
		return &mysql.MySQLError{Number: 1213, Message: "deadlock found"}
	})
	require.ErrorIs(t, err, context.Canceled)
}
