package engine

import (
	"context"
	"testing"
	"time"

	"helgykoin/internal/cache"
	"helgykoin/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testClock is a manually advanced clock injected into the engine.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// newTestEngine builds an engine over an in-memory SQLite database and an
// in-memory cache, with a controllable clock and no retry delay.
func newTestEngine(t *testing.T) (*Engine, *testClock) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// One connection so every session sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	eco := DefaultEconomics()
	eco.RetryDelay = 0

	require.NoError(t, gdb.AutoMigrate(
		&domain.Account{},
		&domain.LedgerEntry{},
		&domain.TokenMeta{},
		&domain.Stake{},
		&domain.Booster{},
	))
	require.NoError(t, gdb.Create(&domain.TokenMeta{
		ID:           1,
		Name:         eco.Token.Name,
		Symbol:       eco.Token.Symbol,
		Decimals:     eco.Token.Decimals,
		TotalSupply:  eco.Token.TotalSupply,
		CurrentPrice: eco.Token.InitialPrice,
	}).Error)

	clk := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return New(gdb, cache.NewMemoryStore(), eco, WithClock(clk.Now)), clk
}

// dec parses a decimal literal for test expectations.
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// requireDecEqual compares decimals by value, not representation.
func requireDecEqual(t *testing.T, expected string, got decimal.Decimal) {
	t.Helper()
	require.True(t, dec(expected).Equal(got), "expected %s, got %s", expected, got)
}

// accountBalance reads a balance straight from the database, bypassing cache.
func accountBalance(t *testing.T, e *Engine, id uint) decimal.Decimal {
	t.Helper()
	account, err := e.GetAccount(context.Background(), id, false)
	require.NoError(t, err)
	return account.Balance
}

// entriesByKind loads all ledger entries of a kind, oldest first.
func entriesByKind(t *testing.T, e *Engine, kind string) []domain.LedgerEntry {
	t.Helper()
	var entries []domain.LedgerEntry
	require.NoError(t, e.db.Where("kind = ?", kind).Order("id").Find(&entries).Error)
	return entries
}

// requireConservation checks that the circulating supply (account balances
// plus locked stake principal) is fully explained by the ledger log: system
// inflows (bonus, mint, reward payouts) minus system outflows (sells and
// booster purchases). Transfers are zero-sum and principal-return entries
// document an internal unlock, so neither moves the total.
func requireConservation(t *testing.T, e *Engine) {
	t.Helper()
	var accounts []domain.Account
	require.NoError(t, e.db.Find(&accounts).Error)
	circulating := decimal.Zero
	for _, a := range accounts {
		circulating = circulating.Add(a.Balance)
	}
	var stakes []domain.Stake
	require.NoError(t, e.db.Find(&stakes).Error)
	for _, s := range stakes {
		circulating = circulating.Add(s.Amount)
	}

	var entries []domain.LedgerEntry
	require.NoError(t, e.db.Find(&entries).Error)
	explained := decimal.Zero
	for _, entry := range entries {
		switch entry.Kind {
		case domain.KindBonus, domain.KindMint, domain.KindRewardClaim, domain.KindStakeReward:
			explained = explained.Add(entry.Amount)
		case domain.KindSell, domain.KindBooster:
			explained = explained.Sub(entry.Amount)
		}
	}
	require.True(t, circulating.Equal(explained),
		"circulating supply %s is not explained by the ledger log %s", circulating, explained)
}
