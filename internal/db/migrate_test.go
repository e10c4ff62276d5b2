package db

import (
	"testing"

	"helgykoin/internal/domain"
	"helgykoin/internal/engine"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return gdb
}

func TestMigrateSeedsTokenRow(t *testing.T) {
	gdb := openTestDB(t)
	eco := engine.DefaultEconomics()

	require.NoError(t, Migrate(gdb, eco))

	var token domain.TokenMeta
	require.NoError(t, gdb.First(&token, "id = ?", 1).Error)
	require.Equal(t, eco.Token.Name, token.Name)
	require.Equal(t, eco.Token.Symbol, token.Symbol)
	require.True(t, eco.Token.TotalSupply.Equal(token.TotalSupply))
	require.True(t, eco.Token.InitialPrice.Equal(token.CurrentPrice))
}

func TestMigrateIsIdempotent(t *testing.T) {
	gdb := openTestDB(t)
	eco := engine.DefaultEconomics()

	require.NoError(t, Migrate(gdb, eco))

	// A price override must survive a re-run of the migration
	newPrice := decimal.RequireFromString("0.5")
	require.NoError(t, gdb.Model(&domain.TokenMeta{}).Where("id = ?", 1).Update("current_price", newPrice).Error)

	require.NoError(t, Migrate(gdb, eco))

	var token domain.TokenMeta
	require.NoError(t, gdb.First(&token, "id = ?", 1).Error)
	require.True(t, newPrice.Equal(token.CurrentPrice))

	var count int64
	require.NoError(t, gdb.Model(&domain.TokenMeta{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}
