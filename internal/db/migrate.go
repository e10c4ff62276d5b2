package db

import (
	"helgykoin/internal/domain" // Importing domain models
	"helgykoin/internal/engine" // Token seed values

	"github.com/sirupsen/logrus"

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // ON CONFLICT clause for the token seed
)

// Migrate performs automatic migration for the database schema and seeds the
// singleton token_meta row. Works with any gorm dialect; production uses
// MySQL, tests use in-memory SQLite.
func Migrate(db *gorm.DB, eco engine.Economics) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err := db.AutoMigrate(
		&domain.Account{},
		&domain.LedgerEntry{},
		&domain.TokenMeta{},
		&domain.Stake{},
		&domain.Booster{},
	)
	if err != nil {
		return err
	}
	// Seed the token row once; an existing row is left untouched
	token := domain.TokenMeta{
		ID:           1,
		Name:         eco.Token.Name,
		Symbol:       eco.Token.Symbol,
		Decimals:     eco.Token.Decimals,
		TotalSupply:  eco.Token.TotalSupply,
		CurrentPrice: eco.Token.InitialPrice,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&token).Error; err != nil {
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
