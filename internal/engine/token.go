package engine

import (
	"context" // Operation contexts

	"helgykoin/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Exact decimal arithmetic
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// GetInfo returns the singleton token metadata, optionally from the cache.
func (e *Engine) GetInfo(ctx context.Context, cacheAllowed bool) (domain.TokenMeta, error) {
	var token domain.TokenMeta
	if cacheAllowed {
		if found, err := e.cache.Get(ctx, tokenInfoKey, &token); err == nil && found {
			return token, nil
		}
	}
	if err := e.db.WithContext(ctx).First(&token, "id = ?", 1).Error; err != nil {
		return domain.TokenMeta{}, err
	}
	_ = e.cache.Set(ctx, tokenInfoKey, token, e.eco.CacheTTL)
	return token, nil
}

// SetPrice overrides the current token price. A zero price is allowed, so the
// token can be marked worthless; negative prices are rejected. Admin
// operation.
func (e *Engine) SetPrice(ctx context.Context, newPrice decimal.Decimal) error {
	if newPrice.IsNegative() {
		return ErrInvalidPrice
	}
	err := e.withRetry(ctx, "set_price", func() error {
		res := e.db.WithContext(ctx).Model(&domain.TokenMeta{}).
			Where("id = ?", 1).
			Update("current_price", newPrice)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound // Token row is seeded at migration time
		}
		return nil
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"new_price": newPrice,    // Requested price
			"error":     err.Error(), // Error message
		}).Error("Price update failed")
		return err
	}
	logrus.WithFields(logrus.Fields{
		"new_price": newPrice, // New token price
	}).Info("Token price updated")
	e.invalidateToken(ctx)
	return nil
}

// MarketCap derives total_supply x current_price from the token metadata.
func (e *Engine) MarketCap(ctx context.Context) (decimal.Decimal, error) {
	token, err := e.GetInfo(ctx, true)
	if err != nil {
		return decimal.Zero, err
	}
	return token.MarketCap(), nil
}
