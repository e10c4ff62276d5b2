package engine

import (
	"context" // Operation contexts
	"errors"  // Error classification
	"maps"    // Catalog copying
	"time"    // Active-window computation

	"helgykoin/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Exact decimal arithmetic
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// Catalog returns a copy of the purchasable booster catalog.
func (e *Engine) Catalog() map[string]BoosterType {
	return maps.Clone(e.eco.Boosters)
}

// ActiveMultiplier returns the multiplier of the strongest unexpired booster
// of the owner whose type key matches the category prefix, or 1.0 if none is
// active.
func (e *Engine) ActiveMultiplier(ctx context.Context, ownerID uint, categoryPrefix string) (decimal.Decimal, error) {
	var booster domain.Booster
	err := e.db.WithContext(ctx).
		Where("owner_id = ? AND type_key LIKE ? AND active_until > ?", ownerID, categoryPrefix+"%", e.clock()).
		Order("multiplier DESC").
		First(&booster).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.New(1, 0), nil // Neutral multiplier
	}
	if err != nil {
		return decimal.New(1, 0), err
	}
	return booster.Multiplier, nil
}

// Buy purchases a booster from the catalog: debits the cost, replaces any
// unexpired booster of the same category (one active booster per category,
// overwrite not stacking) and records the purchase, all atomically.
func (e *Engine) Buy(ctx context.Context, ownerID uint, key string) (domain.Booster, error) {
	boosterType, ok := e.eco.Boosters[key]
	if !ok {
		return domain.Booster{}, ErrUnknownBooster
	}
	now := e.clock()
	category := domain.BoosterCategory(key)
	booster := domain.Booster{
		OwnerID:     ownerID,
		TypeKey:     key,
		ActiveUntil: now.Add(time.Duration(boosterType.DurationHours) * time.Hour),
		Multiplier:  boosterType.Multiplier,
	}
	err := e.withRetry(ctx, "buy_booster", func() error {
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := debitTx(tx, ownerID, boosterType.Cost); err != nil {
				return err
			}
			// Enforce single-active-per-category; expired rows stay inert
			if err := tx.Where("owner_id = ? AND type_key LIKE ? AND active_until > ?", ownerID, category+"%", now).
				Delete(&domain.Booster{}).Error; err != nil {
				return err
			}
			if err := tx.Create(&booster).Error; err != nil {
				return err
			}
			entry := domain.LedgerEntry{
				Timestamp:   now,
				SenderID:    ownerID,
				ReceiverID:  domain.SystemID,
				Amount:      boosterType.Cost,
				Description: "Booster purchase: " + boosterType.Name,
				Kind:        domain.KindBooster,
			}
			return tx.Create(&entry).Error
		})
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"owner_id": ownerID,     // Buying account id
			"booster":  key,         // Catalog key
			"error":    err.Error(), // Error message
		}).Error("Booster purchase failed")
		return domain.Booster{}, err
	}
	logrus.WithFields(logrus.Fields{
		"owner_id":   ownerID,             // Buying account id
		"booster":    key,                 // Catalog key
		"cost":       boosterType.Cost,    // Purchase cost
		"multiplier": booster.Multiplier,  // Applied multiplier
		"until":      booster.ActiveUntil, // Expiry instant
	}).Info("Booster purchased")
	e.invalidateAccounts(ctx, ownerID)
	return booster, nil
}
