package engine

import (
	"context" // Operation contexts
	"errors"  // Error classification
	"fmt"     // Entry descriptions

	"helgykoin/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Exact decimal arithmetic
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// debitTx decrements an account balance inside tx. The balance guard lives in
// the UPDATE itself so concurrent debits can never drive a balance negative.
func debitTx(tx *gorm.DB, id uint, amount decimal.Decimal) error {
	res := tx.Model(&domain.Account{}).
		Where("id = ? AND balance >= ?", id, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing account from an overdraft attempt
		var count int64
		if err := tx.Model(&domain.Account{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrAccountNotFound
		}
		return ErrInsufficientFunds
	}
	return nil
}

// creditTx increments an account balance inside tx.
func creditTx(tx *gorm.DB, id uint, amount decimal.Decimal) error {
	res := tx.Model(&domain.Account{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// CreateAccount registers a new account, credits the startup bonus and writes
// the matching mint-style ledger entry, all atomically.
func (e *Engine) CreateAccount(ctx context.Context, id uint, displayName string) (domain.Account, error) {
	logrus.WithFields(logrus.Fields{
		"account_id":   id,          // New account id
		"display_name": displayName, // Optional display name
	}).Info("Creating account")

	if id == domain.SystemID {
		// Id 0 is permanently taken by the system mint/burn counterpart
		return domain.Account{}, ErrAccountExists
	}
	account := domain.Account{
		ID:          id,
		DisplayName: displayName,
		Balance:     e.eco.StartupBonus,
		CreatedAt:   e.clock(),
	}
	err := e.withRetry(ctx, "create_account", func() error {
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&domain.Account{}).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrAccountExists
			}
			if err := tx.Create(&account).Error; err != nil {
				if isDuplicateKey(err) {
					// Lost the race with a simultaneous registration for the
					// same id; the count above cannot see it yet
					return ErrAccountExists
				}
				return err
			}
			entry := domain.LedgerEntry{
				Timestamp:   e.clock(),
				SenderID:    domain.SystemID,
				ReceiverID:  id,
				Amount:      e.eco.StartupBonus,
				Description: "Startup bonus",
				Kind:        domain.KindBonus,
			}
			return tx.Create(&entry).Error
		})
	})
	if err != nil {
		if !errors.Is(err, ErrAccountExists) {
			logrus.WithFields(logrus.Fields{
				"account_id": id,          // New account id
				"error":      err.Error(), // Error message
			}).Error("Account creation failed")
		}
		return domain.Account{}, err
	}
	e.invalidateAccounts(ctx, id)
	return account, nil
}

// GetAccount performs a point lookup, optionally served from the read cache.
func (e *Engine) GetAccount(ctx context.Context, id uint, cacheAllowed bool) (domain.Account, error) {
	var account domain.Account
	key := accountKey(id)
	if cacheAllowed {
		if found, err := e.cache.Get(ctx, key, &account); err == nil && found {
			return account, nil
		}
	}
	if err := e.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	_ = e.cache.Set(ctx, key, account, e.eco.CacheTTL)
	return account, nil
}

// Transfer moves amount from sender to receiver as one atomic unit: debit,
// credit and ledger entry commit or roll back together. A self-transfer nets
// to zero without double counting.
func (e *Engine) Transfer(ctx context.Context, senderID, receiverID uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	err := e.withRetry(ctx, "transfer", func() error {
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := debitTx(tx, senderID, amount); err != nil {
				return err
			}
			if err := creditTx(tx, receiverID, amount); err != nil {
				return err
			}
			entry := domain.LedgerEntry{
				Timestamp:   e.clock(),
				SenderID:    senderID,
				ReceiverID:  receiverID,
				Amount:      amount,
				Description: "Transfer",
				Kind:        domain.KindTransfer,
			}
			return tx.Create(&entry).Error
		})
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"sender_id":   senderID,    // Sender account id
			"receiver_id": receiverID,  // Receiver account id
			"amount":      amount,      // Transfer amount
			"error":       err.Error(), // Error message
		}).Error("Transfer failed")
		return err
	}
	logrus.WithFields(logrus.Fields{
		"sender_id":   senderID,   // Sender account id
		"receiver_id": receiverID, // Receiver account id
		"amount":      amount,     // Transfer amount
	}).Info("Transfer transaction")
	e.invalidateAccounts(ctx, senderID, receiverID)
	return nil
}

// Mint credits newly emitted tokens to an account and grows the total supply
// by the same amount in the same transaction, so supply and balances never
// diverge. Admin operation.
func (e *Engine) Mint(ctx context.Context, id uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	err := e.withRetry(ctx, "mint", func() error {
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := creditTx(tx, id, amount); err != nil {
				return err
			}
			res := tx.Model(&domain.TokenMeta{}).
				Where("id = ?", 1).
				Update("total_supply", gorm.Expr("total_supply + ?", amount))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound // Token row is seeded at migration time
			}
			entry := domain.LedgerEntry{
				Timestamp:   e.clock(),
				SenderID:    domain.SystemID,
				ReceiverID:  id,
				Amount:      amount,
				Description: "Administrative token emission",
				Kind:        domain.KindMint,
			}
			return tx.Create(&entry).Error
		})
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": id,          // Receiving account id
			"amount":     amount,      // Minted amount
			"error":      err.Error(), // Error message
		}).Error("Mint failed")
		return err
	}
	logrus.WithFields(logrus.Fields{
		"account_id": id,     // Receiving account id
		"amount":     amount, // Minted amount
	}).Info("Mint transaction")
	e.invalidateAccounts(ctx, id)
	e.invalidateToken(ctx)
	return nil
}

// SellToSystem burns tokens from an account in exchange for off-ledger BotUSD
// at the configured rate. The total supply is unchanged: the sale models
// redemption, not a supply event. Returns the BotUSD proceeds.
func (e *Engine) SellToSystem(ctx context.Context, id uint, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	proceeds := amount.Mul(e.eco.SellRate)
	err := e.withRetry(ctx, "sell_to_system", func() error {
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := debitTx(tx, id, amount); err != nil {
				return err
			}
			entry := domain.LedgerEntry{
				Timestamp:   e.clock(),
				SenderID:    id,
				ReceiverID:  domain.SystemID,
				Amount:      amount,
				Description: fmt.Sprintf("Sold %s %s to the system for %s BotUSD", amount, e.eco.Token.Symbol, proceeds),
				Kind:        domain.KindSell,
			}
			return tx.Create(&entry).Error
		})
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": id,          // Selling account id
			"amount":     amount,      // Sold amount
			"error":      err.Error(), // Error message
		}).Error("Sell to system failed")
		return decimal.Zero, err
	}
	logrus.WithFields(logrus.Fields{
		"account_id": id,       // Selling account id
		"amount":     amount,   // Sold amount
		"proceeds":   proceeds, // BotUSD received
	}).Info("Sell transaction")
	e.invalidateAccounts(ctx, id)
	return proceeds, nil
}

// GetHistory returns ledger entries touching the account, newest first, ties
// broken by entry id. Always reads the database: history is append-heavy and
// order-sensitive, so it bypasses the cache.
func (e *Engine) GetHistory(ctx context.Context, id uint, limit, offset int) ([]domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 5
	}
	var entries []domain.LedgerEntry
	err := e.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", id, id).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}
