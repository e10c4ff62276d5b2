package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Exact decimal arithmetic for balances
)

// SystemID is the pseudo-account used as the counterpart of mints and burns.
const SystemID uint = 0

// Account Model
type Account struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                                          // External identity (not auto-generated)
	DisplayName string          `json:"display_name"`                                                  // Optional display name
	Balance     decimal.Decimal `gorm:"type:decimal(30,8);not null;check:balance >= 0" json:"balance"` // Spendable balance, never negative
	CreatedAt   time.Time       `json:"created_at"`                                                    // Timestamp of registration
}
