package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Exact decimal arithmetic for the principal
)

// Stake Model (deleted, not archived, when the stake is closed)
type Stake struct {
	StakeID       uint            `gorm:"primaryKey;autoIncrement" json:"stake_id"`                   // Auto-incremented stake id
	OwnerID       uint            `gorm:"index;not null" json:"owner_id"`                             // Owning account
	Amount        decimal.Decimal `gorm:"type:decimal(30,8);not null;check:amount > 0" json:"amount"` // Locked principal
	CreatedAt     time.Time       `json:"created_at"`                                                 // When the stake was opened
	LastClaimedAt time.Time       `json:"last_claimed_at"`                                            // Advances on each reward claim
}
