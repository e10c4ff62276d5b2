package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Exact decimal arithmetic for amounts
)

// Ledger entry kinds
const (
	KindBonus       = "bonus"        // Startup bonus on registration
	KindTransfer    = "transfer"     // Account-to-account transfer
	KindMint        = "mint"         // Administrative token emission
	KindSell        = "sell"         // Sale of tokens back to the system
	KindStakeReward = "stake_reward" // Reward paid on unstake
	KindStakeReturn = "stake_return" // Principal returned on unstake
	KindRewardClaim = "reward_claim" // Reward claimed while the stake stays open
	KindBooster     = "booster"      // Booster purchase
)

// LedgerEntry Model (append-only audit trail; rows are never updated or deleted)
type LedgerEntry struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`                         // Auto-incremented entry id
	Timestamp   time.Time       `gorm:"index" json:"timestamp"`                                     // Time the entry was written
	SenderID    uint            `gorm:"index" json:"sender_id"`                                     // 0 = system mint
	ReceiverID  uint            `gorm:"index" json:"receiver_id"`                                   // 0 = system burn
	Amount      decimal.Decimal `gorm:"type:decimal(30,8);not null;check:amount > 0" json:"amount"` // Moved amount, always positive
	Description string          `json:"description"`                                                // Human-readable annotation
	Kind        string          `gorm:"size:32;index" json:"kind"`                                  // One of the Kind* constants
}
