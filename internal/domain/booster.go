package domain

import (
	"strings" // Category derivation from the type key
	"time"    // Expiry timestamps

	"github.com/shopspring/decimal" // Exact decimal arithmetic for the multiplier
)

// Booster Model (expired rows are inert but not eagerly purged)
type Booster struct {
	BoosterID   uint            `gorm:"primaryKey;autoIncrement" json:"booster_id"`                         // Auto-incremented booster id
	OwnerID     uint            `gorm:"index;not null" json:"owner_id"`                                     // Owning account
	TypeKey     string          `gorm:"size:64;not null" json:"type_key"`                                   // Catalog key, e.g. speed_24h_1.5x
	ActiveUntil time.Time       `json:"active_until"`                                                       // Expires naturally after this instant
	Multiplier  decimal.Decimal `gorm:"type:decimal(30,8);not null;check:multiplier > 0" json:"multiplier"` // Reward multiplier while active
}

// BoosterCategory extracts the category from a catalog key; keys are
// namespaced as <category>_<variant>, e.g. "speed_24h_1.5x" -> "speed".
func BoosterCategory(typeKey string) string {
	if i := strings.IndexByte(typeKey, '_'); i > 0 {
		return typeKey[:i]
	}
	return typeKey
}

// Expired reports whether the booster is past its active window.
func (b Booster) Expired(now time.Time) bool {
	return !b.ActiveUntil.After(now)
}
