package domain

import "github.com/shopspring/decimal" // Exact decimal arithmetic for supply and price

// TokenMeta Model (singleton row, id is always 1)
type TokenMeta struct {
	ID           uint            `gorm:"primaryKey" json:"-"`                                                       // Always 1
	Name         string          `gorm:"not null" json:"name"`                                                      // Token name
	Symbol       string          `gorm:"not null" json:"symbol"`                                                    // Ticker symbol
	Decimals     int             `gorm:"not null;check:decimals >= 0" json:"decimals"`                              // Display precision
	TotalSupply  decimal.Decimal `gorm:"type:decimal(30,8);not null;check:total_supply > 0" json:"total_supply"`    // Grows only via mint
	CurrentPrice decimal.Decimal `gorm:"type:decimal(30,8);not null;check:current_price >= 0" json:"current_price"` // Set by admin override
}

// MarketCap derives the market capitalization from supply and price.
func (t TokenMeta) MarketCap() decimal.Decimal {
	return t.TotalSupply.Mul(t.CurrentPrice)
}
