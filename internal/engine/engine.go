// Package engine implements the HelgyKoin ledger and staking-accrual core:
// account balances, the append-only transaction log, token metadata, stake
// lifecycle and booster purchases. It is an in-process library; the HTTP
// layer in internal/api is just one possible front end.
package engine

import (
	"context" // Cache invalidation contexts
	"strconv" // Cache key construction
	"time"    // Clock and durations

	"helgykoin/internal/cache" // Read cache in front of the database

	"github.com/shopspring/decimal" // Exact decimal arithmetic
	"gorm.io/gorm"                  // GORM ORM library
)

// TokenParams seeds the singleton token_meta row.
type TokenParams struct {
	Name         string          // Token name
	Symbol       string          // Ticker symbol
	Decimals     int             // Display precision
	TotalSupply  decimal.Decimal // Initial circulating supply
	InitialPrice decimal.Decimal // Initial price
}

// BoosterType is one purchasable catalog entry.
type BoosterType struct {
	Name          string          `json:"name"`           // Display name
	Cost          decimal.Decimal `json:"cost"`           // Purchase cost
	DurationHours int             `json:"duration_hours"` // Active window length
	Multiplier    decimal.Decimal `json:"multiplier"`     // Reward multiplier while active
	Description   string          `json:"description"`    // Catalog description
}

// Economics is the immutable configuration injected at construction. Tests
// swap in different economics instead of patching globals.
type Economics struct {
	Token          TokenParams            // Token identity and seed values
	StartupBonus   decimal.Decimal        // Credited on account creation
	BaseHourlyRate decimal.Decimal        // Staking reward rate per hour
	MinStake       decimal.Decimal        // Lower stake bound, inclusive
	MaxStake       decimal.Decimal        // Upper stake bound, inclusive
	DustThreshold  decimal.Decimal        // Minimum claimable reward
	SellRate       decimal.Decimal        // BotUSD received per token sold to the system
	CacheTTL       time.Duration          // Read-cache entry lifetime
	MaxRetries     int                    // Attempts for retryable store errors
	RetryDelay     time.Duration          // Fixed delay between attempts
	Boosters       map[string]BoosterType // Purchasable booster catalog
}

// SpeedCategory is the booster category that modulates staking rewards.
const SpeedCategory = "speed"

// DefaultEconomics returns the production economics.
func DefaultEconomics() Economics {
	return Economics{
		Token: TokenParams{
			Name:         "HelgyKoin",
			Symbol:       "HKN",
			Decimals:     8,
			TotalSupply:  decimal.New(1_000_000_000, 0),
			InitialPrice: decimal.New(1, -4), // 0.0001
		},
		StartupBonus:   decimal.New(100, 0),
		BaseHourlyRate: decimal.New(1, -3), // 0.1% per hour
		MinStake:       decimal.New(10, 0),
		MaxStake:       decimal.New(1_000_000, 0),
		DustThreshold:  decimal.New(1, -3),
		SellRate:       decimal.New(5, -5),
		CacheTTL:       5 * time.Minute,
		MaxRetries:     3,
		RetryDelay:     time.Second,
		Boosters: map[string]BoosterType{
			"speed_24h_1.5x": {
				Name:          "Booster x1.5 (24h)",
				Cost:          decimal.New(100, 0),
				DurationHours: 24,
				Multiplier:    decimal.New(15, -1),
				Description:   "Increases staking reward speed by 50% for 24 hours.",
			},
			"speed_7d_2x": {
				Name:          "Mega Booster x2.0 (7 days)",
				Cost:          decimal.New(500, 0),
				DurationHours: 168,
				Multiplier:    decimal.New(2, 0),
				Description:   "Doubles staking reward speed for 7 days!",
			},
		},
	}
}

// Engine executes ledger operations against the database, keeping the read
// cache consistent with writes. Safe for concurrent use; every multi-step
// operation runs inside one database transaction.
type Engine struct {
	db    *gorm.DB         // Transactional store
	cache cache.Store      // Read cache, invalidated on writes
	eco   Economics        // Injected immutable economics
	clock func() time.Time // Injectable for deterministic tests
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the engine's notion of now.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// New constructs an Engine.
func New(db *gorm.DB, store cache.Store, eco Economics, opts ...Option) *Engine {
	e := &Engine{db: db, cache: store, eco: eco, clock: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Economics returns the engine's injected configuration.
func (e *Engine) Economics() Economics {
	return e.eco
}

// Cache keys. Writes invalidate exactly the entities they could have staled
// instead of flushing the whole cache.
const tokenInfoKey = "token:info"

func accountKey(id uint) string {
	return "account:" + strconv.FormatUint(uint64(id), 10)
}

// invalidateAccounts drops the cached lookups for the given accounts.
func (e *Engine) invalidateAccounts(ctx context.Context, ids ...uint) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = accountKey(id)
	}
	_ = e.cache.Delete(ctx, keys...)
}

// invalidateToken drops the cached token metadata.
func (e *Engine) invalidateToken(ctx context.Context) {
	_ = e.cache.Delete(ctx, tokenInfoKey)
}
