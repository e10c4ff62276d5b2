package engine

import "errors"

// Typed outcomes. Business-rule violations are returned as these sentinels,
// never as raw store errors; the front end maps them to user-facing text.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountExists     = errors.New("account already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrStakeNotFound     = errors.New("stake not found")
	ErrNotOwner          = errors.New("stake belongs to another account")
	ErrStakeBelowMinimum = errors.New("stake amount below minimum")
	ErrStakeAboveMaximum = errors.New("stake amount above maximum")
	ErrNothingToClaim    = errors.New("nothing to claim")
	ErrUnknownBooster    = errors.New("unknown booster key")
	ErrTransientStore    = errors.New("transient store error")
)

// errStakeChanged signals that a stake's last_claimed_at moved between a
// snapshot read and the guarded write built on it. Internal: callers re-read
// and recompute, it never escapes the engine.
var errStakeChanged = errors.New("stake changed concurrently")
