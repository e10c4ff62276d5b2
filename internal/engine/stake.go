package engine

import (
	"context" // Operation contexts
	"errors"  // Error classification
	"fmt"     // Entry descriptions
	"time"    // Elapsed-hours computation

	"helgykoin/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Exact decimal arithmetic
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// StakeWithReward pairs a stake with its reward pending as of the listing.
type StakeWithReward struct {
	domain.Stake
	PendingReward decimal.Decimal `json:"pending_reward"` // Unclaimed reward as of now
}

// Reward computes the reward accrued by a stake between its last claim and
// now: amount x elapsed hours x base hourly rate x multiplier. Accrual is
// linear and uncompounded; a negative elapsed duration (clock skew) clamps
// to zero. Pure function of its inputs and the configured rate.
func (e *Engine) Reward(stake domain.Stake, now time.Time, multiplier decimal.Decimal) decimal.Decimal {
	hours := now.Sub(stake.LastClaimedAt).Hours()
	if hours < 0 {
		hours = 0
	}
	return stake.Amount.
		Mul(decimal.NewFromFloat(hours)).
		Mul(e.eco.BaseHourlyRate).
		Mul(multiplier)
}

// OpenStake locks amount from the owner's balance into a new stake. The debit
// and the stake insert commit or roll back together.
func (e *Engine) OpenStake(ctx context.Context, ownerID uint, amount decimal.Decimal) (domain.Stake, error) {
	if amount.LessThan(e.eco.MinStake) {
		return domain.Stake{}, ErrStakeBelowMinimum
	}
	if amount.GreaterThan(e.eco.MaxStake) {
		return domain.Stake{}, ErrStakeAboveMaximum
	}
	now := e.clock()
	stake := domain.Stake{
		OwnerID:       ownerID,
		Amount:        amount,
		CreatedAt:     now,
		LastClaimedAt: now,
	}
	err := e.withRetry(ctx, "open_stake", func() error {
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := debitTx(tx, ownerID, amount); err != nil {
				return err
			}
			return tx.Create(&stake).Error
		})
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"owner_id": ownerID,     // Staking account id
			"amount":   amount,      // Stake principal
			"error":    err.Error(), // Error message
		}).Error("Stake open failed")
		return domain.Stake{}, err
	}
	logrus.WithFields(logrus.Fields{
		"owner_id": ownerID,       // Staking account id
		"stake_id": stake.StakeID, // New stake id
		"amount":   amount,        // Stake principal
	}).Info("Stake opened")
	e.invalidateAccounts(ctx, ownerID)
	return stake, nil
}

// ListStakesWithRewards returns the owner's stakes with their pending
// rewards. The booster multiplier is resolved once and applied uniformly, so
// all rows are consistent at a single point in time. Never cached: rewards
// grow continuously.
func (e *Engine) ListStakesWithRewards(ctx context.Context, ownerID uint) ([]StakeWithReward, error) {
	var stakes []domain.Stake
	if err := e.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("stake_id").Find(&stakes).Error; err != nil {
		return nil, err
	}
	if len(stakes) == 0 {
		return nil, nil
	}
	multiplier, err := e.ActiveMultiplier(ctx, ownerID, SpeedCategory)
	if err != nil {
		return nil, err
	}
	now := e.clock()
	out := make([]StakeWithReward, len(stakes))
	for i, stake := range stakes {
		out[i] = StakeWithReward{
			Stake:         stake,
			PendingReward: e.Reward(stake, now, multiplier),
		}
	}
	return out, nil
}

// ClaimReward pays out the pending reward of one stake and advances its
// last_claimed_at. Rewards at or below the dust threshold report
// ErrNothingToClaim and mutate nothing, so an immediate second claim is a
// no-op. Returns the paid amount.
func (e *Engine) ClaimReward(ctx context.Context, ownerID, stakeID uint) (decimal.Decimal, error) {
	stake, err := e.findStake(ctx, ownerID, stakeID)
	if err != nil {
		return decimal.Zero, err
	}
	multiplier, err := e.ActiveMultiplier(ctx, ownerID, SpeedCategory)
	if err != nil {
		return decimal.Zero, err
	}
	now := e.clock()
	reward := e.Reward(stake, now, multiplier)
	if reward.LessThanOrEqual(e.eco.DustThreshold) {
		return decimal.Zero, ErrNothingToClaim
	}
	err = e.withRetry(ctx, "claim_reward", func() error {
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// The last_claimed_at guard makes a racing duplicate claim lose
			res := tx.Model(&domain.Stake{}).
				Where("stake_id = ? AND last_claimed_at = ?", stakeID, stake.LastClaimedAt).
				Update("last_claimed_at", now)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNothingToClaim
			}
			if err := creditTx(tx, ownerID, reward); err != nil {
				return err
			}
			entry := domain.LedgerEntry{
				Timestamp:   now,
				SenderID:    domain.SystemID,
				ReceiverID:  ownerID,
				Amount:      reward,
				Description: fmt.Sprintf("Reward claim for stake #%d", stakeID),
				Kind:        domain.KindRewardClaim,
			}
			return tx.Create(&entry).Error
		})
	})
	if err != nil {
		if !errors.Is(err, ErrNothingToClaim) {
			logrus.WithFields(logrus.Fields{
				"owner_id": ownerID,     // Claiming account id
				"stake_id": stakeID,     // Claimed stake id
				"error":    err.Error(), // Error message
			}).Error("Reward claim failed")
		}
		return decimal.Zero, err
	}
	logrus.WithFields(logrus.Fields{
		"owner_id": ownerID, // Claiming account id
		"stake_id": stakeID, // Claimed stake id
		"reward":   reward,  // Paid reward
	}).Info("Reward claimed")
	e.invalidateAccounts(ctx, ownerID)
	return reward, nil
}

// stakeClaim pairs a stake snapshot with the reward computed from it.
type stakeClaim struct {
	stake  domain.Stake
	reward decimal.Decimal
}

// ClaimAll pays out the pending rewards of every qualifying stake of the
// owner in one atomic unit, writing a single aggregate ledger entry. Stakes
// at or below the dust threshold are skipped without mutation. Returns the
// total paid.
func (e *Engine) ClaimAll(ctx context.Context, ownerID uint) (decimal.Decimal, error) {
	var stakes []domain.Stake
	if err := e.db.WithContext(ctx).Where("owner_id = ?", ownerID).Find(&stakes).Error; err != nil {
		return decimal.Zero, err
	}
	if len(stakes) == 0 {
		return decimal.Zero, ErrNothingToClaim
	}
	multiplier, err := e.ActiveMultiplier(ctx, ownerID, SpeedCategory)
	if err != nil {
		return decimal.Zero, err
	}
	now := e.clock()
	var claims []stakeClaim
	for _, stake := range stakes {
		reward := e.Reward(stake, now, multiplier)
		if reward.GreaterThan(e.eco.DustThreshold) {
			claims = append(claims, stakeClaim{stake: stake, reward: reward})
		}
	}
	if len(claims) == 0 {
		return decimal.Zero, ErrNothingToClaim
	}
	var total decimal.Decimal
	var paid int
	err = e.withRetry(ctx, "claim_all", func() error {
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			total, paid, err = payClaimsTx(tx, ownerID, claims, now)
			return err
		})
	})
	if err != nil {
		if !errors.Is(err, ErrNothingToClaim) {
			logrus.WithFields(logrus.Fields{
				"owner_id": ownerID,     // Claiming account id
				"error":    err.Error(), // Error message
			}).Error("Claim all failed")
		}
		return decimal.Zero, err
	}
	logrus.WithFields(logrus.Fields{
		"owner_id": ownerID, // Claiming account id
		"stakes":   paid,    // Stakes updated
		"total":    total,   // Total paid reward
	}).Info("All rewards claimed")
	e.invalidateAccounts(ctx, ownerID)
	return total, nil
}

// payClaimsTx advances last_claimed_at and credits the summed reward for the
// claims whose snapshot still matches the stored row. Every update carries
// the same last_claimed_at guard as a single claim, so a stake claimed or
// closed concurrently since the snapshot is skipped instead of having its
// accrual window paid a second time.
func payClaimsTx(tx *gorm.DB, ownerID uint, claims []stakeClaim, now time.Time) (decimal.Decimal, int, error) {
	total := decimal.Zero
	paid := 0
	for _, claim := range claims {
		res := tx.Model(&domain.Stake{}).
			Where("stake_id = ? AND last_claimed_at = ?", claim.stake.StakeID, claim.stake.LastClaimedAt).
			Update("last_claimed_at", now)
		if res.Error != nil {
			return decimal.Zero, 0, res.Error
		}
		if res.RowsAffected == 0 {
			continue // Another claim owns this window
		}
		total = total.Add(claim.reward)
		paid++
	}
	if paid == 0 {
		return decimal.Zero, 0, ErrNothingToClaim
	}
	if err := creditTx(tx, ownerID, total); err != nil {
		return decimal.Zero, 0, err
	}
	entry := domain.LedgerEntry{
		Timestamp:   now,
		SenderID:    domain.SystemID,
		ReceiverID:  ownerID,
		Amount:      total,
		Description: fmt.Sprintf("Claimed rewards from %d stakes", paid),
		Kind:        domain.KindRewardClaim,
	}
	return total, paid, tx.Create(&entry).Error
}

// CloseStake pays out principal plus the pending reward in one balance
// credit, deletes the stake row and writes separate reward and
// principal-return entries for auditability, all atomically. A claim landing
// between the snapshot read and the delete advances last_claimed_at; the
// guarded delete detects that and the close re-reads, so an already-paid
// accrual window is never paid again. Returns the principal and reward paid.
func (e *Engine) CloseStake(ctx context.Context, ownerID, stakeID uint) (decimal.Decimal, decimal.Decimal, error) {
	var principal, reward decimal.Decimal
	var err error
	for attempt := 0; ; attempt++ {
		principal, reward, err = e.closeStakeOnce(ctx, ownerID, stakeID)
		if !errors.Is(err, errStakeChanged) {
			break
		}
		if attempt >= e.eco.MaxRetries {
			err = fmt.Errorf("%w: stake %d changed on every close attempt", ErrTransientStore, stakeID)
			break
		}
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"owner_id": ownerID,     // Unstaking account id
			"stake_id": stakeID,     // Closed stake id
			"error":    err.Error(), // Error message
		}).Error("Stake close failed")
		return decimal.Zero, decimal.Zero, err
	}
	logrus.WithFields(logrus.Fields{
		"owner_id":  ownerID,   // Unstaking account id
		"stake_id":  stakeID,   // Closed stake id
		"principal": principal, // Returned principal
		"reward":    reward,    // Paid reward
	}).Info("Stake closed")
	e.invalidateAccounts(ctx, ownerID)
	return principal, reward, nil
}

// closeStakeOnce takes a fresh snapshot of the stake, computes its pending
// reward and attempts the guarded close. Reports errStakeChanged when the
// row moved under the snapshot.
func (e *Engine) closeStakeOnce(ctx context.Context, ownerID, stakeID uint) (decimal.Decimal, decimal.Decimal, error) {
	stake, err := e.findStake(ctx, ownerID, stakeID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	multiplier, err := e.ActiveMultiplier(ctx, ownerID, SpeedCategory)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	now := e.clock()
	reward := e.Reward(stake, now, multiplier)
	err = e.withRetry(ctx, "close_stake", func() error {
		return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return closeStakeTx(tx, stake, reward, now)
		})
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return stake.Amount, reward, nil
}

// closeStakeTx deletes the stake and credits principal plus reward in one
// transaction. The delete is guarded by the snapshot's last_claimed_at: a
// claim committing after the snapshot already paid part of this reward, so a
// mismatch aborts with errStakeChanged instead of paying it twice.
func closeStakeTx(tx *gorm.DB, stake domain.Stake, reward decimal.Decimal, now time.Time) error {
	res := tx.Where("stake_id = ? AND last_claimed_at = ?", stake.StakeID, stake.LastClaimedAt).Delete(&domain.Stake{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errStakeChanged // Claimed or closed concurrently
	}
	if err := creditTx(tx, stake.OwnerID, stake.Amount.Add(reward)); err != nil {
		return err
	}
	// A zero reward (no elapsed time) gets no entry: the log only records
	// positive amounts
	if reward.IsPositive() {
		rewardEntry := domain.LedgerEntry{
			Timestamp:   now,
			SenderID:    domain.SystemID,
			ReceiverID:  stake.OwnerID,
			Amount:      reward,
			Description: fmt.Sprintf("Reward for stake #%d", stake.StakeID),
			Kind:        domain.KindStakeReward,
		}
		if err := tx.Create(&rewardEntry).Error; err != nil {
			return err
		}
	}
	principalEntry := domain.LedgerEntry{
		Timestamp:   now,
		SenderID:    domain.SystemID,
		ReceiverID:  stake.OwnerID,
		Amount:      stake.Amount,
		Description: fmt.Sprintf("Principal return for stake #%d", stake.StakeID),
		Kind:        domain.KindStakeReturn,
	}
	return tx.Create(&principalEntry).Error
}

// findStake loads a stake and verifies ownership.
func (e *Engine) findStake(ctx context.Context, ownerID, stakeID uint) (domain.Stake, error) {
	var stake domain.Stake
	if err := e.db.WithContext(ctx).First(&stake, "stake_id = ?", stakeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Stake{}, ErrStakeNotFound
		}
		return domain.Stake{}, err
	}
	if stake.OwnerID != ownerID {
		return domain.Stake{}, ErrNotOwner
	}
	return stake, nil
}
