package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"gitlab.com/yelinaung/spendwise/internal/metrics"
	"gitlab.com/yelinaung/spendwise/internal/models"
)

// ErrUnknownReward is returned by RedeemByID for ids missing from the catalog.
var ErrUnknownReward = errors.New("unknown reward")

// AddPoints credits points and recomputes the level. Negative amounts are
// ignored.
func (e *Engine) AddPoints(ctx context.Context, amount int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addPointsLocked(ctx, amount, "manual")
}

func (e *Engine) addPointsLocked(ctx context.Context, amount int64, reason string) {
	if amount < 0 {
		e.log.Warn().Int64("amount", amount).Str("reason", reason).Msg("Ignoring negative point award")
		return
	}
	if amount == 0 {
		return
	}

	before := e.stats.Level
	e.stats.Points += amount
	e.stats.Level = models.LevelFor(e.stats.Points)
	e.saveStats(ctx)

	metrics.PointsAwarded.WithLabelValues(reason).Add(float64(amount))
	if e.stats.Level > before {
		e.log.Info().Int64("level", e.stats.Level).Msg("Level up")
	}
}

// Redeem spends points on reward. It succeeds only when the balance covers
// the cost; on success the cost is debited, the reward icon is appended to
// the badges and a notification is emitted. A failed attempt changes
// nothing, and every call re-checks the balance.
func (e *Engine) Redeem(ctx context.Context, reward models.Reward) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.redeemLocked(ctx, reward)
}

func (e *Engine) redeemLocked(ctx context.Context, reward models.Reward) bool {
	if reward.Cost < 0 || e.stats.Points < reward.Cost {
		metrics.Redemptions.WithLabelValues("insufficient").Inc()
		e.log.Debug().
			Str("reward_id", reward.ID).
			Int64("cost", reward.Cost).
			Int64("points", e.stats.Points).
			Msg("Redemption rejected")
		return false
	}

	e.stats.Points -= reward.Cost
	e.stats.Level = models.LevelFor(e.stats.Points)
	e.stats.Badges = append(e.stats.Badges, reward.Icon)
	e.saveStats(ctx)

	metrics.Redemptions.WithLabelValues("success").Inc()
	e.emitLocked(fmt.Sprintf("Unlocked %s! 🎉", reward.Name))
	e.log.Info().Str("reward_id", reward.ID).Int64("cost", reward.Cost).Msg("Reward redeemed")
	return true
}

// RedeemByID looks up id in the catalog and redeems it.
func (e *Engine) RedeemByID(ctx context.Context, id string) (models.Reward, bool, error) {
	reward, ok := e.catalog.Get(id)
	if !ok {
		return models.Reward{}, false, fmt.Errorf("%w: %s", ErrUnknownReward, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return reward, e.redeemLocked(ctx, reward), nil
}

// Rewards returns the reward catalog.
func (e *Engine) Rewards() []models.Reward {
	return e.catalog.All()
}

// ClaimDailyBonus awards DailyBonusPoints once per calendar day in the
// engine's time zone. It reports whether the bonus was granted.
func (e *Engine) ClaimDailyBonus(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if last := e.stats.LastBonusAt; last != nil && sameDay(*last, now, e.loc) {
		e.log.Debug().Msg("Daily bonus already claimed")
		return false
	}

	e.stats.LastBonusAt = &now
	e.addPointsLocked(ctx, DailyBonusPoints, "daily_bonus")
	e.emitLocked(fmt.Sprintf("Daily bonus! +%d XP", DailyBonusPoints))
	return true
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// Stats returns a copy of the reward state.
func (e *Engine) Stats() models.UserStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.stats
	s.Badges = slices.Clone(e.stats.Badges)
	return s
}
