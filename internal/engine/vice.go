package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/spendwise/internal/metrics"
	"gitlab.com/yelinaung/spendwise/internal/models"
)

// MsgGoalAchieved is emitted when a skip reaches the goal.
const MsgGoalAchieved = "DREAM GOAL ACHIEVED! 🏆"

// MsgSkipPoints is emitted on every skip that does not achieve the goal.
var MsgSkipPoints = fmt.Sprintf("FHP Earned! +%d XP", PointsPerSkip)

// SkipResult describes the outcome of Skip.
type SkipResult struct {
	PointsAwarded    int64           `json:"pointsAwarded"`
	GoalJustAchieved bool            `json:"goalJustAchieved"`
	CurrentSavings   decimal.Decimal `json:"currentSavings"`
}

// Skip banks the vice price toward the goal and awards PointsPerSkip.
// GoalJustAchieved is true only on the call that moves savings from below
// the target to at or above it.
func (e *Engine) Skip(ctx context.Context) SkipResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	wasAchieved := e.goal.Achieved()
	e.goal.CurrentSavings = e.goal.CurrentSavings.Add(e.goal.VicePrice)
	e.saveGoal(ctx)

	e.addPointsLocked(ctx, PointsPerSkip, "skip")
	metrics.VicesSkipped.Inc()

	justAchieved := !wasAchieved && e.goal.Achieved()
	if justAchieved {
		metrics.GoalsAchieved.Inc()
		e.emitLocked(MsgGoalAchieved)
	} else {
		e.emitLocked(MsgSkipPoints)
	}

	e.log.Info().
		Str("savings", e.goal.CurrentSavings.String()).
		Str("target", e.goal.TargetAmount.String()).
		Bool("goal_achieved", justAchieved).
		Msg("Vice skipped")

	return SkipResult{
		PointsAwarded:    PointsPerSkip,
		GoalJustAchieved: justAchieved,
		CurrentSavings:   e.goal.CurrentSavings,
	}
}

// SetGoal replaces the vice goal. It awards nothing and emits nothing.
func (e *Engine) SetGoal(ctx context.Context, goal models.ViceGoal) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.goal = goal
	e.saveGoal(ctx)
	e.log.Info().Str("target", goal.TargetAmount.String()).Str("vice_price", goal.VicePrice.String()).Msg("Vice goal set")
}

// ResetSavings zeroes the savings so the goal is accumulating again.
func (e *Engine) ResetSavings(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.goal.CurrentSavings = decimal.Zero
	e.saveGoal(ctx)
	e.log.Info().Msg("Vice savings reset")
}

// ViceGoal returns the current goal.
func (e *Engine) ViceGoal() models.ViceGoal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.goal
}
