package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/spendwise/internal/engine"
	"gitlab.com/yelinaung/spendwise/internal/logger"
	appmodels "gitlab.com/yelinaung/spendwise/internal/models"
)

const goalUsage = "Usage: <code>/goal &lt;target&gt; &lt;vice price&gt; &lt;goal name&gt; | &lt;vice name&gt;</code>\n\n" +
	"Example: <code>/goal 50000 250 New Bike | Weekend Pizza</code>"

// errGoalFormat is returned for /goal arguments that cannot be split.
var errGoalFormat = errors.New("expected target, vice price and goal name")

// parseGoal parses "<target> <vice price> <goal name> [| <vice name>]".
// A missing vice name keeps current.ViceName. Savings carry over.
func parseGoal(args string, current appmodels.ViceGoal) (appmodels.ViceGoal, error) {
	head, viceName, hasVice := strings.Cut(args, "|")
	fields := strings.Fields(head)
	if len(fields) < 3 {
		return appmodels.ViceGoal{}, errGoalFormat
	}

	target, err := parseAmount(fields[0])
	if err != nil {
		return appmodels.ViceGoal{}, err
	}
	price, err := parseAmount(fields[1])
	if err != nil {
		return appmodels.ViceGoal{}, err
	}

	goal := appmodels.ViceGoal{
		GoalName:       strings.Join(fields[2:], " "),
		TargetAmount:   target,
		CurrentSavings: current.CurrentSavings,
		ViceName:       current.ViceName,
		VicePrice:      price,
	}
	if name := strings.TrimSpace(viceName); hasVice && name != "" {
		goal.ViceName = name
	}
	return goal, nil
}

// handleSkipCore banks the vice price toward the goal.
func (b *Bot) handleSkipCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	res := b.engine.Skip(ctx)
	goal := b.engine.ViceGoal()
	cfg := b.engine.Locale()

	text := fmt.Sprintf(`💪 <b>%s</b> %s

+%d XP
🎯 %s: %s / %s (%.0f%%)`,
		escapeHTML(cfg.Translations["skipped"]), escapeHTML(goal.ViceName),
		res.PointsAwarded,
		escapeHTML(goal.GoalName), money(cfg, res.CurrentSavings), money(cfg, goal.TargetAmount),
		goal.Progress()*100)

	if res.GoalJustAchieved {
		text += "\n\n🏆 <b>" + escapeHTML(engine.MsgGoalAchieved) + "</b>"
	}

	b.reply(ctx, tg, chatID, text)
}

// handleGoalCore shows or replaces the vice goal. "/goal reset" zeroes
// the savings.
func (b *Bot) handleGoalCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	cfg := b.engine.Locale()
	args := extractCommandArgs(update.Message.Text, "/goal")

	switch {
	case args == "":
		goal := b.engine.ViceGoal()
		b.reply(ctx, tg, chatID, fmt.Sprintf(`🎯 <b>%s</b>

%s: %s / %s (%.0f%%)
Skip %s to save %s each time.

%s`,
			escapeHTML(cfg.Translations["dreamGoal"]),
			escapeHTML(goal.GoalName), money(cfg, goal.CurrentSavings), money(cfg, goal.TargetAmount),
			goal.Progress()*100,
			escapeHTML(goal.ViceName), money(cfg, goal.VicePrice),
			goalUsage))
		return
	case strings.EqualFold(args, "reset"):
		b.engine.ResetSavings(ctx)
		b.reply(ctx, tg, chatID, "🔄 Savings reset to "+money(cfg, decimal.Zero))
		return
	}

	goal, err := parseGoal(args, b.engine.ViceGoal())
	if err != nil {
		b.reply(ctx, tg, chatID, "❌ Invalid format.\n\n"+goalUsage)
		return
	}

	b.engine.SetGoal(ctx, goal)
	b.reply(ctx, tg, chatID, fmt.Sprintf("✅ Goal set: %s (%s). Skip %s to save %s.",
		escapeHTML(goal.GoalName), money(cfg, goal.TargetAmount),
		escapeHTML(goal.ViceName), money(cfg, goal.VicePrice)))
}

// handleRewardsCore lists the reward catalog with the current balance.
func (b *Bot) handleRewardsCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	stats := b.engine.Stats()
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎁 <b>%s</b>\n\nBalance: %d XP (level %d)\n\n",
		escapeHTML(b.engine.T("rewards")), stats.Points, stats.Level)
	for _, r := range b.engine.Rewards() {
		mark := "🔒"
		if stats.Points >= r.Cost {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "%s %s <b>%s</b> - %d XP <code>/redeem %s</code>\n",
			mark, r.Icon, escapeHTML(r.Name), r.Cost, escapeHTML(r.ID))
	}

	b.reply(ctx, tg, update.Message.Chat.ID, sb.String())
}

// handleRedeemCore spends points on a catalog reward.
func (b *Bot) handleRedeemCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	id := extractCommandArgs(update.Message.Text, "/redeem")
	if id == "" {
		b.reply(ctx, tg, chatID, "Usage: <code>/redeem &lt;id&gt;</code>. See /rewards for ids.")
		return
	}

	reward, ok, err := b.engine.RedeemByID(ctx, id)
	if err != nil {
		logger.Log.Debug().Err(err).Msg("Redeem of unknown reward")
		b.reply(ctx, tg, chatID, "❌ Unknown reward. See /rewards for ids.")
		return
	}
	if !ok {
		b.reply(ctx, tg, chatID, fmt.Sprintf("🔒 Not enough points for %s. You have %d XP, it costs %d XP.",
			escapeHTML(reward.Name), b.engine.Stats().Points, reward.Cost))
		return
	}

	b.notifyLatest(ctx, tg, chatID)
}

// handleBonusCore claims the daily bonus.
func (b *Bot) handleBonusCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if !b.engine.ClaimDailyBonus(ctx) {
		b.reply(ctx, tg, chatID, "⏳ Daily bonus already claimed. Come back tomorrow!")
		return
	}

	b.notifyLatest(ctx, tg, chatID)
}
