package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-telegram/bot/models"
	"gitlab.com/yelinaung/spendwise/internal/engine"
	"gitlab.com/yelinaung/spendwise/internal/locale"
	"gitlab.com/yelinaung/spendwise/internal/logger"
	appmodels "gitlab.com/yelinaung/spendwise/internal/models"
)

const startUsage = `Register with:
<code>/start &lt;name&gt; &lt;mobile&gt; &lt;monthly income&gt; [country]</code>

Example: <code>/start Priya 9876543210 45000 IN</code>
Countries: %s`

// errRegistrationFormat is returned for /start arguments that cannot be split.
var errRegistrationFormat = errors.New("expected name, mobile and income")

// parseRegistration parses "<name...> <mobile> <income> [country]". A
// trailing two-letter word is taken as the country code.
func parseRegistration(args string) (appmodels.UserProfile, error) {
	fields := strings.Fields(args)
	country := ""
	if n := len(fields); n >= 4 && isCountryCode(fields[n-1]) {
		country = strings.ToUpper(fields[n-1])
		fields = fields[:n-1]
	}

	n := len(fields)
	if n < 3 {
		return appmodels.UserProfile{}, errRegistrationFormat
	}

	income, err := parseAmount(fields[n-1])
	if err != nil {
		return appmodels.UserProfile{}, err
	}

	return appmodels.UserProfile{
		Name:          strings.Join(fields[:n-2], " "),
		Mobile:        fields[n-2],
		MonthlyIncome: income,
		Country:       country,
	}, nil
}

func isCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// handleStartCore registers the user or greets a returning one.
func (b *Bot) handleStartCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if profile, ok := b.engine.Profile(); ok {
		b.reply(ctx, tg, chatID, fmt.Sprintf("👋 Welcome back, %s! Use /help to see what I can do.",
			escapeHTML(profile.Name)))
		return
	}

	args := extractCommandArgs(update.Message.Text, "/start")
	usage := fmt.Sprintf(startUsage, strings.Join(locale.Codes(), ", "))
	if args == "" {
		b.reply(ctx, tg, chatID, "👋 Welcome to SpendWise!\n\n"+usage)
		return
	}

	profile, err := parseRegistration(args)
	if err != nil {
		b.reply(ctx, tg, chatID, "❌ Invalid format.\n\n"+usage)
		return
	}

	if err := b.engine.Register(ctx, profile); err != nil {
		logger.Log.Debug().Err(err).Msg("Registration rejected")
		switch {
		case errors.Is(err, engine.ErrInvalidMobile):
			b.reply(ctx, tg, chatID, "❌ That mobile number is not valid for your country.")
		case errors.Is(err, engine.ErrAlreadyRegistered):
			b.reply(ctx, tg, chatID, "ℹ️ You are already registered.")
		default:
			b.reply(ctx, tg, chatID, "❌ Invalid profile.\n\n"+usage)
		}
		return
	}

	cfg := b.engine.Locale()
	settings := b.engine.Settings()
	goal := b.engine.ViceGoal()
	b.reply(ctx, tg, chatID, fmt.Sprintf(`✅ Welcome, %s! %s

%s: %s
Weekly limit: %s
%s: %s (skip %s to save)

Send an expense like <code>5.50 Coffee</code> or use /help.`,
		escapeHTML(profile.Name), cfg.Flag,
		cfg.Translations["monthlyIncome"], money(cfg, settings.MonthlyIncome),
		money(cfg, settings.WeeklyLimit),
		cfg.Translations["dreamGoal"], money(cfg, goal.TargetAmount),
		money(cfg, goal.VicePrice)))
}

// handleHelpCore lists the available commands.
func (b *Bot) handleHelpCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := `📚 <b>Available Commands</b>

<b>` + escapeHTML(b.engine.T("ledger")) + `:</b>
• <code>/add &lt;amount&gt; &lt;description&gt; [category]</code> - Add an expense
• Just send a message like <code>5.50 Coffee</code> to quickly add
• Send a receipt photo or a voice message
• <code>/list</code> - Recent expenses
• <code>/export</code> - Download expenses as CSV
• <code>/stats</code> - Spending summary and points

<b>` + escapeHTML(b.engine.T("dreamGoal")) + `:</b>
• <code>/goal &lt;target&gt; &lt;vice price&gt; &lt;goal name&gt; | &lt;vice name&gt;</code> - Set your goal
• <code>/skip</code> - Skip your vice and save its price

<b>` + escapeHTML(b.engine.T("rewards")) + `:</b>
• <code>/rewards</code> - Reward catalog
• <code>/redeem &lt;id&gt;</code> - Redeem a reward
• <code>/bonus</code> - Claim the daily bonus
• <code>/inbox</code>, <code>/clear</code> - Show or clear notifications

<b>` + escapeHTML(b.engine.T("plan")) + `:</b>
• <code>/subs</code> - Subscriptions
• <code>/sub &lt;amount&gt; &lt;name&gt; [!]</code> - Track a subscription (! marks it essential)
• <code>/unsub &lt;id&gt;</code> - Remove a subscription
• <code>/pending</code> - Purchases waiting for approval
• <code>/plan &lt;amount&gt; &lt;name&gt;</code> - Propose a purchase
• <code>/approve &lt;id&gt;</code>, <code>/reject &lt;id&gt;</code> - Decide on a purchase

<b>` + escapeHTML(b.engine.T("prefs")) + `:</b>
• <code>/income &lt;amount&gt;</code> - Update monthly income
• <code>/limit &lt;amount&gt;</code> - Set weekly limit
• <code>/reset confirm</code> - Delete all data`

	b.reply(ctx, tg, update.Message.Chat.ID, text)
}

// handleStatsCore shows spending tallies, points and goal progress.
func (b *Bot) handleStatsCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	cfg := b.engine.Locale()
	sum := b.engine.Summary()
	stats := b.engine.Stats()
	goal := b.engine.ViceGoal()
	total, essential := b.engine.MonthlySubscriptionCost()

	badges := strings.Join(stats.Badges, " ")
	if badges == "" {
		badges = "none yet"
	}

	b.reply(ctx, tg, update.Message.Chat.ID, fmt.Sprintf(`📊 <b>%s</b>

%s: %s / %s
This month: %s
%s: %s
%s: <b>%s</b>
Subscriptions: %s (%s essential)

🏅 %s: %d XP, level %d
Badges: %s

🎯 %s: %s %s / %s (%.0f%%)`,
		escapeHTML(cfg.Translations["home"]),
		escapeHTML(cfg.Translations["weeklyActivity"]), money(cfg, sum.WeekSpent), money(cfg, sum.WeeklyLimit),
		money(cfg, sum.MonthSpent),
		escapeHTML(cfg.Translations["monthlyIncome"]), money(cfg, sum.MonthlyIncome),
		escapeHTML(cfg.Translations["safeToSpend"]), money(cfg, sum.SafeToSpend),
		money(cfg, total), money(cfg, essential),
		escapeHTML(cfg.Translations["rewards"]), stats.Points, stats.Level,
		badges,
		escapeHTML(cfg.Translations["dreamGoal"]), escapeHTML(goal.GoalName),
		money(cfg, goal.CurrentSavings), money(cfg, goal.TargetAmount), goal.Progress()*100))
}

// handleIncomeCore updates the monthly income.
func (b *Bot) handleIncomeCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	amount, err := parseAmount(extractCommandArgs(update.Message.Text, "/income"))
	if err != nil {
		b.reply(ctx, tg, chatID, "Usage: <code>/income &lt;amount&gt;</code>")
		return
	}

	if err := b.engine.UpdateMonthlyIncome(ctx, amount); err != nil {
		if errors.Is(err, engine.ErrNotRegistered) {
			b.reply(ctx, tg, chatID, "❌ Please register first with /start.")
			return
		}
		b.reply(ctx, tg, chatID, "❌ Invalid income.")
		return
	}

	cfg := b.engine.Locale()
	b.reply(ctx, tg, chatID, fmt.Sprintf("✅ %s: %s", escapeHTML(cfg.Translations["monthlyIncome"]), money(cfg, amount)))
}

// handleLimitCore sets the weekly spending limit.
func (b *Bot) handleLimitCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	amount, err := parseAmount(extractCommandArgs(update.Message.Text, "/limit"))
	if err != nil {
		b.reply(ctx, tg, chatID, "Usage: <code>/limit &lt;amount&gt;</code>")
		return
	}

	if err := b.engine.SetWeeklyLimit(ctx, amount); err != nil {
		b.reply(ctx, tg, chatID, "❌ Invalid limit.")
		return
	}

	b.reply(ctx, tg, chatID, "✅ Weekly limit: "+money(b.engine.Locale(), amount))
}

// handleResetCore deletes all data after an explicit confirmation word.
func (b *Bot) handleResetCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if !strings.EqualFold(extractCommandArgs(update.Message.Text, "/reset"), "confirm") {
		b.reply(ctx, tg, chatID, "⚠️ This deletes your profile, expenses and points. Send <code>/reset confirm</code> to continue.")
		return
	}

	b.engine.Reset(ctx)
	b.reply(ctx, tg, chatID, "🗑️ All data deleted. Use /start to register again.")
}

// handleInboxCore lists notifications, newest first.
func (b *Bot) handleInboxCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	notes := b.engine.Notifications()
	if len(notes) == 0 {
		b.reply(ctx, tg, update.Message.Chat.ID, "📭 No notifications.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🔔 <b>Notifications</b>\n\n")
	for _, n := range notes {
		sb.WriteString("• " + escapeHTML(n) + "\n")
	}
	b.reply(ctx, tg, update.Message.Chat.ID, sb.String())
}

// handleClearCore empties the notification log.
func (b *Bot) handleClearCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	b.engine.ClearNotifications()
	b.reply(ctx, tg, update.Message.Chat.ID, "✅ Notifications cleared.")
}
