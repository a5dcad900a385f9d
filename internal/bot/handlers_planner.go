package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"
	appmodels "gitlab.com/yelinaung/spendwise/internal/models"
)

// essentialMarker flags a subscription as essential when it ends /sub.
const essentialMarker = "!"

// errPlanFormat is returned for planner arguments without an amount and name.
var errPlanFormat = errors.New("expected amount and name")

// parseAmountAndName parses "<amount> <name...>".
func parseAmountAndName(args string) (decimal.Decimal, string, error) {
	amountText, name, _ := strings.Cut(strings.TrimSpace(args), " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return decimal.Zero, "", errPlanFormat
	}
	amount, err := parseAmount(amountText)
	if err != nil {
		return decimal.Zero, "", err
	}
	return amount, name, nil
}

// parseSubscription parses "<amount> <name...> [!]".
func parseSubscription(args string) (appmodels.Subscription, error) {
	args = strings.TrimSpace(args)
	essential := strings.HasSuffix(args, essentialMarker)
	if essential {
		args = strings.TrimSuffix(args, essentialMarker)
	}

	amount, name, err := parseAmountAndName(args)
	if err != nil {
		return appmodels.Subscription{}, err
	}
	return appmodels.Subscription{
		Name:        name,
		Amount:      amount,
		IsEssential: essential,
	}, nil
}

// handleSubsCore lists subscriptions with their monthly total.
func (b *Bot) handleSubsCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	subs := b.engine.Subscriptions()
	if len(subs) == 0 {
		b.reply(ctx, tg, chatID, "📺 No subscriptions tracked. Add one with <code>/sub &lt;amount&gt; &lt;name&gt; [!]</code>")
		return
	}

	cfg := b.engine.Locale()
	total, essential := b.engine.MonthlySubscriptionCost()

	var sb strings.Builder
	sb.WriteString("📺 <b>Subscriptions</b>\n\n")
	for _, s := range subs {
		mark := ""
		if s.IsEssential {
			mark = " ⭐"
		}
		fmt.Fprintf(&sb, "<code>%s</code> %s - %s%s\n", shortID(s.ID), escapeHTML(s.Name), money(cfg, s.Amount), mark)
	}
	fmt.Fprintf(&sb, "\nMonthly: %s (%s essential)", money(cfg, total), money(cfg, essential))

	b.reply(ctx, tg, chatID, sb.String())
}

// handleSubCore tracks a new subscription.
func (b *Bot) handleSubCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	sub, err := parseSubscription(extractCommandArgs(update.Message.Text, "/sub"))
	if err != nil {
		b.reply(ctx, tg, chatID, "Usage: <code>/sub &lt;amount&gt; &lt;name&gt; [!]</code>\n\nEnd with ! to mark it essential.")
		return
	}

	sub = b.engine.AddSubscription(ctx, sub)
	b.reply(ctx, tg, chatID, fmt.Sprintf("✅ Tracking %s at %s/month <code>%s</code>",
		escapeHTML(sub.Name), money(b.engine.Locale(), sub.Amount), shortID(sub.ID)))
}

// handleUnsubCore removes a subscription by id prefix.
func (b *Bot) handleUnsubCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	subs := b.engine.Subscriptions()
	ids := make([]string, len(subs))
	for i, s := range subs {
		ids[i] = s.ID
	}

	id := resolveID(extractCommandArgs(update.Message.Text, "/unsub"), ids)
	if id == "" || !b.engine.DeleteSubscription(ctx, id) {
		b.reply(ctx, tg, chatID, "❌ Subscription not found. Use /subs to see ids.")
		return
	}

	b.reply(ctx, tg, chatID, "🗑️ Subscription removed.")
}

// handlePendingCore lists purchases awaiting a decision.
func (b *Bot) handlePendingCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	pending := b.engine.PendingPurchases()
	if len(pending) == 0 {
		b.reply(ctx, tg, chatID, "🛒 Nothing pending. Propose a purchase with <code>/plan &lt;amount&gt; &lt;name&gt;</code>")
		return
	}

	cfg := b.engine.Locale()
	now := b.engine.Now()

	var sb strings.Builder
	fmt.Fprintf(&sb, "🛒 <b>%s</b>\n\n", escapeHTML(cfg.Translations["confirmPurchase"]))
	for i := range pending {
		p := &pending[i]
		status := "ready"
		if remaining := p.CoolingOffRemaining(now); remaining > 0 {
			status = "cooling off " + remaining.Round(time.Minute).String()
		}
		fmt.Fprintf(&sb, "<code>%s</code> %s - %s (%s)\n", shortID(p.ID), escapeHTML(p.Name), money(cfg, p.Amount), status)
	}
	sb.WriteString("\n<code>/approve &lt;id&gt;</code> or <code>/reject &lt;id&gt;</code>")

	b.reply(ctx, tg, chatID, sb.String())
}

// handlePlanCore proposes a purchase for the cooling-off queue.
func (b *Bot) handlePlanCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	amount, name, err := parseAmountAndName(extractCommandArgs(update.Message.Text, "/plan"))
	if err != nil {
		b.reply(ctx, tg, chatID, "Usage: <code>/plan &lt;amount&gt; &lt;name&gt;</code>")
		return
	}

	p := b.engine.AddPendingPurchase(ctx, appmodels.PendingPurchase{Name: name, Amount: amount})
	b.reply(ctx, tg, chatID, fmt.Sprintf("🧊 %s (%s) is cooling off for %s. <code>%s</code>",
		escapeHTML(p.Name), money(b.engine.Locale(), p.Amount), appmodels.CoolingOffPeriod, shortID(p.ID)))
}

func (b *Bot) pendingIDs() []string {
	pending := b.engine.PendingPurchases()
	ids := make([]string, len(pending))
	for i, p := range pending {
		ids[i] = p.ID
	}
	return ids
}

// handleApproveCore records a pending purchase as an expense.
func (b *Bot) handleApproveCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	id := resolveID(extractCommandArgs(update.Message.Text, "/approve"), b.pendingIDs())
	if id == "" {
		b.reply(ctx, tg, chatID, "❌ Purchase not found. Use /pending to see ids.")
		return
	}

	exp, ok := b.engine.ApprovePendingPurchase(ctx, id)
	if !ok {
		b.reply(ctx, tg, chatID, "❌ Purchase not found. Use /pending to see ids.")
		return
	}

	cfg := b.engine.Locale()
	b.reply(ctx, tg, chatID, fmt.Sprintf("✅ Approved %s (%s). Added to %s.",
		escapeHTML(exp.Description), money(cfg, exp.Amount), escapeHTML(exp.Category))+b.limitWarning(cfg))
}

// handleRejectCore drops a pending purchase.
func (b *Bot) handleRejectCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	id := resolveID(extractCommandArgs(update.Message.Text, "/reject"), b.pendingIDs())
	if id == "" || !b.engine.DeletePendingPurchase(ctx, id) {
		b.reply(ctx, tg, chatID, "❌ Purchase not found. Use /pending to see ids.")
		return
	}

	b.reply(ctx, tg, chatID, "🙅 Purchase rejected. Money saved!")
}
