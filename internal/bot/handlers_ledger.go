package bot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"gitlab.com/yelinaung/spendwise/internal/engine"
	"gitlab.com/yelinaung/spendwise/internal/logger"
	appmodels "gitlab.com/yelinaung/spendwise/internal/models"
)

// listLimit is how many expenses /list shows.
const listLimit = 15

// handleAddCore records an expense from /add.
func (b *Bot) handleAddCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	parsed := ParseAddCommandWithCategories(update.Message.Text, appmodels.Categories)
	if parsed == nil {
		b.reply(ctx, tg, chatID, fmt.Sprintf(`❌ Invalid format. Use: <code>/add &lt;amount&gt; &lt;description&gt; [category]</code>

Categories: %s`, strings.Join(appmodels.Categories, ", ")))
		return
	}

	b.recordExpense(ctx, tg, chatID, parsed)
}

// handleFreeTextExpenseCore records messages like "5.50 Coffee". It reports
// whether the text was taken as an expense.
func (b *Bot) handleFreeTextExpenseCore(ctx context.Context, tg TelegramAPI, update *models.Update) bool {
	if update.Message == nil || update.Message.Text == "" || strings.HasPrefix(update.Message.Text, "/") {
		return false
	}

	parsed := ParseExpenseInputWithCategories(update.Message.Text, appmodels.Categories)
	if parsed == nil {
		return false
	}

	b.recordExpense(ctx, tg, update.Message.Chat.ID, parsed)
	return true
}

// minSuggestionConfidence is the lowest confidence at which an AI category
// suggestion replaces the default category.
const minSuggestionConfidence = 0.5

func (b *Bot) recordExpense(ctx context.Context, tg TelegramAPI, chatID int64, parsed *ParsedExpense) {
	if parsed.CategoryName == "" {
		parsed.CategoryName = b.suggestCategory(ctx, parsed.Description)
	}

	exp := b.engine.Append(ctx, parsed.Candidate())

	logger.Log.Info().
		Str("chat_hash", logger.HashChatID(chatID)).
		Str("expense_id", exp.ID).
		Msg("Expense added via chat")

	cfg := b.engine.Locale()
	text := fmt.Sprintf(`✅ <b>Expense Added</b>

💰 %s
📝 %s
📁 %s
🏅 +%d XP`,
		money(cfg, exp.Amount),
		escapeHTML(exp.Description),
		escapeHTML(exp.Category),
		engine.PointsPerExpense)

	b.reply(ctx, tg, chatID, text+b.limitWarning(cfg))
}

// suggestCategory asks Gemini for a category when none was given. It returns
// "" when the client is missing, the call fails, or confidence is low.
func (b *Bot) suggestCategory(ctx context.Context, description string) string {
	if b.geminiClient == nil || description == "" {
		return ""
	}

	suggestion, err := b.geminiClient.SuggestCategory(ctx, description, appmodels.Categories)
	if err != nil {
		logger.Log.Debug().Err(err).
			Str("description", logger.SanitizeDescription(description)).
			Msg("Failed to get AI category suggestion")
		return ""
	}
	if suggestion == nil || suggestion.Confidence <= minSuggestionConfidence {
		return ""
	}

	logger.Log.Info().
		Str("description", logger.SanitizeDescription(description)).
		Str("suggested_category", suggestion.Category).
		Float64("confidence", suggestion.Confidence).
		Msg("AI category suggestion applied")
	return suggestion.Category
}

// limitWarning returns a note when weekly spending is over the limit.
func (b *Bot) limitWarning(cfg appmodels.CountryConfig) string {
	sum := b.engine.Summary()
	if !sum.WeeklyLimit.IsPositive() || sum.WeekSpent.LessThanOrEqual(sum.WeeklyLimit) {
		return ""
	}
	return fmt.Sprintf("\n\n⚠️ Over your weekly limit: %s / %s",
		money(cfg, sum.WeekSpent), money(cfg, sum.WeeklyLimit))
}

// handleListCore shows the most recent expenses.
func (b *Bot) handleListCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	expenses := b.engine.Expenses()
	if len(expenses) == 0 {
		b.reply(ctx, tg, chatID, "📋 No expenses yet. Send something like <code>5.50 Coffee</code> to start.")
		return
	}

	cfg := b.engine.Locale()
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 <b>%s</b> (%d)\n\n", escapeHTML(cfg.Translations["ledger"]), len(expenses))
	for i, exp := range expenses {
		if i == listLimit {
			fmt.Fprintf(&sb, "\n…and %d more. Use /export for everything.", len(expenses)-listLimit)
			break
		}
		fmt.Fprintf(&sb, "<code>%s</code> %s %s - %s [%s]\n",
			shortID(exp.ID),
			exp.Date.In(b.engine.Location()).Format("02 Jan"),
			money(cfg, exp.Amount),
			escapeHTML(exp.Description),
			escapeHTML(exp.Category))
	}

	b.reply(ctx, tg, chatID, sb.String())
}

// handleExportCore sends the ledger as a CSV document.
func (b *Bot) handleExportCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	expenses := b.engine.Expenses()
	if len(expenses) == 0 {
		b.reply(ctx, tg, chatID, "📋 No expenses to export.")
		return
	}

	data, err := GenerateExpensesCSV(expenses, b.engine.Location())
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to generate CSV")
		b.reply(ctx, tg, chatID, "❌ Failed to generate export. Please try again.")
		return
	}

	_, err = tg.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:    chatID,
		Document:  &models.InputFileUpload{Filename: exportFilename(b.engine.Now()), Data: bytes.NewReader(data)},
		Caption:   fmt.Sprintf("📄 %d expenses", len(expenses)),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to send export document")
		b.reply(ctx, tg, chatID, "❌ Failed to send export. Please try again.")
		return
	}

	logger.Log.Info().Int("count", len(expenses)).Msg("Expenses exported")
}
