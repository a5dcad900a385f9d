package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot/models"
	"gitlab.com/yelinaung/spendwise/internal/engine"
	"gitlab.com/yelinaung/spendwise/internal/gemini"
	"gitlab.com/yelinaung/spendwise/internal/logger"
	appmodels "gitlab.com/yelinaung/spendwise/internal/models"
)

// handleVoiceCore turns a spoken expense into a ledger entry.
func (b *Bot) handleVoiceCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil || update.Message.Voice == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if b.geminiClient == nil {
		b.reply(ctx, tg, chatID, "🎙️ Voice input is not configured. "+usageHint)
		return
	}

	b.reply(ctx, tg, chatID, "🎙️ Processing voice message...")

	audioBytes, err := b.downloadFile(ctx, tg, update.Message.Voice.FileID)
	if err != nil {
		logger.Log.Error().Err(err).Str("chat_hash", logger.HashChatID(chatID)).Msg("Failed to download voice file")
		b.reply(ctx, tg, chatID, "❌ Failed to download voice message. Please try again.")
		return
	}

	candidate, err := b.geminiClient.ParseVoiceExpense(ctx, audioBytes, update.Message.Voice.MimeType, appmodels.Categories)
	if err != nil {
		logger.Log.Error().Err(err).Str("chat_hash", logger.HashChatID(chatID)).Msg("Failed to parse voice expense")
		b.reply(ctx, tg, chatID, voiceParseErrorText(err))
		return
	}

	exp := b.engine.Append(ctx, candidate)
	cfg := b.engine.Locale()

	warning := ""
	if candidate.Amount == nil {
		warning = "\n\n⚠️ I couldn't hear an amount, so it was saved as " + money(cfg, exp.Amount) + "."
	}

	b.reply(ctx, tg, chatID, fmt.Sprintf(`🎙️ <b>%s</b>

💰 %s
📝 %s
📁 %s
🏅 +%d XP`,
		escapeHTML(cfg.Translations["voiceLog"]),
		money(cfg, exp.Amount),
		escapeHTML(exp.Description),
		escapeHTML(exp.Category),
		engine.PointsPerExpense)+warning+b.limitWarning(cfg))
}

func voiceParseErrorText(err error) string {
	switch {
	case errors.Is(err, gemini.ErrVoiceParseTimeout):
		return "⏱️ Voice processing timed out. " + usageHint
	case errors.Is(err, gemini.ErrNoVoiceData):
		return "❌ Could not extract an expense from your voice message. " + usageHint
	default:
		return "❌ Failed to process voice message. " + usageHint
	}
}
