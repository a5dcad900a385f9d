package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/spendwise/internal/engine"
	"gitlab.com/yelinaung/spendwise/internal/gemini"
	"gitlab.com/yelinaung/spendwise/internal/logger"
	appmodels "gitlab.com/yelinaung/spendwise/internal/models"
)

// handlePhotoCore reads a receipt photo and records every item as one batch.
func (b *Bot) handlePhotoCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil || len(update.Message.Photo) == 0 {
		return
	}
	chatID := update.Message.Chat.ID

	if b.geminiClient == nil {
		b.reply(ctx, tg, chatID, "📷 Receipt scanning is not configured. "+usageHint)
		return
	}

	largestPhoto := update.Message.Photo[len(update.Message.Photo)-1]

	logger.Log.Debug().
		Str("chat_hash", logger.HashChatID(chatID)).
		Int("width", largestPhoto.Width).
		Int("height", largestPhoto.Height).
		Msg("Downloading photo")

	b.reply(ctx, tg, chatID, "📷 Processing receipt...")

	imageBytes, err := b.downloadFile(ctx, tg, largestPhoto.FileID)
	if err != nil {
		logger.Log.Error().Err(err).Str("chat_hash", logger.HashChatID(chatID)).Msg("Failed to download photo")
		b.reply(ctx, tg, chatID, "❌ Failed to download photo. Please try again.")
		return
	}

	candidates, err := b.geminiClient.ParseReceipt(ctx, imageBytes, "image/jpeg")
	if err != nil {
		logger.Log.Error().Err(err).Str("chat_hash", logger.HashChatID(chatID)).Msg("Failed to parse receipt")
		if errors.Is(err, gemini.ErrParseTimeout) {
			b.reply(ctx, tg, chatID, "⏱️ Receipt processing timed out. "+usageHint)
			return
		}
		b.reply(ctx, tg, chatID, "❌ Could not read this receipt. "+usageHint)
		return
	}

	created := b.engine.AppendBatch(ctx, candidates)
	b.reply(ctx, tg, chatID, buildReceiptSummary(b.engine.Locale(), created)+b.limitWarning(b.engine.Locale()))
}

func buildReceiptSummary(cfg appmodels.CountryConfig, created []appmodels.Expense) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📸 <b>Receipt Scanned!</b> %d items\n\n", len(created))

	total := decimal.Zero
	for _, exp := range created {
		fmt.Fprintf(&sb, "• %s - %s [%s]\n", money(cfg, exp.Amount), escapeHTML(exp.Description), escapeHTML(exp.Category))
		total = total.Add(exp.Amount)
	}
	fmt.Fprintf(&sb, "\n💰 Total: <b>%s</b>\n🏅 +%d XP", money(cfg, total), engine.PointsPerBatch)
	return sb.String()
}
