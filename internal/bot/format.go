package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/spendwise/internal/logger"
	appmodels "gitlab.com/yelinaung/spendwise/internal/models"
)

// shortIDLength is how many leading characters of an id are shown to users.
const shortIDLength = 8

// usageHint is appended to recognizer failures.
const usageHint = "Please add manually: <code>/add &lt;amount&gt; &lt;description&gt;</code>"

// extractCommandArgs strips the /command prefix (and optional @botname suffix)
// from a message and returns the remaining trimmed arguments.
func extractCommandArgs(text, command string) string {
	args := strings.TrimSpace(strings.TrimPrefix(text, command))
	if strings.HasPrefix(args, "@") {
		if spaceIdx := strings.Index(args, " "); spaceIdx != -1 {
			args = strings.TrimSpace(args[spaceIdx:])
		} else {
			args = ""
		}
	}
	return args
}

// escapeHTML escapes HTML special characters for safe interpolation in Telegram HTML messages.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// shortID returns the prefix of id shown in listings.
func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

// resolveID returns the single id starting with prefix. An exact match wins
// over prefix matches; an ambiguous or unknown prefix yields "".
func resolveID(prefix string, ids []string) string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return ""
	}

	var found string
	for _, id := range ids {
		lower := strings.ToLower(id)
		if lower == prefix {
			return id
		}
		if strings.HasPrefix(lower, prefix) {
			if found != "" {
				return ""
			}
			found = id
		}
	}
	return found
}

// money formats an amount with the user's currency symbol. Yen has no
// minor unit.
func money(cfg appmodels.CountryConfig, amount decimal.Decimal) string {
	places := int32(2)
	if cfg.Currency == "JPY" {
		places = 0
	}
	return cfg.Symbol + amount.StringFixed(places)
}

// parseAmount parses a positive decimal, accepting a comma as the decimal
// separator.
func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be positive: %s", amount)
	}
	return amount, nil
}

// reply sends an HTML message and logs delivery failures.
func (b *Bot) reply(ctx context.Context, tg TelegramAPI, chatID int64, text string) {
	_, err := tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		logger.Log.Error().Err(err).
			Str("chat_hash", logger.HashChatID(chatID)).
			Msg("Failed to send message")
	}
}

// notifyLatest forwards the newest engine notification, if any.
func (b *Bot) notifyLatest(ctx context.Context, tg TelegramAPI, chatID int64) {
	if notes := b.engine.Notifications(); len(notes) > 0 {
		b.reply(ctx, tg, chatID, "🔔 "+escapeHTML(notes[0]))
	}
}
