// Package bot provides the Telegram chat surface for the finance engine.
package bot

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"gitlab.com/yelinaung/spendwise/internal/config"
	"gitlab.com/yelinaung/spendwise/internal/engine"
	"gitlab.com/yelinaung/spendwise/internal/gemini"
	"gitlab.com/yelinaung/spendwise/internal/logger"
)

// downloadTimeout bounds fetching a photo or voice file from Telegram.
const downloadTimeout = 30 * time.Second

// coreHandler is the testable form of a Telegram handler.
type coreHandler func(ctx context.Context, tg TelegramAPI, update *models.Update)

// Bot wraps the Telegram bot with application dependencies.
type Bot struct {
	bot          *bot.Bot
	cfg          *config.Config
	engine       *engine.Engine
	geminiClient *gemini.Client
	httpClient   *http.Client
}

// New creates a new Bot instance. geminiClient may be nil, in which case
// photo and voice input are answered with a hint to log manually.
func New(cfg *config.Config, eng *engine.Engine, geminiClient *gemini.Client) (*Bot, error) {
	b := newBot(cfg, eng, geminiClient)

	opts := []bot.Option{
		bot.WithMiddlewares(b.whitelistMiddleware),
		bot.WithDefaultHandler(b.defaultHandler),
	}

	telegramBot, err := bot.New(cfg.TelegramBotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b.bot = telegramBot
	b.registerHandlers()

	return b, nil
}

func newBot(cfg *config.Config, eng *engine.Engine, geminiClient *gemini.Client) *Bot {
	return &Bot{
		cfg:          cfg,
		engine:       eng,
		geminiClient: geminiClient,
		httpClient:   &http.Client{Timeout: downloadTimeout},
	}
}

// Start begins polling for updates. It blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	logger.Log.Info().Msg("Bot started polling")
	b.bot.Start(ctx)
}

// commands maps command names, without the leading slash, to handlers.
func (b *Bot) commands() map[string]coreHandler {
	return map[string]coreHandler{
		"start":   b.handleStartCore,
		"help":    b.handleHelpCore,
		"add":     b.handleAddCore,
		"list":    b.handleListCore,
		"export":  b.handleExportCore,
		"stats":   b.handleStatsCore,
		"skip":    b.handleSkipCore,
		"goal":    b.handleGoalCore,
		"rewards": b.handleRewardsCore,
		"redeem":  b.handleRedeemCore,
		"bonus":   b.handleBonusCore,
		"subs":    b.handleSubsCore,
		"sub":     b.handleSubCore,
		"unsub":   b.handleUnsubCore,
		"pending": b.handlePendingCore,
		"plan":    b.handlePlanCore,
		"approve": b.handleApproveCore,
		"reject":  b.handleRejectCore,
		"inbox":   b.handleInboxCore,
		"clear":   b.handleClearCore,
		"income":  b.handleIncomeCore,
		"limit":   b.handleLimitCore,
		"reset":   b.handleResetCore,
	}
}

// registerHandlers sets up command handlers.
func (b *Bot) registerHandlers() {
	for name, h := range b.commands() {
		b.bot.RegisterHandlerMatchFunc(matchCommand(name), adapt(h))
	}
}

// adapt converts a core handler into a go-telegram handler.
func adapt(h coreHandler) bot.HandlerFunc {
	return func(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
		h(ctx, tgBot, update)
	}
}

// matchCommand matches messages whose first word is exactly /name,
// optionally addressed as /name@botname.
func matchCommand(name string) bot.MatchFunc {
	return func(update *models.Update) bool {
		return update.Message != nil && commandName(update.Message.Text) == name
	}
}

// commandName returns the lowercased command of a message, or "" when the
// text is not a command.
func commandName(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	word, _, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
	word, _, _ = strings.Cut(word, "\n")
	word, _, _ = strings.Cut(word, "@")
	return strings.ToLower(word)
}

// whitelistMiddleware checks if the user is whitelisted before processing.
func (b *Bot) whitelistMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
		if !b.authorize(ctx, tgBot, update) {
			return
		}
		next(ctx, tgBot, update)
	}
}

// authorize reports whether the update comes from a whitelisted user and
// tells everyone else they are not allowed in.
func (b *Bot) authorize(ctx context.Context, tg TelegramAPI, update *models.Update) bool {
	userID := extractUserID(update)
	if userID == 0 {
		return false
	}

	username := extractUsername(update)
	logUserAction(userID, update)

	if !b.cfg.IsUserWhitelisted(userID, username) {
		logger.Log.Warn().
			Str("user_hash", logger.HashUserID(userID)).
			Msg("Blocked non-whitelisted user")
		if update.Message != nil {
			_, _ = tg.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: update.Message.Chat.ID,
				Text:   "⛔ Sorry, you are not authorized to use this bot.",
			})
		}
		return false
	}

	return true
}

// logUserAction logs the kind of input received without its content.
func logUserAction(userID int64, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	event := logger.Log.Info().
		Str("user_hash", logger.HashUserID(userID)).
		Str("chat_hash", logger.HashChatID(msg.Chat.ID))

	switch {
	case len(msg.Photo) > 0:
		event = event.Str("type", "photo")
	case msg.Voice != nil:
		event = event.Str("type", "voice").Int("duration", msg.Voice.Duration)
	case commandName(msg.Text) != "":
		event = event.Str("type", "command").Str("command", commandName(msg.Text))
	default:
		event = event.Str("type", "text").Int("length", len(msg.Text))
	}

	event.Msg("User input")
}

// extractUsername gets the username from the update.
func extractUsername(update *models.Update) string {
	if update.Message != nil && update.Message.From != nil {
		return update.Message.From.Username
	}
	return ""
}

// extractUserID gets the user ID from the update.
func extractUserID(update *models.Update) int64 {
	if update.Message != nil && update.Message.From != nil {
		return update.Message.From.ID
	}
	return 0
}

// defaultHandler handles photos, voice notes and free text.
func (b *Bot) defaultHandler(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.defaultHandlerCore(ctx, tgBot, update)
}

// defaultHandlerCore is the testable implementation of defaultHandler.
func (b *Bot) defaultHandlerCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	switch {
	case len(update.Message.Photo) > 0:
		b.handlePhotoCore(ctx, tg, update)
		return
	case update.Message.Voice != nil:
		b.handleVoiceCore(ctx, tg, update)
		return
	}

	if b.handleFreeTextExpenseCore(ctx, tg, update) {
		return
	}

	b.reply(ctx, tg, update.Message.Chat.ID,
		"I didn't understand that. Use /help to see available commands, or send an expense like <code>5.50 Coffee</code>")
}
