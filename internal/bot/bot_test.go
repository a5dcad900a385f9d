package bot

import (
	"context"
	"testing"

	tgmodels "github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/require"
	"gitlab.com/yelinaung/spendwise/internal/bot/mocks"
)

func TestExtractUserID(t *testing.T) {
	t.Parallel()

	t.Run("extracts from message", func(t *testing.T) {
		t.Parallel()
		update := &tgmodels.Update{
			Message: &tgmodels.Message{
				From: &tgmodels.User{ID: 12345},
			},
		}
		require.Equal(t, int64(12345), extractUserID(update))
	})

	t.Run("returns zero for empty update", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, int64(0), extractUserID(&tgmodels.Update{}))
	})

	t.Run("returns zero for message without from", func(t *testing.T) {
		t.Parallel()
		update := &tgmodels.Update{
			Message: &tgmodels.Message{From: nil},
		}
		require.Equal(t, int64(0), extractUserID(update))
	})
}

func TestExtractUsername(t *testing.T) {
	t.Parallel()

	require.Equal(t, "alice", extractUsername(mocks.UsernameUpdate(1, 2, "alice", "hi")))
	require.Empty(t, extractUsername(&tgmodels.Update{}))
}

func TestCommandName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{"/start", "start"},
		{"/add 5 Coffee", "add"},
		{"/sub@spendwise_bot 199 Netflix", "sub"},
		{"/SUBS", "subs"},
		{"/help\nmore", "help"},
		{"5.50 Coffee", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, commandName(tt.text))
		})
	}
}

func TestMatchCommand(t *testing.T) {
	t.Parallel()

	sub := matchCommand("sub")
	require.True(t, sub(command("/sub 199 Netflix")))
	require.False(t, sub(command("/subs")), "prefix of another command must not match")
	require.False(t, sub(&tgmodels.Update{}))

	subs := matchCommand("subs")
	require.True(t, subs(command("/subs")))
	require.False(t, subs(command("/sub 1 x")))
}

func TestCommands_AllRegistered(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t)
	cmds := tb.commands()
	for _, name := range []string{
		"start", "help", "add", "list", "export", "stats", "skip", "goal",
		"rewards", "redeem", "bonus", "subs", "sub", "unsub", "pending",
		"plan", "approve", "reject", "inbox", "clear", "income", "limit", "reset",
	} {
		require.Contains(t, cmds, name)
		require.NotNil(t, cmds[name])
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("whitelisted id passes silently", func(t *testing.T) {
		t.Parallel()
		tb := newTestBot(t)
		require.True(t, tb.authorize(ctx, tb.tg, command("/help")))
		require.Equal(t, 0, tb.tg.SentMessageCount())
	})

	t.Run("whitelisted username passes", func(t *testing.T) {
		t.Parallel()
		tb := newTestBot(t)
		require.True(t, tb.authorize(ctx, tb.tg, mocks.UsernameUpdate(testChatID, 999, "Alice", "/help")))
	})

	t.Run("stranger is told off", func(t *testing.T) {
		t.Parallel()
		tb := newTestBot(t)
		require.False(t, tb.authorize(ctx, tb.tg, mocks.UsernameUpdate(testChatID, 999, "mallory", "/help")))
		require.Contains(t, tb.lastText(t), "not authorized")
	})

	t.Run("update without user is dropped", func(t *testing.T) {
		t.Parallel()
		tb := newTestBot(t)
		require.False(t, tb.authorize(ctx, tb.tg, &tgmodels.Update{}))
		require.Equal(t, 0, tb.tg.SentMessageCount())
	})
}

func TestDefaultHandlerCore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("nil message returns early", func(t *testing.T) {
		t.Parallel()
		tb := newTestBot(t)
		tb.defaultHandlerCore(ctx, tb.tg, &tgmodels.Update{})
		require.Equal(t, 0, tb.tg.SentMessageCount())
	})

	t.Run("free text expense is recorded", func(t *testing.T) {
		t.Parallel()
		tb := newTestBot(t)
		tb.defaultHandlerCore(ctx, tb.tg, command("5.50 Coffee"))
		require.Len(t, tb.engine.Expenses(), 1)
		require.Contains(t, tb.lastText(t), "Expense Added")
	})

	t.Run("unknown text gets a hint", func(t *testing.T) {
		t.Parallel()
		tb := newTestBot(t)
		tb.defaultHandlerCore(ctx, tb.tg, command("hello there"))
		require.Empty(t, tb.engine.Expenses())
		require.Contains(t, tb.lastText(t), "didn't understand")
	})

	t.Run("unknown command gets a hint", func(t *testing.T) {
		t.Parallel()
		tb := newTestBot(t)
		tb.defaultHandlerCore(ctx, tb.tg, command("/frobnicate 5"))
		require.Empty(t, tb.engine.Expenses())
		require.Contains(t, tb.lastText(t), "didn't understand")
	})

	t.Run("photo without recognizer", func(t *testing.T) {
		t.Parallel()
		tb := newTestBot(t)
		tb.defaultHandlerCore(ctx, tb.tg, mocks.PhotoUpdate(testChatID, testUserID, "photo-1"))
		require.Contains(t, tb.lastText(t), "Receipt scanning is not configured")
	})

	t.Run("voice without recognizer", func(t *testing.T) {
		t.Parallel()
		tb := newTestBot(t)
		tb.defaultHandlerCore(ctx, tb.tg, mocks.VoiceUpdate(testChatID, testUserID, "voice-1", 3))
		require.Contains(t, tb.lastText(t), "Voice input is not configured")
	})
}
