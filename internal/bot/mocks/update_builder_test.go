package mocks

import (
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/require"
)

func TestNewUpdate(t *testing.T) {
	t.Parallel()

	update := NewUpdate(12345, 67890, "/skip")

	require.NotNil(t, update.Message)
	require.Equal(t, int64(12345), update.Message.Chat.ID)
	require.Equal(t, models.ChatTypePrivate, update.Message.Chat.Type)
	require.Equal(t, int64(67890), update.Message.From.ID)
	require.Equal(t, "testuser", update.Message.From.Username)
	require.Equal(t, "/skip", update.Message.Text)
	require.Empty(t, update.Message.Photo)
	require.Nil(t, update.Message.Voice)
}

func TestUpdateOptions(t *testing.T) {
	t.Parallel()

	t.Run("sender", func(t *testing.T) {
		t.Parallel()
		update := NewUpdate(1, 2, "hi", WithSender("priya", "Priya"))
		require.Equal(t, "priya", update.Message.From.Username)
		require.Equal(t, "Priya", update.Message.From.FirstName)
		require.Equal(t, int64(2), update.Message.From.ID)
	})

	t.Run("receipt puts the largest size last", func(t *testing.T) {
		t.Parallel()
		update := NewUpdate(1, 2, "", WithReceipt("rcpt"))
		require.Len(t, update.Message.Photo, 2)
		largest := update.Message.Photo[len(update.Message.Photo)-1]
		require.Equal(t, "rcpt", largest.FileID)
		require.Greater(t, largest.Width, update.Message.Photo[0].Width)
	})

	t.Run("voice note", func(t *testing.T) {
		t.Parallel()
		update := NewUpdate(1, 2, "", WithVoiceNote("v1", 7))
		require.Equal(t, "v1", update.Message.Voice.FileID)
		require.Equal(t, 7, update.Message.Voice.Duration)
		require.Equal(t, "audio/ogg", update.Message.Voice.MimeType)
	})
}

func TestShortcuts(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/list", CommandUpdate(1, 2, "/list").Message.Text)
	require.Equal(t, "alice", UsernameUpdate(1, 2, "alice", "/help").Message.From.Username)
	require.Equal(t, "p1", PhotoUpdate(1, 2, "p1").Message.Photo[1].FileID)
	require.Equal(t, "v1", VoiceUpdate(1, 2, "v1", 3).Message.Voice.FileID)
}
