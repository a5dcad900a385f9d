package mocks

import (
	"github.com/go-telegram/bot/models"
)

// UpdateOption customizes the message built by NewUpdate.
type UpdateOption func(*models.Message)

// NewUpdate returns a private-chat message update from userID with text.
// The sender is "testuser" unless WithSender says otherwise.
func NewUpdate(chatID, userID int64, text string, opts ...UpdateOption) *models.Update {
	msg := &models.Message{
		ID:   1,
		Chat: models.Chat{ID: chatID, Type: models.ChatTypePrivate},
		From: &models.User{ID: userID, FirstName: "Test", LastName: "User", Username: "testuser"},
		Text: text,
	}
	for _, opt := range opts {
		opt(msg)
	}
	return &models.Update{Message: msg}
}

// WithSender replaces the sender's username and first name.
func WithSender(username, firstName string) UpdateOption {
	return func(m *models.Message) {
		m.From.Username = username
		m.From.FirstName = firstName
	}
}

// WithReceipt attaches a receipt photo in two sizes. The larger one carries
// fileID, matching how Telegram orders PhotoSize entries.
func WithReceipt(fileID string) UpdateOption {
	return func(m *models.Message) {
		m.Photo = []models.PhotoSize{
			{FileID: fileID + "_thumb", FileUniqueID: fileID + "_thumb_unique", Width: 320, Height: 240},
			{FileID: fileID, FileUniqueID: fileID + "_unique", Width: 1280, Height: 960},
		}
	}
}

// WithVoiceNote attaches an OGG voice note of the given length in seconds.
func WithVoiceNote(fileID string, seconds int) UpdateOption {
	return func(m *models.Message) {
		m.Voice = &models.Voice{
			FileID:       fileID,
			FileUniqueID: fileID + "_unique",
			Duration:     seconds,
			MimeType:     "audio/ogg",
		}
	}
}

// CommandUpdate creates a text or command message update.
func CommandUpdate(chatID, userID int64, text string) *models.Update {
	return NewUpdate(chatID, userID, text)
}

// UsernameUpdate creates a message update from a user with the given handle.
func UsernameUpdate(chatID, userID int64, username, text string) *models.Update {
	return NewUpdate(chatID, userID, text, WithSender(username, "Test"))
}

// PhotoUpdate creates a receipt photo update.
func PhotoUpdate(chatID, userID int64, fileID string) *models.Update {
	return NewUpdate(chatID, userID, "", WithReceipt(fileID))
}

// VoiceUpdate creates a voice note update.
func VoiceUpdate(chatID, userID int64, fileID string, seconds int) *models.Update {
	return NewUpdate(chatID, userID, "", WithVoiceNote(fileID, seconds))
}
