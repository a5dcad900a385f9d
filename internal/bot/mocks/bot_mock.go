// Package mocks provides mock implementations for testing bot handlers.
package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// TelegramAPI defines the Telegram operations the handlers use.
// It lives here to avoid an import cycle between bot and mocks.
type TelegramAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
}

// SentMessage is a reply captured by MockBot.
type SentMessage struct {
	ChatID    int64
	Text      string
	ParseMode models.ParseMode
}

// SentDocument is an upload captured by MockBot, with its content read.
type SentDocument struct {
	ChatID   int64
	Filename string
	Caption  string
	Data     []byte
}

var _ TelegramAPI = (*MockBot)(nil)

// MockBot records replies and uploads and serves a configurable file link.
// Chat ids other than int64 are recorded as 0.
type MockBot struct {
	mu sync.Mutex

	messages  []SentMessage
	documents []SentDocument
	nextID    int

	SendMessageError  error
	GetFileError      error
	SendDocumentError error

	// FileDownloadLinkToReturn overrides the default download URL.
	FileDownloadLinkToReturn string
}

// NewMockBot creates a MockBot whose message ids start at 1000.
func NewMockBot() *MockBot {
	return &MockBot{nextID: 1000}
}

func (m *MockBot) nextMessage(chatID any) models.Message {
	id, _ := chatID.(int64)
	msg := models.Message{ID: m.nextID, Chat: models.Chat{ID: id}}
	m.nextID++
	return msg
}

// SendMessage records a reply.
func (m *MockBot) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendMessageError != nil {
		return nil, m.SendMessageError
	}

	msg := m.nextMessage(params.ChatID)
	msg.Text = params.Text
	m.messages = append(m.messages, SentMessage{ChatID: msg.Chat.ID, Text: params.Text, ParseMode: params.ParseMode})
	return &msg, nil
}

// GetFile returns a fixed file descriptor.
func (m *MockBot) GetFile(_ context.Context, params *bot.GetFileParams) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetFileError != nil {
		return nil, m.GetFileError
	}

	file := &models.File{FileID: "test-file-id", FilePath: "files/test.bin"}
	if params != nil && params.FileID != "" {
		file.FileID = params.FileID
	}
	return file, nil
}

// FileDownloadLink returns FileDownloadLinkToReturn or a placeholder URL.
func (m *MockBot) FileDownloadLink(f *models.File) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FileDownloadLinkToReturn != "" {
		return m.FileDownloadLinkToReturn
	}
	path := "files/test.bin"
	if f != nil && f.FilePath != "" {
		path = f.FilePath
	}
	return "https://api.telegram.org/file/bot123/" + path
}

// SendDocument records an upload, reading InputFileUpload content.
func (m *MockBot) SendDocument(_ context.Context, params *bot.SendDocumentParams) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendDocumentError != nil {
		return nil, m.SendDocumentError
	}

	msg := m.nextMessage(params.ChatID)
	doc := SentDocument{ChatID: msg.Chat.ID, Caption: params.Caption}
	if upload, ok := params.Document.(*models.InputFileUpload); ok {
		doc.Filename = upload.Filename
		if upload.Data != nil {
			doc.Data, _ = io.ReadAll(upload.Data)
		}
	}
	m.documents = append(m.documents, doc)

	msg.Caption = params.Caption
	msg.Document = &models.Document{FileID: "mock_file_id", FileName: doc.Filename}
	return &msg, nil
}

// Reset forgets recorded messages and documents and clears injected errors.
func (m *MockBot) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = nil
	m.documents = nil
	m.SendMessageError = nil
	m.GetFileError = nil
	m.SendDocumentError = nil
}

// LastSentMessage returns the latest reply, or nil.
func (m *MockBot) LastSentMessage() *SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.messages) == 0 {
		return nil
	}
	last := m.messages[len(m.messages)-1]
	return &last
}

// SentMessageCount returns the number of replies.
func (m *MockBot) SentMessageCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// LastSentDocument returns the latest upload, or nil.
func (m *MockBot) LastSentDocument() *SentDocument {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.documents) == 0 {
		return nil
	}
	last := m.documents[len(m.documents)-1]
	return &last
}

// SentDocumentCount returns the number of uploads.
func (m *MockBot) SentDocumentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.documents)
}
