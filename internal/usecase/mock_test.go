//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"telegram-relay-bot/internal/domain/ports/adapter"
	"telegram-relay-bot/internal/infra/i18n"
)

// SentItem captures one outbound transport call.
type SentItem struct {
	Method      string // text | photo | copy | prompt
	ChatID      int64
	Text        string // text body or caption
	FileID      string
	FromChatID  int64
	MessageID   int
	Rows        [][]adapter.InlineButton
	Placeholder string
}

// MockTransport records every call. ErrFunc, when set, decides the result.
type MockTransport struct {
	mu   sync.Mutex
	Sent []SentItem

	ErrFunc func(item SentItem) error
}

var _ adapter.Transport = (*MockTransport)(nil)

func (m *MockTransport) record(item SentItem) error {
	if m.ErrFunc != nil {
		if err := m.ErrFunc(item); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, item)
	return nil
}

func (m *MockTransport) SendText(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	return m.record(SentItem{Method: "text", ChatID: chatID, Text: text, Rows: rows})
}

func (m *MockTransport) SendPhoto(ctx context.Context, chatID int64, fileID, caption string, rows [][]adapter.InlineButton) error {
	return m.record(SentItem{Method: "photo", ChatID: chatID, FileID: fileID, Text: caption, Rows: rows})
}

func (m *MockTransport) CopyMessage(ctx context.Context, chatID, fromChatID int64, messageID int, caption string, rows [][]adapter.InlineButton) error {
	return m.record(SentItem{Method: "copy", ChatID: chatID, FromChatID: fromChatID, MessageID: messageID, Text: caption, Rows: rows})
}

func (m *MockTransport) SendReplyPrompt(ctx context.Context, chatID int64, text, placeholder string) error {
	return m.record(SentItem{Method: "prompt", ChatID: chatID, Text: text, Placeholder: placeholder})
}

// SentTo returns the calls addressed to chatID.
func (m *MockTransport) SentTo(chatID int64) []SentItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SentItem
	for _, s := range m.Sent {
		if s.ChatID == chatID {
			out = append(out, s)
		}
	}
	return out
}

// MockLimiter implements usecase.SenderLimiter.
type MockLimiter struct {
	AllowFunc func(ctx context.Context, senderID int64) (bool, error)
	Calls     int
}

func (m *MockLimiter) AllowSender(ctx context.Context, senderID int64) (bool, error) {
	m.Calls++
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, senderID)
	}
	return true, nil
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func newTestTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		t.Fatalf("failed to load translator: %v", err)
	}
	return tr
}
