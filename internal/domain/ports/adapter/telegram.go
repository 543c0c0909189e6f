// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

type InlineButton struct {
	Text string
	Data string
	URL  string
}

// Transport is the outbound side of the messaging platform. Implementations
// wrap failures with domain.ErrRecipientUnreachable or domain.ErrTransport.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string, rows [][]InlineButton) error
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string, rows [][]InlineButton) error
	CopyMessage(ctx context.Context, chatID, fromChatID int64, messageID int, caption string, rows [][]InlineButton) error
	// SendReplyPrompt sends text with a force-reply keyboard prefilled by placeholder.
	SendReplyPrompt(ctx context.Context, chatID int64, text, placeholder string) error
}
