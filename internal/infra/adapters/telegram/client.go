package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-relay-bot/internal/domain"
	"telegram-relay-bot/internal/domain/ports/adapter"
	"telegram-relay-bot/internal/infra/metrics"
)

// API is the subset of *tgbotapi.BotAPI the adapter uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
	CopyMessage(config tgbotapi.CopyMessageConfig) (tgbotapi.MessageID, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

var _ API = (*tgbotapi.BotAPI)(nil)
var _ adapter.Transport = (*BotClient)(nil)

// BotClient implements adapter.Transport. Every call is a single attempt;
// failures are classified into domain.ErrRecipientUnreachable or domain.ErrTransport.
type BotClient struct {
	api API
	log *zerolog.Logger
}

func NewBotClient(api API, logger *zerolog.Logger) *BotClient {
	return &BotClient{api: api, log: logger}
}

func (c *BotClient) SendText(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if markup := inlineKeyboard(rows); markup != nil {
		msg.ReplyMarkup = *markup
	}
	_, err := c.api.Send(msg)
	return classifyErr("sendMessage", chatID, err)
}

func (c *BotClient) SendPhoto(ctx context.Context, chatID int64, fileID, caption string, rows [][]adapter.InlineButton) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	if markup := inlineKeyboard(rows); markup != nil {
		photo.ReplyMarkup = *markup
	}
	_, err := c.api.Send(photo)
	return classifyErr("sendPhoto", chatID, err)
}

func (c *BotClient) CopyMessage(ctx context.Context, chatID, fromChatID int64, messageID int, caption string, rows [][]adapter.InlineButton) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := tgbotapi.NewCopyMessage(chatID, fromChatID, messageID)
	cp.Caption = caption
	if markup := inlineKeyboard(rows); markup != nil {
		cp.ReplyMarkup = *markup
	}
	_, err := c.api.CopyMessage(cp)
	return classifyErr("copyMessage", chatID, err)
}

func (c *BotClient) SendReplyPrompt(ctx context.Context, chatID int64, text, placeholder string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.ForceReply{
		ForceReply:            true,
		InputFieldPlaceholder: placeholder,
	}
	_, err := c.api.Send(msg)
	return classifyErr("sendMessage", chatID, err)
}

// AnswerCallback stops the client-side spinner of a pressed inline button.
func (c *BotClient) AnswerCallback(queryID string) {
	if _, err := c.api.Request(tgbotapi.NewCallback(queryID, "")); err != nil {
		c.log.Debug().Err(err).Msg("answer callback failed")
	}
}

// inlineKeyboard converts port buttons into a tgbotapi markup.
// - If btn.URL is set, the button opens a link
// - Else if btn.Data is set, the button sends callback data
// - Else a safe fallback uses btn.Text as callback data
func inlineKeyboard(rows [][]adapter.InlineButton) *tgbotapi.InlineKeyboardMarkup {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			switch {
			case btn.URL != "":
				r = append(r, tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL))
			case btn.Data != "":
				r = append(r, tgbotapi.NewInlineKeyboardButtonData(label, btn.Data))
			default:
				r = append(r, tgbotapi.NewInlineKeyboardButtonData(label, label))
			}
		}
		kbRows = append(kbRows, r)
	}
	if len(kbRows) == 0 {
		return nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	return &markup
}

var unreachableDescriptions = []string{
	"chat not found",
	"user not found",
	"bot was blocked",
	"user is deactivated",
	"peer_id_invalid",
}

// classifyErr maps Bot API failures onto the domain taxonomy.
func classifyErr(method string, chatID int64, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		desc := strings.ToLower(apiErr.Message)
		unreachable := apiErr.Code == 403
		if apiErr.Code == 400 {
			for _, d := range unreachableDescriptions {
				if strings.Contains(desc, d) {
					unreachable = true
					break
				}
			}
		}
		if unreachable {
			metrics.IncSendError(method, "unreachable")
			return fmt.Errorf("%s to %d: %w: %s", method, chatID, domain.ErrRecipientUnreachable, apiErr.Message)
		}
	}
	metrics.IncSendError(method, "transport")
	return fmt.Errorf("%s to %d: %w: %v", method, chatID, domain.ErrTransport, err)
}
