package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-relay-bot/internal/application"
	"telegram-relay-bot/internal/infra/logging"
	"telegram-relay-bot/internal/usecase"
)

type cbHandler func(ctx context.Context, query *tgbotapi.CallbackQuery, chatID int64, data string) error
type prefixCB struct {
	Prefix string
	Fn     cbHandler
}

// Exact-match callbacks
func (r *RealTelegramBotAdapter) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		application.GuideRequest: r.guideCBRoute,
		application.GuidePhoto:   r.guideCBRoute,
	}
}

// Prefix-match callbacks
func (r *RealTelegramBotAdapter) cbPrefixRoutes() []prefixCB {
	return []prefixCB{
		{Prefix: usecase.ReplyCallbackPrefix, Fn: r.replyPrefixCBRoute},
	}
}

func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}
	ctx = logging.WithTgID(ctx, query.From.ID)

	// Stop telegram spinner when we return
	defer r.client.AnswerCallback(query.ID)

	var chatID int64
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	} else {
		chatID = query.From.ID
	}

	data := strings.TrimSpace(query.Data)
	if fn, ok := r.cbRoutes()[data]; ok {
		return fn(ctx, query, chatID, data)
	}
	for _, pr := range r.cbPrefixRoutes() {
		if strings.HasPrefix(data, pr.Prefix) {
			return pr.Fn(ctx, query, chatID, data)
		}
	}
	logging.With(ctx, r.log).Debug().Str("data", data).Msg("unknown callback data")
	return nil
}

func (r *RealTelegramBotAdapter) guideCBRoute(ctx context.Context, _ *tgbotapi.CallbackQuery, chatID int64, data string) error {
	text, ok := r.facade.HandleGuide(data)
	if !ok {
		return nil
	}
	return r.send(ctx, chatID, text)
}

// replyPrefixCBRoute answers the operator's Reply button with a force-reply
// prompt prefilled with "/reply <id> ". Anyone else gets nothing.
func (r *RealTelegramBotAdapter) replyPrefixCBRoute(ctx context.Context, query *tgbotapi.CallbackQuery, chatID int64, data string) error {
	text, placeholder, ok := r.facade.HandleReplyShortcut(ctx, query.From.ID, data)
	if !ok {
		return nil
	}
	return r.client.SendReplyPrompt(ctx, chatID, text, placeholder)
}
