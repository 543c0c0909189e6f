package usecase

import (
	"context"
	"fmt"
	"strconv"

	"telegram-relay-bot/internal/domain"
	"telegram-relay-bot/internal/domain/model"
	"telegram-relay-bot/internal/domain/ports/adapter"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// ReplyCallbackPrefix marks the inline button attached to every notification.
const ReplyCallbackPrefix = "reply:"

// Compile-time check
var _ RelayUseCase = (*relayUC)(nil)

type RelayUseCase interface {
	// Relay delivers env to the operator chat with exactly one transport call.
	Relay(ctx context.Context, env model.Envelope) (*model.Delivery, error)
}

type relayUC struct {
	operator  OperatorIdentity
	transport adapter.Transport
	tr        Translator
	log       *zerolog.Logger
}

func NewRelayUseCase(operator OperatorIdentity, transport adapter.Transport, tr Translator, logger *zerolog.Logger) *relayUC {
	return &relayUC{operator: operator, transport: transport, tr: tr, log: logger}
}

func (r *relayUC) Relay(ctx context.Context, env model.Envelope) (*model.Delivery, error) {
	if !r.operator.Valid() {
		return nil, domain.ErrOperatorNotConfigured
	}
	chatID := r.operator.ChatID()
	rows := r.replyButton(env.Sender)
	name, id := env.Sender.DisplayName(), env.Sender.ID
	hint := model.ReplyHint(id)

	var (
		branch model.Branch
		err    error
	)
	switch c := env.Content.(type) {
	case model.Text:
		branch = model.BranchText
		text := fitNotification(c.Body, model.MaxTextLength, func(excerpt string) string {
			return r.tr.T("notify_text", name, id, excerpt, hint)
		})
		err = r.transport.SendText(ctx, chatID, text, rows)

	case model.Photo:
		branch = model.BranchPhoto
		caption := fitNotification(r.orNoCaption(c.Caption), model.MaxCaptionLength, func(excerpt string) string {
			return r.tr.T("notify_photo", name, id, excerpt, hint)
		})
		err = r.transport.SendPhoto(ctx, chatID, c.FileID, caption, rows)

	case model.Media:
		branch = model.BranchOther
		// Stickers and video notes cannot carry a caption; the reply button
		// still names the sender.
		var caption string
		if c.Kind.SupportsCaption() {
			label := r.tr.T("media_" + string(c.Kind))
			caption = fitNotification(r.orNoCaption(c.Caption), model.MaxCaptionLength, func(excerpt string) string {
				return r.tr.T("notify_media", label, name, id, excerpt, hint)
			})
		}
		err = r.transport.CopyMessage(ctx, chatID, env.ChatID, env.MessageID, caption, rows)

	default:
		return nil, fmt.Errorf("relay from %d: %w", id, domain.ErrBadFormat)
	}

	if err != nil {
		return nil, fmt.Errorf("relay %s from %d: %w: %w", branch, id, domain.ErrDeliveryFailed, err)
	}
	return &model.Delivery{
		RelayID:        ulid.Make().String(),
		Branch:         branch,
		OperatorChatID: chatID,
	}, nil
}

func (r *relayUC) replyButton(s model.Sender) [][]adapter.InlineButton {
	return [][]adapter.InlineButton{{{
		Text: r.tr.T("button_reply", s.DisplayName(), s.ID),
		Data: ReplyCallbackPrefix + strconv.FormatInt(s.ID, 10),
	}}}
}

func (r *relayUC) orNoCaption(caption string) string {
	if caption == "" {
		return r.tr.T("no_caption")
	}
	return caption
}

// fitNotification renders with the longest excerpt of src that keeps the
// whole text within max UTF-16 units. The surrounding template is never cut.
func fitNotification(src string, max int, render func(excerpt string) string) string {
	budget := max - model.TextLength(render(""))
	return render(model.Excerpt(src, budget))
}
