package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"telegram-relay-bot/internal/domain"
	"telegram-relay-bot/internal/domain/model"
	"telegram-relay-bot/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ReplyDispatcher = (*replyUC)(nil)

type ReplyDispatcher interface {
	// Dispatch validates "/reply <id> <text...>" args and sends the body to id.
	Dispatch(ctx context.Context, invoker int64, args []string) (*model.ReplyCommand, error)
}

type replyUC struct {
	operator  OperatorIdentity
	transport adapter.Transport
	tr        Translator
	log       *zerolog.Logger
}

func NewReplyDispatcher(operator OperatorIdentity, transport adapter.Transport, tr Translator, logger *zerolog.Logger) *replyUC {
	return &replyUC{operator: operator, transport: transport, tr: tr, log: logger}
}

// Dispatch checks, in order: operator, arity, target id, non-empty body.
// Unreachable targets wrap domain.ErrDeliveryFailed; other transport faults do not.
func (u *replyUC) Dispatch(ctx context.Context, invoker int64, args []string) (*model.ReplyCommand, error) {
	if !u.operator.IsOperator(invoker) {
		return nil, domain.ErrNotAuthorized
	}
	if len(args) < 2 {
		return nil, domain.ErrBadFormat
	}
	target, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidID, args[0])
	}
	body := strings.TrimSpace(strings.Join(args[1:], " "))
	if body == "" {
		return nil, domain.ErrEmptyBody
	}

	cmd := &model.ReplyCommand{TargetID: target, Body: body}
	err = u.transport.SendText(ctx, target, u.tr.T("operator_reply_label", body), nil)
	switch {
	case err == nil:
		return cmd, nil
	case errors.Is(err, domain.ErrRecipientUnreachable):
		return cmd, fmt.Errorf("reply to %d: %w: %w", target, domain.ErrDeliveryFailed, err)
	default:
		return cmd, fmt.Errorf("reply to %d: %w", target, err)
	}
}
