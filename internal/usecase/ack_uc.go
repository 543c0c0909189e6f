package usecase

import (
	"context"

	"telegram-relay-bot/internal/domain/ports/adapter"
)

// Compile-time check
var _ Acknowledger = (*ackUC)(nil)

// Acknowledger sends the one fixed answer a sender gets per relayed unit.
type Acknowledger interface {
	Confirm(ctx context.Context, chatID int64) error
	Fail(ctx context.Context, chatID int64) error
	RateLimited(ctx context.Context, chatID int64) error
}

type ackUC struct {
	transport adapter.Transport
	tr        Translator
}

func NewAcknowledger(transport adapter.Transport, tr Translator) *ackUC {
	return &ackUC{transport: transport, tr: tr}
}

func (a *ackUC) Confirm(ctx context.Context, chatID int64) error {
	return a.transport.SendText(ctx, chatID, a.tr.T("ack_success"), nil)
}

func (a *ackUC) Fail(ctx context.Context, chatID int64) error {
	return a.transport.SendText(ctx, chatID, a.tr.T("ack_failure"), nil)
}

func (a *ackUC) RateLimited(ctx context.Context, chatID int64) error {
	return a.transport.SendText(ctx, chatID, a.tr.T("ack_rate_limited"), nil)
}
