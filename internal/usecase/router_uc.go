package usecase

import (
	"context"

	"telegram-relay-bot/internal/domain/model"
	"telegram-relay-bot/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ InboundRouter = (*routerUC)(nil)

// SenderLimiter throttles plain messages per sender.
type SenderLimiter interface {
	AllowSender(ctx context.Context, senderID int64) (bool, error)
}

// InboundRouter is the single entry point for non-command messages.
type InboundRouter interface {
	Route(ctx context.Context, env model.Envelope) (model.RouteOutcome, error)
}

type routerUC struct {
	blocklist repository.BlocklistRepository
	operator  OperatorIdentity
	limiter   SenderLimiter // optional
	relay     RelayUseCase
	ack       Acknowledger
	log       *zerolog.Logger
}

func NewInboundRouter(
	blocklist repository.BlocklistRepository,
	operator OperatorIdentity,
	limiter SenderLimiter,
	relay RelayUseCase,
	ack Acknowledger,
	logger *zerolog.Logger,
) *routerUC {
	return &routerUC{
		blocklist: blocklist,
		operator:  operator,
		limiter:   limiter,
		relay:     relay,
		ack:       ack,
		log:       logger,
	}
}

// Route drops blocked senders and the operator silently, ignores empty
// content, and otherwise relays and acknowledges exactly once. The returned
// error is the relay failure, if any; acknowledgement failures are only logged.
func (r *routerUC) Route(ctx context.Context, env model.Envelope) (model.RouteOutcome, error) {
	senderID := env.Sender.ID
	if r.blocklist.Contains(senderID) {
		return model.RouteDroppedBlocked, nil
	}
	if r.operator.IsOperator(senderID) {
		return model.RouteDroppedOperator, nil
	}
	if !env.Recognizable() {
		return model.RouteIgnored, nil
	}

	if r.limiter != nil {
		allowed, err := r.limiter.AllowSender(ctx, senderID)
		if err != nil {
			r.log.Warn().Err(err).Int64("tg_id", senderID).Msg("rate limiter unavailable, allowing message")
		} else if !allowed {
			if err := r.ack.RateLimited(ctx, env.ChatID); err != nil {
				r.log.Warn().Err(err).Int64("tg_id", senderID).Msg("failed to send rate limit notice")
			}
			return model.RouteRateLimited, nil
		}
	}

	delivery, relayErr := r.relay.Relay(ctx, env)
	if relayErr != nil {
		if err := r.ack.Fail(ctx, env.ChatID); err != nil {
			r.log.Warn().Err(err).Int64("tg_id", senderID).Msg("failed to send failure acknowledgement")
		}
		return model.RouteRelayFailed, relayErr
	}

	r.log.Debug().
		Str("relay_id", delivery.RelayID).
		Str("branch", string(delivery.Branch)).
		Int64("tg_id", senderID).
		Msg("relayed to operator")
	if err := r.ack.Confirm(ctx, env.ChatID); err != nil {
		r.log.Warn().Err(err).Int64("tg_id", senderID).Msg("failed to send acknowledgement")
	}
	return model.RouteRelayed, nil
}
