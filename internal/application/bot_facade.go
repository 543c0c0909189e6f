package application

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"telegram-relay-bot/internal/domain"
	"telegram-relay-bot/internal/domain/model"
	"telegram-relay-bot/internal/domain/ports/adapter"
	"telegram-relay-bot/internal/infra/metrics"
	"telegram-relay-bot/internal/usecase"

	"github.com/rs/zerolog"
)

const (
	GuideRequest = "guide:request"
	GuidePhoto   = "guide:photo"
)

// BotFacade composes usecases into high-level bot commands.
// Methods return ready-to-send localized texts so the Telegram adapter just forwards them.
type BotFacade struct {
	Router     InboundRouterIface
	Reply      ReplyDispatcherIface
	Moderation ModerationUseCaseIface
	Operator   OperatorChecker

	tr  Translator
	log *zerolog.Logger
}

func NewBotFacade(
	router InboundRouterIface,
	reply ReplyDispatcherIface,
	moderation ModerationUseCaseIface,
	operator OperatorChecker,
	tr Translator,
	logger *zerolog.Logger,
) *BotFacade {
	return &BotFacade{
		Router:     router,
		Reply:      reply,
		Moderation: moderation,
		Operator:   operator,
		tr:         tr,
		log:        logger,
	}
}

func (b *BotFacade) IsOperator(id int64) bool { return b.Operator.IsOperator(id) }

// HandleMessage routes one plain message and records its outcome.
func (b *BotFacade) HandleMessage(ctx context.Context, env model.Envelope) (model.RouteOutcome, error) {
	start := time.Now()
	outcome, err := b.Router.Route(ctx, env)

	switch outcome {
	case model.RouteDroppedBlocked:
		metrics.IncRelayDropped("blocked")
	case model.RouteDroppedOperator:
		metrics.IncRelayDropped("operator")
	case model.RouteIgnored:
		metrics.IncRelayDropped("unrecognized")
	case model.RouteRateLimited:
		metrics.IncRateLimitTriggered()
	case model.RouteRelayed, model.RouteRelayFailed:
		metrics.ObserveRelay(string(env.Content.Branch()), outcome == model.RouteRelayed, time.Since(start))
	}
	return outcome, err
}

// HandleStart returns the welcome text and, for senders, the guidance buttons.
func (b *BotFacade) HandleStart(ctx context.Context, tgID int64) (string, [][]adapter.InlineButton) {
	if b.Operator.IsOperator(tgID) {
		return b.tr.T("welcome_operator"), nil
	}
	return b.tr.T("welcome_user"), b.guideButtons()
}

func (b *BotFacade) HandleHelp(ctx context.Context, tgID int64) (string, [][]adapter.InlineButton) {
	if b.Operator.IsOperator(tgID) {
		return b.tr.T("help_operator"), nil
	}
	return b.tr.T("help_user"), b.guideButtons()
}

func (b *BotFacade) guideButtons() [][]adapter.InlineButton {
	return [][]adapter.InlineButton{
		{{Text: b.tr.T("button_guide_request"), Data: GuideRequest}},
		{{Text: b.tr.T("button_guide_photo"), Data: GuidePhoto}},
	}
}

// HandleGuide returns the guidance panel for a guide:* callback.
func (b *BotFacade) HandleGuide(data string) (string, bool) {
	switch data {
	case GuideRequest:
		return b.tr.T("guide_request"), true
	case GuidePhoto:
		return b.tr.T("guide_photo"), true
	default:
		return "", false
	}
}

// HandleReplyShortcut turns a reply:<id> callback into the prompt text and
// input placeholder. ok is false for non-operators and malformed data.
func (b *BotFacade) HandleReplyShortcut(ctx context.Context, invoker int64, data string) (text, placeholder string, ok bool) {
	if !b.Operator.IsOperator(invoker) {
		return "", "", false
	}
	target, err := strconv.ParseInt(strings.TrimPrefix(data, usecase.ReplyCallbackPrefix), 10, 64)
	if err != nil {
		return "", "", false
	}
	hint := model.ReplyHint(target)
	return b.tr.T("reply_prompt", hint), b.tr.T("reply_placeholder", hint), true
}

// HandleReply sends an operator reply and returns the confirmation or rejection text.
func (b *BotFacade) HandleReply(ctx context.Context, invoker int64, args []string) string {
	cmd, err := b.Reply.Dispatch(ctx, invoker, args)
	if err == nil {
		metrics.IncOperatorReply("sent")
		return b.tr.T("reply_sent", cmd.TargetID)
	}
	var target int64
	if cmd != nil {
		target = cmd.TargetID
	}

	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		metrics.IncOperatorReply("rejected")
		return b.tr.T("error_not_authorized")
	case errors.Is(err, domain.ErrBadFormat):
		metrics.IncOperatorReply("rejected")
		return b.tr.T("usage_reply")
	case errors.Is(err, domain.ErrInvalidID):
		metrics.IncOperatorReply("rejected")
		return b.tr.T("error_invalid_id", args[0], b.tr.T("usage_reply"))
	case errors.Is(err, domain.ErrEmptyBody):
		metrics.IncOperatorReply("rejected")
		return b.tr.T("error_empty_body")
	case errors.Is(err, domain.ErrDeliveryFailed):
		metrics.IncOperatorReply("unreachable")
		b.log.Info().Err(err).Int64("target_id", target).Msg("reply target unreachable")
		return b.tr.T("error_reply_unreachable", target)
	default:
		metrics.IncOperatorReply("failed")
		b.log.Error().Err(err).Int64("target_id", target).Msg("reply failed")
		return b.tr.T("error_reply_unknown", target)
	}
}

func (b *BotFacade) HandleBlock(ctx context.Context, invoker int64, args []string) string {
	id, outcome, err := b.Moderation.Block(ctx, invoker, args)
	if err != nil {
		return b.moderationError(err, args, "usage_block")
	}
	metrics.IncModeration("block", string(outcome))
	if outcome == model.OutcomeAlreadyBlocked {
		return b.tr.T("already_blocked", id)
	}
	return b.tr.T("blocked", id)
}

func (b *BotFacade) HandleUnblock(ctx context.Context, invoker int64, args []string) string {
	id, outcome, err := b.Moderation.Unblock(ctx, invoker, args)
	if err != nil {
		return b.moderationError(err, args, "usage_unblock")
	}
	metrics.IncModeration("unblock", string(outcome))
	if outcome == model.OutcomeNotBlocked {
		return b.tr.T("not_blocked", id)
	}
	return b.tr.T("unblocked", id)
}

func (b *BotFacade) moderationError(err error, args []string, usageKey string) string {
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		return b.tr.T("error_not_authorized")
	case errors.Is(err, domain.ErrInvalidID):
		return b.tr.T("error_invalid_id", args[0], b.tr.T(usageKey))
	case errors.Is(err, domain.ErrOperatorNotBlockable):
		return b.tr.T("error_block_operator")
	default:
		return b.tr.T(usageKey)
	}
}

func (b *BotFacade) HandleStatus(ctx context.Context, invoker int64) string {
	report, err := b.Moderation.Status(ctx, invoker)
	if err != nil {
		return b.tr.T("error_not_authorized")
	}
	credential := b.tr.T("status_no")
	if report.CredentialPresent {
		credential = b.tr.T("status_yes")
	}
	operator := b.tr.T("status_invalid")
	if report.OperatorIDValid {
		operator = b.tr.T("status_valid")
	}
	return b.tr.T("status", credential, operator, string(report.Mode), report.BlocklistSize)
}

func (b *BotFacade) HandleUnknownCommand() string {
	return b.tr.T("unknown_command")
}
