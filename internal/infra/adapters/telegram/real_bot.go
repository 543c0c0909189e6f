package telegram

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-relay-bot/internal/application"
	"telegram-relay-bot/internal/config"
	"telegram-relay-bot/internal/domain/model"
	"telegram-relay-bot/internal/infra/logging"
	"telegram-relay-bot/internal/infra/metrics"
	"telegram-relay-bot/internal/infra/worker"
	"telegram-relay-bot/internal/usecase"
)

const (
	secretHeader   = "X-Telegram-Bot-Api-Secret-Token"
	maxWebhookBody = 1 << 20
)

// RealTelegramBotAdapter receives updates (long polling or webhook), runs them
// on the keyed worker pool and delegates to BotFacade.
type RealTelegramBotAdapter struct {
	api        API
	client     *BotClient
	facade     *application.BotFacade
	translator usecase.Translator
	operator   usecase.OperatorIdentity
	pool       *worker.Pool

	mode          model.TransportMode
	webhookURL    string
	webhookSecret string
	dev           bool
	log           *zerolog.Logger
}

func NewRealTelegramBotAdapter(
	api API,
	client *BotClient,
	facade *application.BotFacade,
	translator usecase.Translator,
	operator usecase.OperatorIdentity,
	pool *worker.Pool,
	cfg *config.Config,
	logger *zerolog.Logger,
) (*RealTelegramBotAdapter, error) {
	if api == nil || client == nil {
		return nil, errors.New("telegram api is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if pool == nil {
		return nil, errors.New("worker pool is nil")
	}
	l := logger.With().Str("component", "telegram").Logger()
	return &RealTelegramBotAdapter{
		api:           api,
		client:        client,
		facade:        facade,
		translator:    translator,
		operator:      operator,
		pool:          pool,
		mode:          cfg.TransportMode(),
		webhookURL:    cfg.WebhookURL(),
		webhookSecret: cfg.Bot.WebhookSecret,
		dev:           cfg.Runtime.Dev,
		log:           &l,
	}, nil
}

// Run publishes the menu, then receives updates until ctx is done.
func (r *RealTelegramBotAdapter) Run(ctx context.Context) error {
	r.SetMenuCommands()

	if r.mode == model.TransportWebhook {
		if err := r.registerWebhook(); err != nil {
			return err
		}
		r.log.Info().Str("url", r.webhookURL).Msg("webhook registered, waiting for updates")
		<-ctx.Done()
		return nil
	}
	return r.poll(ctx)
}

func (r *RealTelegramBotAdapter) poll(ctx context.Context) error {
	// A leftover webhook makes getUpdates fail with 409.
	if _, err := r.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		r.log.Warn().Err(err).Msg("failed to delete webhook before polling")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.api.GetUpdatesChan(u)
	r.log.Info().Msg("long polling started")

	for {
		select {
		case <-ctx.Done():
			r.api.StopReceivingUpdates()
			return nil
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			if err := r.dispatch(ctx, up); err != nil {
				r.log.Warn().Err(err).Int("update_id", up.UpdateID).Msg("failed to queue update")
			}
		}
	}
}

func (r *RealTelegramBotAdapter) registerWebhook() error {
	params := tgbotapi.Params{}
	params["url"] = r.webhookURL
	params.AddNonEmpty("secret_token", r.webhookSecret)
	params["allowed_updates"] = `["message","callback_query"]`
	if _, err := r.api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

// dispatch queues the update on the worker owning its sender.
func (r *RealTelegramBotAdapter) dispatch(ctx context.Context, up tgbotapi.Update) error {
	return r.pool.Submit(ctx, updateKey(up), func(taskCtx context.Context) error {
		return r.handleUpdate(taskCtx, up)
	})
}

func updateKey(up tgbotapi.Update) int64 {
	switch {
	case up.Message != nil && up.Message.From != nil:
		return up.Message.From.ID
	case up.CallbackQuery != nil && up.CallbackQuery.From != nil:
		return up.CallbackQuery.From.ID
	default:
		return 0
	}
}

// WebhookHandler accepts Telegram pushes. Requests without the configured
// secret header are rejected before the body is read.
func (r *RealTelegramBotAdapter) WebhookHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		got := req.Header.Get(secretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(r.webhookSecret)) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var up tgbotapi.Update
		if err := json.NewDecoder(io.LimitReader(req.Body, maxWebhookBody)).Decode(&up); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if err := r.dispatch(req.Context(), up); err != nil {
			r.log.Warn().Err(err).Int("update_id", up.UpdateID).Msg("failed to queue webhook update")
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	ctx = logging.WithTraceID(ctx, logging.NewTraceID())

	// ----- Inline button callbacks -----
	if update.CallbackQuery != nil {
		metrics.IncUpdate("callback")
		return r.handleQuery(ctx, update.CallbackQuery)
	}

	// ----- Regular messages -----
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		metrics.IncUpdate("unsupported")
		return nil
	}
	ctx = logging.WithTgID(ctx, msg.From.ID)

	if msg.IsCommand() {
		metrics.IncUpdate("command")
		return r.handleCommand(ctx, msg)
	}

	metrics.IncUpdate("message")
	env := toEnvelope(msg)
	outcome, err := r.facade.HandleMessage(ctx, env)
	log := logging.With(ctx, r.log)
	if err != nil {
		log.Warn().Err(err).Str("outcome", string(outcome)).Bool("acknowledged", outcome.Acknowledged()).Msg("relay failed")
		return nil
	}
	ev := log.Debug().Str("outcome", string(outcome)).Bool("acknowledged", outcome.Acknowledged())
	if t, ok := env.Content.(model.Text); ok {
		ev = ev.Str("text", logging.Redact(t.Body, r.dev))
	}
	ev.Msg("message routed")
	return nil
}

// SetMenuCommands publishes the public command list and, when the operator id
// is valid, the operator list scoped to the operator chat.
func (r *RealTelegramBotAdapter) SetMenuCommands() {
	public := []tgbotapi.BotCommand{
		{Command: "start", Description: r.translator.T("cmd_start")},
		{Command: "help", Description: r.translator.T("cmd_help")},
	}
	if _, err := r.api.Request(tgbotapi.NewSetMyCommands(public...)); err != nil {
		r.log.Warn().Err(err).Msg("failed to set public menu commands")
	}
	if !r.operator.Valid() {
		return
	}

	operatorCmds := append(public,
		tgbotapi.BotCommand{Command: "reply", Description: r.translator.T("cmd_reply")},
		tgbotapi.BotCommand{Command: "block", Description: r.translator.T("cmd_block")},
		tgbotapi.BotCommand{Command: "unblock", Description: r.translator.T("cmd_unblock")},
		tgbotapi.BotCommand{Command: "admin_status", Description: r.translator.T("cmd_admin_status")},
	)
	scope := tgbotapi.NewBotCommandScopeChat(r.operator.ChatID())
	if _, err := r.api.Request(tgbotapi.NewSetMyCommandsWithScope(scope, operatorCmds...)); err != nil {
		r.log.Warn().Err(err).Int64("tg_id", r.operator.ChatID()).Msg("failed to set operator menu commands")
	}
}
