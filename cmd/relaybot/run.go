package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"telegram-relay-bot/internal/application"
	"telegram-relay-bot/internal/config"
	"telegram-relay-bot/internal/domain/model"
	tele "telegram-relay-bot/internal/infra/adapters/telegram"
	"telegram-relay-bot/internal/infra/i18n"
	"telegram-relay-bot/internal/infra/logging"
	"telegram-relay-bot/internal/infra/memory"
	"telegram-relay-bot/internal/infra/metrics"
	red "telegram-relay-bot/internal/infra/redis"
	"telegram-relay-bot/internal/infra/web"
	"telegram-relay-bot/internal/infra/worker"
	"telegram-relay-bot/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func runBot(cmd *cobra.Command, args []string) error {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		// Configuration errors are the only fatal class.
		logging.New(config.LogConfig{Level: "info"}, devMode).Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Bot.Language)
	if err != nil {
		logger.Fatal().Err(err).Str("language", cfg.Bot.Language).Msg("load locale")
	}
	logger.Info().Str("language", tr.Lang()).Msg("locale loaded")

	op := usecase.NewOperatorIdentity(cfg.Bot.OperatorID)
	if !op.Valid() {
		// The bot still starts; relays fail and users get the failure acknowledgement.
		logger.Warn().Msg("bot.operator_id is missing or invalid; requests cannot be delivered")
	}

	// ---- Telegram ----
	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram: authorize bot")
	}
	api.Debug = cfg.Runtime.Dev
	logger.Info().Str("username", api.Self.UserName).Str("mode", string(cfg.TransportMode())).Msg("authorized on telegram")
	client := tele.NewBotClient(api, logger)

	// ---- Rate limiting (optional) ----
	var limiter usecase.SenderLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(rootCtx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient, cfg.RateLimit.Limit, cfg.RateLimit.Window)
		logger.Info().Int("limit", cfg.RateLimit.Limit).Dur("window", cfg.RateLimit.Window).Msg("per-sender rate limiting enabled")
	}

	// ---- Use cases ----
	blocklist := memory.NewBlocklist()
	runtime := model.RuntimeInfo{CredentialPresent: cfg.Bot.Token != "", Mode: cfg.TransportMode()}

	relayUC := usecase.NewRelayUseCase(op, client, tr, logger)
	ackUC := usecase.NewAcknowledger(client, tr)
	routerUC := usecase.NewInboundRouter(blocklist, op, limiter, relayUC, ackUC, logger)
	replyUC := usecase.NewReplyDispatcher(op, client, tr, logger)
	moderationUC := usecase.NewModerationUseCase(blocklist, op, runtime, cfg.Moderation.AllowOperatorBlock, logger)

	// ---- Facade ----
	facade := application.NewBotFacade(routerUC, replyUC, moderationUC, op, tr, logger)

	// ---- Worker pool ----
	// Tasks keep running through shutdown so queued updates drain.
	pool := worker.NewPool(cfg.Bot.Workers, 64, logger)
	pool.Start(context.WithoutCancel(rootCtx))

	botAdapter, err := tele.NewRealTelegramBotAdapter(api, client, facade, tr, op, pool, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram adapter")
	}

	// ---- HTTP ----
	var webhook http.Handler
	if cfg.TransportMode() == model.TransportWebhook {
		webhook = botAdapter.WebhookHandler()
	}
	var auth *web.AuthManager
	if cfg.Admin.JWTSecret != "" {
		auth = web.NewAuthManager(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	}
	server := web.NewServer(cfg.HTTP.Port, moderationUC, auth, cfg.Bot.WebhookPath, webhook, logger)
	httpErr := startHTTP(server.Start, stop, logger)

	// ---- Updates ----
	runErr := botAdapter.Run(rootCtx)
	if runErr != nil {
		logger.Error().Err(runErr).Msg("telegram transport stopped")
	}

	// ---- Graceful shutdown ----
	logger.Info().Msg("shutdown requested")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown")
	}
	if err := <-httpErr; err != nil && runErr == nil {
		runErr = err
	}
	pool.Stop()
	logger.Info().Msg("stopped")
	return runErr
}

// startHTTP runs start in the background. A failure cancels the run through
// stop and is delivered on the returned channel, which is closed once start
// has returned.
func startHTTP(start func() error, stop context.CancelFunc, logger *zerolog.Logger) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		if err := start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			errc <- fmt.Errorf("http server: %w", err)
			stop()
		}
	}()
	return errc
}
