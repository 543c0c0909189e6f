package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-relay-bot/internal/domain/model"
	"telegram-relay-bot/internal/infra/logging"
	"telegram-relay-bot/internal/infra/metrics"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message, args []string) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": r.handleStartCommand,
		"help":  r.handleHelpCommand,

		// Operator commands; the use cases reject everyone else.
		"reply":        r.operatorOnly("reply", r.handleReplyCommand),
		"block":        r.operatorOnly("block", r.handleBlockCommand),
		"unblock":      r.operatorOnly("unblock", r.handleUnblockCommand),
		"admin_status": r.operatorOnly("admin_status", r.handleAdminStatusCommand),
	}
}

func (r *RealTelegramBotAdapter) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	cmd, ok := model.ParseCommand(msg.Text)
	if !ok {
		return nil
	}
	metrics.IncTelegramCommand(cmd.Name)
	logging.With(ctx, r.log).Debug().Str("command", cmd.Name).Int("args", len(cmd.Args)).Msg("command received")

	if fn, ok := r.commandRoutes()[cmd.Name]; ok {
		return fn(ctx, msg, cmd.Args)
	}
	return r.send(ctx, msg.Chat.ID, r.facade.HandleUnknownCommand())
}

// operatorOnly records who attempted an operator command.
func (r *RealTelegramBotAdapter) operatorOnly(name string, next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message, args []string) error {
		if r.facade.IsOperator(message.From.ID) {
			metrics.IncAdminCommand("/"+name, "authorized")
		} else {
			metrics.IncAdminCommand("/"+name, "unauthorized")
			logging.With(ctx, r.log).Info().Str("command", name).Msg("operator command from non-operator")
		}
		return next(ctx, message, args)
	}
}

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message, _ []string) error {
	text, rows := r.facade.HandleStart(ctx, message.From.ID)
	return r.client.SendText(ctx, message.Chat.ID, text, rows)
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message, _ []string) error {
	text, rows := r.facade.HandleHelp(ctx, message.From.ID)
	return r.client.SendText(ctx, message.Chat.ID, text, rows)
}

func (r *RealTelegramBotAdapter) handleReplyCommand(ctx context.Context, message *tgbotapi.Message, args []string) error {
	return r.send(ctx, message.Chat.ID, r.facade.HandleReply(ctx, message.From.ID, args))
}

func (r *RealTelegramBotAdapter) handleBlockCommand(ctx context.Context, message *tgbotapi.Message, args []string) error {
	return r.send(ctx, message.Chat.ID, r.facade.HandleBlock(ctx, message.From.ID, args))
}

func (r *RealTelegramBotAdapter) handleUnblockCommand(ctx context.Context, message *tgbotapi.Message, args []string) error {
	return r.send(ctx, message.Chat.ID, r.facade.HandleUnblock(ctx, message.From.ID, args))
}

func (r *RealTelegramBotAdapter) handleAdminStatusCommand(ctx context.Context, message *tgbotapi.Message, _ []string) error {
	return r.send(ctx, message.Chat.ID, r.facade.HandleStatus(ctx, message.From.ID))
}

func (r *RealTelegramBotAdapter) send(ctx context.Context, chatID int64, text string) error {
	return r.client.SendText(ctx, chatID, text, nil)
}
