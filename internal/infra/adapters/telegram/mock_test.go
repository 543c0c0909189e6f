//go:build !integration

package telegram

import (
	"context"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-relay-bot/internal/application"
	"telegram-relay-bot/internal/config"
	"telegram-relay-bot/internal/domain/model"
	"telegram-relay-bot/internal/infra/i18n"
	"telegram-relay-bot/internal/infra/memory"
	"telegram-relay-bot/internal/infra/worker"
	"telegram-relay-bot/internal/usecase"
)

const (
	testOperatorID int64 = 1000
	testSecret           = "s3cret"
)

type madeRequest struct {
	Endpoint string
	Params   tgbotapi.Params
}

// fakeAPI records every Chattable instead of talking to Telegram.
type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	made     []madeRequest
	stopped  bool

	SendErrFunc func(c tgbotapi.Chattable) error
	updates     chan tgbotapi.Update
}

var _ API = (*fakeAPI)(nil)

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.SendErrFunc != nil {
		if err := f.SendErrFunc(c); err != nil {
			return tgbotapi.Message{}, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) CopyMessage(c tgbotapi.CopyMessageConfig) (tgbotapi.MessageID, error) {
	_, err := f.Send(c)
	return tgbotapi.MessageID{}, err
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.made = append(f.made, madeRequest{Endpoint: endpoint, Params: params})
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
}

// messagesTo returns text messages addressed to chatID.
func (f *fakeAPI) messagesTo(chatID int64) []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok && m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeAPI) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type testBot struct {
	api       *fakeAPI
	adapter   *RealTelegramBotAdapter
	blocklist *memory.Blocklist
	pool      *worker.Pool
}

func newTestBot(t *testing.T, cfg *config.Config) *testBot {
	t.Helper()
	logger := zerolog.Nop()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		t.Fatalf("load translator: %v", err)
	}
	if cfg == nil {
		cfg = &config.Config{Bot: config.BotConfig{OperatorID: "1000", WebhookPath: "/telegram/webhook", WebhookSecret: testSecret}}
	}

	api := &fakeAPI{updates: make(chan tgbotapi.Update)}
	client := NewBotClient(api, &logger)
	op := usecase.NewOperatorIdentity(cfg.Bot.OperatorID)
	bl := memory.NewBlocklist()

	relay := usecase.NewRelayUseCase(op, client, tr, &logger)
	ack := usecase.NewAcknowledger(client, tr)
	router := usecase.NewInboundRouter(bl, op, nil, relay, ack, &logger)
	reply := usecase.NewReplyDispatcher(op, client, tr, &logger)
	moderation := usecase.NewModerationUseCase(bl, op, model.RuntimeInfo{CredentialPresent: true, Mode: cfg.TransportMode()}, false, &logger)
	facade := application.NewBotFacade(router, reply, moderation, op, tr, &logger)

	pool := worker.NewPool(2, 16, &logger)
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	adapter, err := NewRealTelegramBotAdapter(api, client, facade, tr, op, pool, cfg, &logger)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	return &testBot{api: api, adapter: adapter, blocklist: bl, pool: pool}
}

func textMessage(from *tgbotapi.User, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 7,
		From:      from,
		Chat:      &tgbotapi.Chat{ID: from.ID, Type: "private"},
		Text:      text,
	}
}

func commandMessage(from *tgbotapi.User, text string) *tgbotapi.Message {
	msg := textMessage(from, text)
	end := len(text)
	for i, r := range text {
		if r == ' ' {
			end = i
			break
		}
	}
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: end}}
	return msg
}

var (
	aliceUser    = &tgbotapi.User{ID: 42, UserName: "alice", FirstName: "Alice"}
	operatorUser = &tgbotapi.User{ID: testOperatorID, UserName: "boss"}
)
