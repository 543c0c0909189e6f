//go:build !integration

package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-relay-bot/internal/domain/model"
	"telegram-relay-bot/internal/infra/memory"
	"telegram-relay-bot/internal/usecase"
)

const (
	testOperatorID int64 = 1000
	testJWTSecret        = "jwt-test-secret"
)

type testEnv struct {
	handler   http.Handler
	auth      *AuthManager
	blocklist *memory.Blocklist
}

// newTestEnv wires the real moderation use case over an in-memory blocklist.
func newTestEnv(t *testing.T, withAuth bool, webhook http.Handler) *testEnv {
	t.Helper()
	logger := zerolog.Nop()
	bl := memory.NewBlocklist()
	op := usecase.NewOperatorIdentity("1000")
	mod := usecase.NewModerationUseCase(bl, op, model.RuntimeInfo{CredentialPresent: true, Mode: model.TransportWebhook}, false, &logger)

	var auth *AuthManager
	if withAuth {
		auth = NewAuthManager(testJWTSecret, time.Hour)
	}
	srv := NewServer(0, mod, auth, "/telegram/webhook", webhook, &logger)
	return &testEnv{handler: srv.Routes(), auth: auth, blocklist: bl}
}

func (e *testEnv) do(t *testing.T, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) mint(t *testing.T, id int64) string {
	t.Helper()
	tok, err := e.auth.Mint(id)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return tok
}
