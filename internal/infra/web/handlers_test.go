//go:build !integration

package web

import (
	"encoding/json"
	"net/http"
	"testing"

	"telegram-relay-bot/internal/domain/model"
)

func TestBlocklistHandlers(t *testing.T) {
	env := newTestEnv(t, true, nil)
	tok := env.mint(t, testOperatorID)

	decode := func(t *testing.T, body []byte) blockResponse {
		t.Helper()
		var resp blockResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("decode: %v (%s)", err, body)
		}
		return resp
	}

	t.Run("block is idempotent", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/v1/blocklist/42", tok)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if resp := decode(t, rec.Body.Bytes()); resp.ID != 42 || resp.Outcome != model.OutcomeBlocked {
			t.Errorf("unexpected response %+v", resp)
		}

		rec = env.do(t, http.MethodPut, "/api/v1/blocklist/42", tok)
		if resp := decode(t, rec.Body.Bytes()); resp.Outcome != model.OutcomeAlreadyBlocked {
			t.Errorf("expected already_blocked, got %+v", resp)
		}
		if !env.blocklist.Contains(42) || env.blocklist.Len() != 1 {
			t.Error("expected exactly 42 in the blocklist")
		}
	})

	t.Run("list", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/blocklist", tok)
		var resp blocklistResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Count != 1 || len(resp.Blocked) != 1 || resp.Blocked[0] != 42 {
			t.Errorf("unexpected list %+v", resp)
		}
	})

	t.Run("unblock is idempotent", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/v1/blocklist/42", tok)
		if resp := decode(t, rec.Body.Bytes()); resp.Outcome != model.OutcomeUnblocked {
			t.Errorf("expected unblocked, got %+v", resp)
		}
		rec = env.do(t, http.MethodDelete, "/api/v1/blocklist/42", tok)
		if resp := decode(t, rec.Body.Bytes()); resp.Outcome != model.OutcomeNotBlocked {
			t.Errorf("expected not_blocked, got %+v", resp)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/v1/blocklist/abc", tok)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if env.blocklist.Len() != 0 {
			t.Error("blocklist must be unchanged")
		}
	})

	t.Run("operator cannot be blocked", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/v1/blocklist/1000", tok)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("non-operator cannot block", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/v1/blocklist/43", env.mint(t, 42))
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
		if env.blocklist.Contains(43) {
			t.Error("blocklist must be unchanged")
		}
	})

	t.Run("empty list encodes as array", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/blocklist", tok)
		if got := rec.Body.String(); got != "{\"blocked\":[],\"count\":0}\n" {
			t.Errorf("unexpected body %q", got)
		}
	})
}
