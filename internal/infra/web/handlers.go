package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"telegram-relay-bot/internal/domain"
	"telegram-relay-bot/internal/domain/model"
	"telegram-relay-bot/internal/infra/metrics"
	"telegram-relay-bot/internal/usecase"
)

type blockResponse struct {
	ID      int64              `json:"id"`
	Outcome model.BlockOutcome `json:"outcome"`
}

type blocklistResponse struct {
	Blocked []int64 `json:"blocked"`
	Count   int     `json:"count"`
}

func statusHandler(mod usecase.ModerationUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := mod.Status(r.Context(), invokerFrom(r.Context()))
		if err != nil {
			writeUseCaseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func blocklistHandler(mod usecase.ModerationUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := mod.List(r.Context(), invokerFrom(r.Context()))
		if err != nil {
			writeUseCaseError(w, err)
			return
		}
		if ids == nil {
			ids = []int64{}
		}
		writeJSON(w, http.StatusOK, blocklistResponse{Blocked: ids, Count: len(ids)})
	}
}

func blockHandler(mod usecase.ModerationUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, outcome, err := mod.Block(r.Context(), invokerFrom(r.Context()), []string{chi.URLParam(r, "id")})
		if err != nil {
			writeUseCaseError(w, err)
			return
		}
		metrics.IncModeration("block", string(outcome))
		writeJSON(w, http.StatusOK, blockResponse{ID: id, Outcome: outcome})
	}
}

func unblockHandler(mod usecase.ModerationUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, outcome, err := mod.Unblock(r.Context(), invokerFrom(r.Context()), []string{chi.URLParam(r, "id")})
		if err != nil {
			writeUseCaseError(w, err)
			return
		}
		metrics.IncModeration("unblock", string(outcome))
		writeJSON(w, http.StatusOK, blockResponse{ID: id, Outcome: outcome})
	}
}

// writeUseCaseError maps domain errors to HTTP statuses.
func writeUseCaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrBadFormat), errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOperatorNotBlockable):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
