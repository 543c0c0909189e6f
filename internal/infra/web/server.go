package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-relay-bot/internal/usecase"
)

type ctxKey struct{}

// Server is the single HTTP listener: health, metrics, the Telegram webhook
// (webhook mode only) and, when auth is configured, the operator API.
type Server struct {
	moderation  usecase.ModerationUseCase
	auth        *AuthManager
	webhookPath string
	webhook     http.Handler
	log         *zerolog.Logger

	srv *http.Server
}

// NewServer builds the router. webhook and auth may be nil.
func NewServer(
	port int,
	moderation usecase.ModerationUseCase,
	auth *AuthManager,
	webhookPath string,
	webhook http.Handler,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "http").Logger()
	s := &Server{
		moderation:  moderation,
		auth:        auth,
		webhookPath: webhookPath,
		webhook:     webhook,
		log:         &l,
	}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Routes returns the chi router. Exposed for tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(Recover(s.log), TraceID(), RequestLog(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	if s.webhook != nil {
		r.Handle(s.webhookPath, s.webhook)
	}

	if s.auth != nil {
		r.Route("/api/v1", func(r chi.Router) {
			r.Use(s.authMiddleware, Timeout(10*time.Second))
			r.Get("/status", statusHandler(s.moderation))
			r.Get("/blocklist", blocklistHandler(s.moderation))
			r.Put("/blocklist/{id}", blockHandler(s.moderation))
			r.Delete("/blocklist/{id}", unblockHandler(s.moderation))
		})
	}
	return r
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("HTTP server listening")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// authMiddleware resolves the bearer token to an invoker id. Whether that id
// is the operator is decided by the use case, not here.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		invoker, err := claims.OperatorID()
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized: bad subject")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, invoker)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func invokerFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxKey{}).(int64)
	return id
}
