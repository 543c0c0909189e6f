package application

import (
	"context"

	"telegram-relay-bot/internal/domain/model"
)

// ---- small interfaces to decouple the facade from concrete usecase structs ----
// These describe the minimal surface that the facade needs. Using interfaces
// enables tests to pass in light-weight mocks.
type InboundRouterIface interface {
	Route(ctx context.Context, env model.Envelope) (model.RouteOutcome, error)
}

type ReplyDispatcherIface interface {
	Dispatch(ctx context.Context, invoker int64, args []string) (*model.ReplyCommand, error)
}

type ModerationUseCaseIface interface {
	Block(ctx context.Context, invoker int64, args []string) (int64, model.BlockOutcome, error)
	Unblock(ctx context.Context, invoker int64, args []string) (int64, model.BlockOutcome, error)
	Status(ctx context.Context, invoker int64) (*model.StatusReport, error)
}

type OperatorChecker interface {
	IsOperator(id int64) bool
}

type Translator interface {
	T(key string, args ...interface{}) string
}
