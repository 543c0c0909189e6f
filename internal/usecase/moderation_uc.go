package usecase

import (
	"context"
	"fmt"
	"strconv"

	"telegram-relay-bot/internal/domain"
	"telegram-relay-bot/internal/domain/model"
	"telegram-relay-bot/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ModerationUseCase = (*moderationUC)(nil)

type ModerationUseCase interface {
	Block(ctx context.Context, invoker int64, args []string) (int64, model.BlockOutcome, error)
	Unblock(ctx context.Context, invoker int64, args []string) (int64, model.BlockOutcome, error)
	Status(ctx context.Context, invoker int64) (*model.StatusReport, error)
	List(ctx context.Context, invoker int64) ([]int64, error)
}

type moderationUC struct {
	blocklist          repository.BlocklistRepository
	operator           OperatorIdentity
	runtime            model.RuntimeInfo
	allowOperatorBlock bool
	log                *zerolog.Logger
}

func NewModerationUseCase(
	blocklist repository.BlocklistRepository,
	operator OperatorIdentity,
	runtime model.RuntimeInfo,
	allowOperatorBlock bool,
	logger *zerolog.Logger,
) *moderationUC {
	return &moderationUC{
		blocklist:          blocklist,
		operator:           operator,
		runtime:            runtime,
		allowOperatorBlock: allowOperatorBlock,
		log:                logger,
	}
}

func (m *moderationUC) Block(ctx context.Context, invoker int64, args []string) (int64, model.BlockOutcome, error) {
	target, err := m.target(invoker, args)
	if err != nil {
		return 0, "", err
	}
	if m.operator.IsOperator(target) && !m.allowOperatorBlock {
		return target, "", domain.ErrOperatorNotBlockable
	}
	if !m.blocklist.Block(target) {
		return target, model.OutcomeAlreadyBlocked, nil
	}
	m.log.Info().Int64("target_id", target).Msg("sender blocked")
	return target, model.OutcomeBlocked, nil
}

func (m *moderationUC) Unblock(ctx context.Context, invoker int64, args []string) (int64, model.BlockOutcome, error) {
	target, err := m.target(invoker, args)
	if err != nil {
		return 0, "", err
	}
	if !m.blocklist.Unblock(target) {
		return target, model.OutcomeNotBlocked, nil
	}
	m.log.Info().Int64("target_id", target).Msg("sender unblocked")
	return target, model.OutcomeUnblocked, nil
}

func (m *moderationUC) Status(ctx context.Context, invoker int64) (*model.StatusReport, error) {
	if !m.operator.IsOperator(invoker) {
		return nil, domain.ErrNotAuthorized
	}
	return &model.StatusReport{
		CredentialPresent: m.runtime.CredentialPresent,
		OperatorIDValid:   m.operator.Valid(),
		Mode:              m.runtime.Mode,
		BlocklistSize:     m.blocklist.Len(),
	}, nil
}

func (m *moderationUC) List(ctx context.Context, invoker int64) ([]int64, error) {
	if !m.operator.IsOperator(invoker) {
		return nil, domain.ErrNotAuthorized
	}
	return m.blocklist.List(), nil
}

// target enforces operator, exactly one argument, and an integer id.
func (m *moderationUC) target(invoker int64, args []string) (int64, error) {
	if !m.operator.IsOperator(invoker) {
		return 0, domain.ErrNotAuthorized
	}
	if len(args) != 1 {
		return 0, domain.ErrBadFormat
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidID, args[0])
	}
	return id, nil
}
