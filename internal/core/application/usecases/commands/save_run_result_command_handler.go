package commands

import (
	"context"
	"time"

	"delivery-sim/internal/core/domain/model/run"
)

// SaveRunResultCommandHandler persists a finished batch as a run result.
type SaveRunResultCommandHandler struct {
	uowFactory RunUoWFactory
}

func NewSaveRunResultCommandHandler(uowFactory RunUoWFactory) SaveRunResultCommandHandler {
	return SaveRunResultCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle creates the run result, finished now, and adds it in its own transaction.
func (h *SaveRunResultCommandHandler) Handle(ctx context.Context, cmd SaveRunResultCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	result, err := run.NewResult(cmd.RunID(), cmd.Scenario(), cmd.Service(), cmd.Runs(), cmd.Scores(), time.Now())
	if err != nil {
		return err
	}

	return addResult(ctx, h.uowFactory, result)
}

func addResult(ctx context.Context, uowFactory RunUoWFactory, result *run.Result) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.RunRepository().Add(ctx, result); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
