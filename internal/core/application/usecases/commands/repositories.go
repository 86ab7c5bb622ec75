// Package commands contains the operations that change the stored state of the
// simulation service. Every command is validated by its constructor and handled
// inside one unit of work.
package commands

import (
	"context"

	"delivery-sim/internal/core/application/simulation"
	"delivery-sim/internal/core/ports"
)

type (
	// TxManager handles the database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// RunRepoFactory provides access to the run repository within a transaction.
	RunRepoFactory interface {
		RunRepository() ports.RunRepository
	}

	// RunUoW manages transactions for operations on run results.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   err = uow.RunRepository().Add(ctx, result)
	//   err = uow.Commit(ctx)
	RunUoW interface {
		TxManager
		RunRepoFactory
	}

	// RunUoWFactory creates new run unit of work instances.
	RunUoWFactory interface {
		Create() RunUoW
	}

	// ScenarioSource resolves a scenario name to a fresh problem group.
	ScenarioSource interface {
		ProblemGroup(name string) (simulation.ProblemGroup, error)
	}
)
