package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"delivery-sim/internal/core/application/simulation"
	"delivery-sim/internal/core/domain/model/run"
	"delivery-sim/internal/core/domain/services/dispatch"
)

// RunSimulationCommandHandler simulates a scenario and stores the averaged scores
// as a run result.
//
// The simulation runs before the transaction starts, so no database connection is
// held while ticking.
//
// Example:
//
//	handler := NewRunSimulationCommandHandler(uowFactory, catalog, simulation.NewConfig(0), logger)
//	cmd, _ := NewRunSimulationCommand(kernel.NewUUID(), "friday", dispatch.KindBogo, 5)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("simulation failed: %w", err)
//	}
type RunSimulationCommandHandler struct {
	uowFactory RunUoWFactory
	scenarios  ScenarioSource
	config     *simulation.Config
	logger     *slog.Logger
}

// NewRunSimulationCommandHandler creates the handler. A nil config simulates
// without pacing and a nil logger falls back to slog.Default.
func NewRunSimulationCommandHandler(
	uowFactory RunUoWFactory,
	scenarios ScenarioSource,
	config *simulation.Config,
	logger *slog.Logger,
) RunSimulationCommandHandler {
	if config == nil {
		config = simulation.NewConfig(0)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return RunSimulationCommandHandler{
		uowFactory: uowFactory,
		scenarios:  scenarios,
		config:     config,
		logger:     logger.With("component", "run-simulation"),
	}
}

// Handle loads the scenario, runs it and adds the result in one transaction.
// Cancelling ctx stops the simulation between two ticks and nothing is stored.
func (h *RunSimulationCommandHandler) Handle(ctx context.Context, cmd RunSimulationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	group, err := h.scenarios.ProblemGroup(cmd.Scenario())
	if err != nil {
		return err
	}

	serviceFactory, err := dispatch.NewFactory(cmd.Service(), h.logger)
	if err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "simulation started",
		"run_id", cmd.RunID().String(), "scenario", cmd.Scenario(), "service", cmd.Service(), "runs", cmd.Runs())
	started := time.Now()

	scores, err := simulation.NewRunner(h.logger).Run(ctx, group, h.config, cmd.Runs(), serviceFactory)
	if err != nil {
		return fmt.Errorf("simulate %s: %w", cmd.Scenario(), err)
	}

	keyed := make(map[string]float64, len(scores))
	for criterion, score := range scores {
		keyed[criterion.Key()] = score
	}

	result, err := run.NewResult(cmd.RunID(), cmd.Scenario(), cmd.Service(), cmd.Runs(), keyed, time.Now())
	if err != nil {
		return err
	}

	if err = addResult(ctx, h.uowFactory, result); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "simulation finished",
		"run_id", cmd.RunID().String(), "scores", keyed, "elapsed", time.Since(started).String())
	return nil
}
