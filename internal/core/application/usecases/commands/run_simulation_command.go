package commands

import (
	"errors"
	"fmt"
	"slices"

	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/services/dispatch"
	"delivery-sim/internal/pkg/guard"
)

var (
	ErrRunSimulationCommandIsNotConstructed = errors.New(
		"RunSimulationCommand must be created via NewRunSimulationCommand constructor",
	)
	ErrScenarioNameIsRequired = errors.New("scenario name is required")
	ErrRunsAreInvalid         = errors.New("runs must be greater than 0")
	ErrUnknownService         = errors.New("unknown delivery service")
)

// RunSimulationCommand represents a request to simulate a stored scenario and keep
// the averaged scores.
//
// Example:
//
//	runID := kernel.NewUUID()
//	cmd, err := NewRunSimulationCommand(runID, "friday", dispatch.KindBasic, 3)
//	if err != nil {
//	    return fmt.Errorf("invalid simulation request: %w", err)
//	}
//
//	handler := NewRunSimulationCommandHandler(uowFactory, catalog, config, logger)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to run simulation: %w", err)
//	}
//	fmt.Printf("Result %s stored", runID)
type RunSimulationCommand struct { //nolint:recvcheck //using for validation
	runID    kernel.UUID
	scenario string
	service  string
	runs     int

	guard guard.ConstructorGuard
}

// NewRunSimulationCommand creates a command to simulate scenario runs times with
// the delivery service of kind service.
// Returns an error if the id is invalid, the scenario is empty, the service is not
// one of dispatch.Kinds or runs is not positive.
func NewRunSimulationCommand(runID kernel.UUID, scenario string, service string, runs int) (RunSimulationCommand, error) {
	cmd := RunSimulationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRunID(runID),
		cmd.setScenario(scenario),
		cmd.setService(service),
		cmd.setRuns(runs),
	); err != nil {
		return RunSimulationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RunSimulationCommand) Validate() error {
	return c.guard.Validate(ErrRunSimulationCommandIsNotConstructed)
}

// RunID returns the identifier the stored result will get.
func (c RunSimulationCommand) RunID() kernel.UUID {
	return c.runID
}

// Scenario returns the name of the scenario to simulate.
func (c RunSimulationCommand) Scenario() string {
	return c.scenario
}

// Service returns the kind of delivery service to rate.
func (c RunSimulationCommand) Service() string {
	return c.service
}

// Runs returns how often every problem of the scenario is simulated.
func (c RunSimulationCommand) Runs() int {
	return c.runs
}

func (c *RunSimulationCommand) setRunID(runID kernel.UUID) error {
	if err := runID.Validate(); err != nil {
		return err
	}

	c.runID = runID
	return nil
}

func (c *RunSimulationCommand) setScenario(scenario string) error {
	if scenario == "" {
		return ErrScenarioNameIsRequired
	}

	c.scenario = scenario
	return nil
}

func (c *RunSimulationCommand) setService(service string) error {
	if err := checkService(service); err != nil {
		return err
	}

	c.service = service
	return nil
}

func (c *RunSimulationCommand) setRuns(runs int) error {
	if runs < 1 {
		return ErrRunsAreInvalid
	}

	c.runs = runs
	return nil
}

func checkService(service string) error {
	if !slices.Contains(dispatch.Kinds(), service) {
		return fmt.Errorf("%w: %q", ErrUnknownService, service)
	}
	return nil
}
