package commands

import (
	"errors"
	"maps"

	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/pkg/guard"
)

var ErrSaveRunResultCommandIsNotConstructed = errors.New(
	"SaveRunResultCommand must be created via NewSaveRunResultCommand constructor",
)

// SaveRunResultCommand stores the scores of a simulation batch that ran outside
// of the command layer, such as the live simulation.
type SaveRunResultCommand struct { //nolint:recvcheck //using for validation
	runID    kernel.UUID
	scenario string
	service  string
	runs     int
	scores   map[string]float64

	guard guard.ConstructorGuard
}

// NewSaveRunResultCommand checks the identity of the batch. The scores are checked
// by the run result itself.
func NewSaveRunResultCommand(
	runID kernel.UUID,
	scenario string,
	service string,
	runs int,
	scores map[string]float64,
) (SaveRunResultCommand, error) {
	cmd := SaveRunResultCommand{
		scores: maps.Clone(scores),
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRunID(runID),
		cmd.setScenario(scenario),
		cmd.setService(service),
		cmd.setRuns(runs),
	); err != nil {
		return SaveRunResultCommand{}, err
	}

	return cmd, nil
}

func (c SaveRunResultCommand) Validate() error {
	return c.guard.Validate(ErrSaveRunResultCommandIsNotConstructed)
}

func (c SaveRunResultCommand) RunID() kernel.UUID {
	return c.runID
}

func (c SaveRunResultCommand) Scenario() string {
	return c.scenario
}

func (c SaveRunResultCommand) Service() string {
	return c.service
}

func (c SaveRunResultCommand) Runs() int {
	return c.runs
}

// Scores returns a copy of the scores keyed by criterion key.
func (c SaveRunResultCommand) Scores() map[string]float64 {
	return maps.Clone(c.scores)
}

func (c *SaveRunResultCommand) setRunID(runID kernel.UUID) error {
	if err := runID.Validate(); err != nil {
		return err
	}
	c.runID = runID
	return nil
}

func (c *SaveRunResultCommand) setScenario(scenario string) error {
	if scenario == "" {
		return ErrScenarioNameIsRequired
	}
	c.scenario = scenario
	return nil
}

func (c *SaveRunResultCommand) setService(service string) error {
	if err := checkService(service); err != nil {
		return err
	}
	c.service = service
	return nil
}

func (c *SaveRunResultCommand) setRuns(runs int) error {
	if runs < 1 {
		return ErrRunsAreInvalid
	}
	c.runs = runs
	return nil
}
