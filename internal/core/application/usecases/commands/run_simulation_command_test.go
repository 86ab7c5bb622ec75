package commands_test

import (
	"testing"

	"delivery-sim/internal/core/application/usecases/commands"
	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/services/dispatch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunSimulationCommand_ValidInput(t *testing.T) {
	id := kernel.NewUUID()
	cmd, err := commands.NewRunSimulationCommand(id, "friday", dispatch.KindBogo, 3)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, id, cmd.RunID())
	assert.Equal(t, "friday", cmd.Scenario())
	assert.Equal(t, dispatch.KindBogo, cmd.Service())
	assert.Equal(t, 3, cmd.Runs())
}

func TestNewRunSimulationCommand_InvalidRunID(t *testing.T) {
	_, err := commands.NewRunSimulationCommand(kernel.UUID{}, "friday", dispatch.KindBasic, 1)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewRunSimulationCommand_EmptyScenario(t *testing.T) {
	_, err := commands.NewRunSimulationCommand(kernel.NewUUID(), "", dispatch.KindBasic, 1)
	require.ErrorIs(t, err, commands.ErrScenarioNameIsRequired)
}

func TestNewRunSimulationCommand_UnknownService(t *testing.T) {
	_, err := commands.NewRunSimulationCommand(kernel.NewUUID(), "friday", "teleport", 1)
	require.ErrorIs(t, err, commands.ErrUnknownService)
	assert.Contains(t, err.Error(), "teleport")
}

func TestNewRunSimulationCommand_InvalidRuns(t *testing.T) {
	_, err := commands.NewRunSimulationCommand(kernel.NewUUID(), "friday", dispatch.KindBasic, 0)
	require.ErrorIs(t, err, commands.ErrRunsAreInvalid)
}

func TestNewRunSimulationCommand_JoinsErrors(t *testing.T) {
	_, err := commands.NewRunSimulationCommand(kernel.UUID{}, "", "", -1)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	require.ErrorIs(t, err, commands.ErrScenarioNameIsRequired)
	require.ErrorIs(t, err, commands.ErrUnknownService)
	require.ErrorIs(t, err, commands.ErrRunsAreInvalid)
}

func TestRunSimulationCommand_ZeroValue(t *testing.T) {
	var cmd commands.RunSimulationCommand
	require.ErrorIs(t, cmd.Validate(), commands.ErrRunSimulationCommandIsNotConstructed)
}
