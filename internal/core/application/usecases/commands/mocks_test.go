package commands_test

import (
	"context"
	"errors"
	"testing"

	"delivery-sim/internal/core/application/simulation"
	"delivery-sim/internal/core/application/usecases/commands"
	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/core/domain/model/run"
	"delivery-sim/internal/core/domain/services/generator"
	"delivery-sim/internal/core/domain/services/pathcalc"
	"delivery-sim/internal/core/domain/services/rating"
	"delivery-sim/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRunRepository struct{ mock.Mock }

func (m *MockRunRepository) Add(ctx context.Context, r *run.Result) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRunRepository) Get(_ context.Context, _ kernel.UUID) (*run.Result, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockRunRepository) List(_ context.Context, _ string, _ int) ([]*run.Result, error) {
	return nil, errors.New("not implemented in mock")
}

type MockRunUoW struct{ mock.Mock }

func (m *MockRunUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockRunUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockRunUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRunUoW) RunRepository() ports.RunRepository {
	args := m.Called()
	return args.Get(0).(ports.RunRepository)
}

type MockRunUoWFactory struct{ mock.Mock }

func (m *MockRunUoWFactory) Create() commands.RunUoW {
	args := m.Called()
	return args.Get(0).(commands.RunUoW)
}

type MockScenarioSource struct{ mock.Mock }

func (m *MockScenarioSource) ProblemGroup(name string) (simulation.ProblemGroup, error) {
	args := m.Called(name)
	return args.Get(0).(simulation.ProblemGroup), args.Error(1)
}

// tinyGroup is a single restaurant next to one neighborhood, without orders.
func tinyGroup(t *testing.T) simulation.ProblemGroup {
	t.Helper()

	b := region.NewBuilder()
	require.NoError(t, b.AddRestaurantPreset(kernel.NewLocation(0, 0), region.JavaHut))
	require.NoError(t, b.AddNeighborhood("N", kernel.NewLocation(0, 2)))
	require.NoError(t, b.AddEdge("R-N", kernel.NewLocation(0, 0), kernel.NewLocation(0, 2)))
	r, err := b.Build()
	require.NoError(t, err)

	fb := fleet.NewBuilder().SetRegion(r).SetPathCalculator(pathcalc.NewDijkstra())
	require.NoError(t, fb.AddVehicle(kernel.NewLocation(0, 0), 1))
	manager, err := fb.Build()
	require.NoError(t, err)

	archetype, err := simulation.NewProblemArchetype("tiny", generator.EmptyFactory{}, manager,
		map[rating.Criterion]rating.Factory{
			rating.AmountDelivered: rating.AmountDeliveredFactory{Factor: rating.DefaultAmountDeliveredFactor},
			rating.InTime:          rating.InTimeFactory{IgnoredTicksOff: 0, MaxTicksOff: 5},
		}, 5)
	require.NoError(t, err)

	group, err := simulation.NewProblemGroup([]simulation.ProblemArchetype{archetype}, archetype.Criteria())
	require.NoError(t, err)
	return group
}
