package simulation_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"delivery-sim/internal/core/application/simulation"
	"delivery-sim/internal/core/domain/model/event"
	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/core/domain/services/dispatch"
	"delivery-sim/internal/core/domain/services/generator"
	"delivery-sim/internal/core/domain/services/pathcalc"
	"delivery-sim/internal/core/domain/services/rating"
	"delivery-sim/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockListener struct{ mock.Mock }

func (m *MockListener) OnTick(events []event.Event, tick int64) {
	m.Called(events, tick)
}

type fixture struct {
	manager   *fleet.Manager
	generator generator.Factory
	raters    map[rating.Criterion]rating.Factory
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	b := region.NewBuilder()
	require.NoError(t, b.AddRestaurantPreset(kernel.NewLocation(0, 0), region.JavaHut))
	require.NoError(t, b.AddNeighborhood("Uptown", kernel.NewLocation(3, 4)))
	require.NoError(t, b.AddEdge("JH-UP", kernel.NewLocation(0, 0), kernel.NewLocation(3, 4)))
	r, err := b.Build()
	require.NoError(t, err)

	mb := fleet.NewBuilder().SetRegion(r).SetPathCalculator(pathcalc.NewDijkstra())
	require.NoError(t, mb.AddVehicle(kernel.NewLocation(0, 0), 10))
	m, err := mb.Build()
	require.NoError(t, err)

	amount, err := rating.NewAmountDeliveredFactory(rating.DefaultAmountDeliveredFactor)
	require.NoError(t, err)
	distance, err := rating.NewTravelDistanceFactory(rating.DefaultTravelDistanceFactor, nil)
	require.NoError(t, err)

	return fixture{
		manager: m,
		generator: generator.FridayFactory{Region: r, Config: generator.FridayConfig{
			OrderCount:        5,
			DeliveryInterval:  20,
			MaxWeight:         1,
			StandardDeviation: 0.25,
			LastTick:          10,
			Seed:              1,
		}},
		raters: map[rating.Criterion]rating.Factory{
			rating.AmountDelivered: amount,
			rating.TravelDistance:  distance,
		},
	}
}

func (f fixture) simulation(t *testing.T, config *simulation.Config) *simulation.Simulation {
	t.Helper()

	service, err := dispatch.NewBasic(f.manager, nil)
	require.NoError(t, err)
	sim, err := simulation.New(config, service, f.raters, f.generator, nil)
	require.NoError(t, err)
	return sim
}

func TestNew(t *testing.T) {
	t.Run("should require config, service and generator", func(t *testing.T) {
		sim, err := simulation.New(nil, nil, nil, nil, nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Nil(t, sim)
	})
}

func TestSimulation_Run(t *testing.T) {
	t.Run("should run the requested number of ticks and rate them", func(t *testing.T) {
		// Given
		f := newFixture(t)
		sim := f.simulation(t, simulation.NewConfig(0))
		listener := &MockListener{}
		listener.On("OnTick", mock.Anything, mock.AnythingOfType("int64")).Return().Times(60)
		sim.AddListener(listener)

		// When
		err := sim.Run(context.Background(), 60)

		// Then
		require.NoError(t, err)
		listener.AssertExpectations(t)
		assert.Equal(t, int64(60), sim.CurrentTick())
		assert.False(t, sim.IsRunning())

		amount, err := sim.RatingFor(rating.AmountDelivered)
		require.NoError(t, err)
		assert.InDelta(t, 1, amount, 1e-9)
		distance, err := sim.RatingFor(rating.TravelDistance)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, distance, 0.0)
		assert.LessOrEqual(t, distance, 1.0)
		assert.Len(t, sim.Ratings(), 2)
	})

	t.Run("should start every run from scratch", func(t *testing.T) {
		f := newFixture(t)
		sim := f.simulation(t, simulation.NewConfig(0))
		require.NoError(t, sim.Run(context.Background(), 60))
		first := sim.Ratings()

		require.NoError(t, sim.Run(context.Background(), 60))

		assert.Equal(t, first, sim.Ratings())
		assert.Equal(t, int64(60), sim.CurrentTick())
	})

	t.Run("should stop an endless run on End", func(t *testing.T) {
		// Given
		f := newFixture(t)
		sim := f.simulation(t, simulation.NewConfig(1))
		done := make(chan error, 1)

		// When
		go func() { done <- sim.Run(context.Background(), -1) }()
		require.Eventually(t, func() bool { return sim.CurrentTick() > 3 }, 2*time.Second, 5*time.Millisecond)
		sim.End()

		// Then
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("simulation did not stop")
		}
		assert.False(t, sim.IsRunning())
	})

	t.Run("should honour End called before Run", func(t *testing.T) {
		// Given
		f := newFixture(t)
		sim := f.simulation(t, simulation.NewConfig(0))
		sim.End()

		// When
		err := sim.Run(context.Background(), 60)

		// Then
		require.NoError(t, err)
		assert.Zero(t, sim.CurrentTick())
		assert.False(t, sim.IsRunning())
	})

	t.Run("should clear End once a run is over", func(t *testing.T) {
		f := newFixture(t)
		sim := f.simulation(t, simulation.NewConfig(0))
		sim.End()
		require.NoError(t, sim.Run(context.Background(), 60))

		err := sim.Run(context.Background(), 60)

		require.NoError(t, err)
		assert.Equal(t, int64(60), sim.CurrentTick())
	})

	t.Run("should stop when the context is cancelled", func(t *testing.T) {
		f := newFixture(t)
		sim := f.simulation(t, simulation.NewConfig(1))
		ctx, cancel := context.WithCancel(context.Background())
		var ticks atomic.Int64
		counter := listenerFunc(func([]event.Event, int64) {
			if ticks.Add(1) == 5 {
				cancel()
			}
		})
		sim.AddListener(&counter)

		err := sim.Run(ctx, -1)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("should not tick while paused", func(t *testing.T) {
		f := newFixture(t)
		config := simulation.NewConfig(0)
		config.SetPaused(true)
		sim := f.simulation(t, config)
		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
		defer cancel()

		err := sim.Run(ctx, 10)

		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Zero(t, sim.CurrentTick())
	})
}

func TestSimulation_RunCurrentTick(t *testing.T) {
	t.Run("should require setup", func(t *testing.T) {
		sim := newFixture(t).simulation(t, simulation.NewConfig(0))

		require.ErrorIs(t, sim.RunCurrentTick(), simulation.ErrNotSetUp)
	})

	t.Run("should expose the events of the last tick", func(t *testing.T) {
		// Given
		sim := newFixture(t).simulation(t, simulation.NewConfig(0))
		require.NoError(t, sim.Setup())

		// When
		require.NoError(t, sim.RunCurrentTick())

		// Then
		events := sim.LastEvents()
		require.NotEmpty(t, events)
		assert.Len(t, event.Filter[*event.SpawnEvent](events), 1)
		assert.Equal(t, int64(1), sim.CurrentTick())
	})
}

func TestSimulation_RatingFor(t *testing.T) {
	t.Run("should fail for criteria without rater", func(t *testing.T) {
		sim := newFixture(t).simulation(t, simulation.NewConfig(0))
		require.NoError(t, sim.Setup())

		_, err := sim.RatingFor(rating.InTime)

		require.ErrorIs(t, err, simulation.ErrNoRater)
	})
}

func TestSimulation_RemoveListener(t *testing.T) {
	t.Run("should stop notifying removed listeners", func(t *testing.T) {
		sim := newFixture(t).simulation(t, simulation.NewConfig(0))
		listener := &MockListener{}
		sim.AddListener(listener)

		assert.True(t, sim.RemoveListener(listener))
		assert.False(t, sim.RemoveListener(listener))
		require.NoError(t, sim.Run(context.Background(), 3))

		listener.AssertNotCalled(t, "OnTick", mock.Anything, mock.Anything)
	})
}

type listenerFunc func(events []event.Event, tick int64)

func (f *listenerFunc) OnTick(events []event.Event, tick int64) {
	(*f)(events, tick)
}
