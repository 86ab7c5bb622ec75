package simulation_test

import (
	"context"
	"testing"

	"delivery-sim/internal/core/application/simulation"
	"delivery-sim/internal/core/domain/services/dispatch"
	"delivery-sim/internal/core/domain/services/generator"
	"delivery-sim/internal/core/domain/services/rating"
	"delivery-sim/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProblemArchetype(t *testing.T) {
	t.Run("should validate every field", func(t *testing.T) {
		_, err := simulation.NewProblemArchetype("  ", nil, nil, nil, -1)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should expose its criteria in order", func(t *testing.T) {
		f := newFixture(t)

		p, err := simulation.NewProblemArchetype("lunch", f.generator, f.manager, f.raters, 60)

		require.NoError(t, err)
		assert.Equal(t, "lunch", p.String())
		assert.Equal(t, []rating.Criterion{rating.AmountDelivered, rating.TravelDistance}, p.Criteria())
		assert.Equal(t, int64(60), p.Length())
	})
}

func TestNewProblemGroup(t *testing.T) {
	t.Run("should require a rater for every criterion", func(t *testing.T) {
		f := newFixture(t)
		p, err := simulation.NewProblemArchetype("lunch", f.generator, f.manager, f.raters, 60)
		require.NoError(t, err)

		_, err = simulation.NewProblemGroup([]simulation.ProblemArchetype{p}, []rating.Criterion{rating.InTime})

		require.ErrorIs(t, err, simulation.ErrMissingRater)
	})
}

func TestRunner_Run(t *testing.T) {
	group := func(t *testing.T) simulation.ProblemGroup {
		t.Helper()
		f := newFixture(t)
		p, err := simulation.NewProblemArchetype("lunch", f.generator, f.manager, f.raters, 60)
		require.NoError(t, err)
		quiet, err := simulation.NewProblemArchetype("night", generator.EmptyFactory{}, newFixture(t).manager, f.raters, 10)
		require.NoError(t, err)
		g, err := simulation.NewProblemGroup(
			[]simulation.ProblemArchetype{p, quiet},
			[]rating.Criterion{rating.AmountDelivered},
		)
		require.NoError(t, err)
		return g
	}

	t.Run("should average the scores over problems and runs", func(t *testing.T) {
		// Given
		runner := simulation.NewRunner(nil)
		var setups, finished int
		runner.OnSetup = func(simulation.ProblemArchetype, *simulation.Simulation, int) { setups++ }
		runner.OnFinished = func(p simulation.ProblemArchetype, sim *simulation.Simulation, _ int) {
			finished++
			assert.Equal(t, p.Length(), sim.CurrentTick())
		}
		factory, err := dispatch.NewFactory(dispatch.KindBasic, nil)
		require.NoError(t, err)

		// When
		scores, err := runner.Run(context.Background(), group(t), simulation.NewConfig(0), 3, factory)

		// Then
		require.NoError(t, err)
		assert.Equal(t, 6, setups)
		assert.Equal(t, 6, finished)
		require.Len(t, scores, 1)
		// the night shift receives nothing and scores 0
		assert.InDelta(t, 0.5, scores[rating.AmountDelivered], 1e-9)
	})

	t.Run("should require at least one run", func(t *testing.T) {
		factory, err := dispatch.NewFactory(dispatch.KindBasic, nil)
		require.NoError(t, err)

		_, err = simulation.NewRunner(nil).Run(context.Background(), group(t), simulation.NewConfig(0), 0, factory)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should stop on a cancelled context", func(t *testing.T) {
		factory, err := dispatch.NewFactory(dispatch.KindBogo, nil)
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = simulation.NewRunner(nil).Run(ctx, group(t), simulation.NewConfig(0), 1, factory)

		require.ErrorIs(t, err, context.Canceled)
	})
}
