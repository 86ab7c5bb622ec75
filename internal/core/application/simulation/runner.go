package simulation

import (
	"context"
	"fmt"
	"log/slog"

	"delivery-sim/internal/core/domain/services/dispatch"
	"delivery-sim/internal/core/domain/services/rating"
	"delivery-sim/internal/pkg/errs"
)

// Hook observes a simulation of a runner. run counts from 0.
type Hook func(problem ProblemArchetype, sim *Simulation, run int)

// Runner runs every problem of a group several times and averages the scores.
type Runner struct {
	logger *slog.Logger

	// OnSetup is called before each run.
	OnSetup Hook
	// OnFinished is called after each completed run.
	OnFinished Hook
}

func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger.With("component", "runner")}
}

// CreateSimulations builds one simulation per problem of group, each driving a
// delivery service created by serviceFactory for the problem's fleet.
func (r *Runner) CreateSimulations(
	group ProblemGroup,
	config *Config,
	serviceFactory dispatch.Factory,
) ([]*Simulation, error) {
	sims := make([]*Simulation, 0, len(group.problems))
	for _, p := range group.problems {
		service, err := serviceFactory.Create(p.manager)
		if err != nil {
			return nil, fmt.Errorf("create delivery service for %s: %w", p.name, err)
		}
		sim, err := New(config, service, p.raterFactories, p.generatorFactory, r.logger)
		if err != nil {
			return nil, fmt.Errorf("create simulation for %s: %w", p.name, err)
		}
		sims = append(sims, sim)
	}
	return sims, nil
}

// Run simulates every problem of group runs times and returns, per criterion of
// the group, the mean score over all simulations.
//
// Parameters:
//   - ctx: Cancels the runs
//   - group: Problems and criteria
//   - config: Pacing of the simulations
//   - runs: Runs per problem, at least 1
//   - serviceFactory: Creates the delivery service of each problem
//
// Returns:
//   - map[rating.Criterion]float64: Mean score per criterion
//   - error: Validation, simulation or context errors
func (r *Runner) Run(
	ctx context.Context,
	group ProblemGroup,
	config *Config,
	runs int,
	serviceFactory dispatch.Factory,
) (map[rating.Criterion]float64, error) {
	if runs < 1 {
		return nil, errs.NewValueIsOutOfRangeError("simulation runs", runs, 1, "+inf")
	}
	if serviceFactory == nil {
		return nil, errs.NewValueIsRequiredError("delivery service factory")
	}

	sims, err := r.CreateSimulations(group, config, serviceFactory)
	if err != nil {
		return nil, err
	}

	totals := make(map[rating.Criterion]float64, len(group.criteria))
	for i, sim := range sims {
		problem := group.problems[i]
		for run := range runs {
			if r.OnSetup != nil {
				r.OnSetup(problem, sim, run)
			}

			if err = sim.Run(ctx, problem.length); err != nil {
				return nil, fmt.Errorf("run %d of %s: %w", run, problem.name, err)
			}

			for _, c := range group.criteria {
				score, err := sim.RatingFor(c)
				if err != nil {
					return nil, err
				}
				totals[c] += score
			}
			r.logger.DebugContext(ctx, "simulation finished", "problem", problem.name, "run", run)

			if r.OnFinished != nil {
				r.OnFinished(problem, sim, run)
			}
		}
	}

	count := float64(len(sims) * runs)
	scores := make(map[rating.Criterion]float64, len(group.criteria))
	for _, c := range group.criteria {
		if count > 0 {
			scores[c] = totals[c] / count
		} else {
			scores[c] = 0
		}
	}
	r.logger.InfoContext(ctx, "runner finished", "problems", len(sims), "runs", runs)
	return scores, nil
}
