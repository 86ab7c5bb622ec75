package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"delivery-sim/internal/core/application/simulation"
	"delivery-sim/internal/core/domain/services/dispatch"
	"delivery-sim/internal/core/domain/services/rating"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Dir        string
	Service    string
	Runs       int
	TickMillis int64
}

// RunResult is the JSON payload of a finished run command.
type RunResult struct {
	Scenario string             `json:"scenario"`
	Service  string             `json:"service"`
	Runs     int                `json:"runs"`
	Elapsed  string             `json:"elapsed"`
	Scores   map[string]float64 `json:"scores"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Simulate a scenario and print the scores",
		Long: `Simulate a scenario with one delivery service and print the mean score of
every enabled criterion.

The scenario is a YAML file path, or the name of a scenario in --dir.

Example:
  simctl run ./scenarios/friday.yaml --runs 5
  simctl run friday --dir ./scenarios --service bogo --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "scenarios", "scenario directory for names")
	cmd.Flags().StringVar(&opts.Service, "service", dispatch.KindBasic,
		"delivery service ("+strings.Join(dispatch.Kinds(), "|")+")")
	cmd.Flags().IntVar(&opts.Runs, "runs", 1, "runs per problem")
	cmd.Flags().Int64Var(&opts.TickMillis, "tick-millis", 0, "wall clock time per tick, 0 runs at full speed")

	return cmd
}

func runSimulation(opts *RunOptions, ref string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := formatter.Logger()

	if opts.Runs < 1 {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "--runs must be at least 1", nil)
	}
	if opts.TickMillis < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "--tick-millis must not be negative", nil)
	}
	serviceFactory, err := dispatch.NewFactory(opts.Service, logger)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "unknown service: "+opts.Service, err)
	}

	doc, err := loadScenario(ref, opts.Dir)
	if err != nil {
		return failLoad(formatter, ref, err)
	}
	group, err := doc.Group(logger)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvalidScenario, "invalid scenario: "+ref, err)
	}

	runner := simulation.NewRunner(logger)
	runner.OnFinished = func(p simulation.ProblemArchetype, _ *simulation.Simulation, run int) {
		formatter.VerboseLog("finished run %d of %s", run+1, p.Name())
	}

	started := time.Now()
	scores, err := runner.Run(cmd.Context(), group, simulation.NewConfig(opts.TickMillis), opts.Runs, serviceFactory)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeSimulation, "simulation failed", err)
	}

	result := RunResult{
		Scenario: doc.Name,
		Service:  opts.Service,
		Runs:     opts.Runs,
		Elapsed:  time.Since(started).Round(time.Millisecond).String(),
		Scores: lo.MapKeys(scores, func(_ float64, c rating.Criterion) string {
			return c.Key()
		}),
	}
	return formatter.Success(result, formatScores(result, scores))
}

func formatScores(result RunResult, scores map[rating.Criterion]float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s with %s, %d run(s) in %s\n", result.Scenario, result.Service, result.Runs, result.Elapsed)

	criteria := slices.Sorted(maps.Keys(scores))
	width := lo.Max(lo.Map(criteria, func(c rating.Criterion, _ int) int { return len(c.String()) }))
	for _, c := range criteria {
		fmt.Fprintf(&b, "  %-*s  %.4f\n", width, c.String(), scores[c])
	}
	return b.String()
}
