package jobs

import (
	"context"
	"log/slog"

	"delivery-sim/internal/core/application/usecases/commands"
	"delivery-sim/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

type simulationRunner interface {
	Handle(ctx context.Context, cmd commands.RunSimulationCommand) error
}

// BenchmarkJob simulates a fixed list of scenarios on a schedule. Every scenario
// yields one stored run result.
type BenchmarkJob struct {
	handler   simulationRunner
	scenarios []string
	service   string
	runs      int
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewBenchmarkJob creates the job. Scenarios are simulated in the given order
// with runs runs each.
func NewBenchmarkJob(
	handler simulationRunner,
	scenarios []string,
	service string,
	runs int,
	schedule string,
	logger *slog.Logger,
) *BenchmarkJob {
	ctx, cancel := context.WithCancel(context.Background())
	return &BenchmarkJob{
		handler:   handler,
		scenarios: scenarios,
		service:   service,
		runs:      runs,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "benchmark_job"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (j *BenchmarkJob) Name() string {
	return "benchmark job"
}

// Start schedules the benchmark.
func (j *BenchmarkJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(j.ctx) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(j.ctx, "Benchmark job started", "schedule", j.schedule, "scenarios", j.scenarios)
	return nil
}

// Stop cancels a running benchmark and stops scheduling.
func (j *BenchmarkJob) Stop() {
	j.cancel()
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Benchmark job stopped")
}

// Run simulates every scenario once. A failing scenario is logged and skipped.
func (j *BenchmarkJob) Run(ctx context.Context) {
	for _, scenario := range j.scenarios {
		if ctx.Err() != nil {
			return
		}

		cmd, err := commands.NewRunSimulationCommand(kernel.NewUUID(), scenario, j.service, j.runs)
		if err != nil {
			j.logger.ErrorContext(ctx, "Invalid benchmark scenario", "scenario", scenario, "error", err)
			continue
		}
		if err = j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Benchmark scenario failed", "scenario", scenario, "error", err)
		}
	}
}
