package jobs

import (
	"context"
	"log/slog"

	"delivery-sim/internal/core/application/usecases/commands"
	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/services/rating"

	"github.com/robfig/cron/v3"
)

type liveSimulation interface {
	Step(ctx context.Context) (map[rating.Criterion]float64, bool, error)
	Scenario() string
	Service() string
}

type runResultSaver interface {
	Handle(ctx context.Context, cmd commands.SaveRunResultCommand) error
}

// LiveSimulationJob advances the live simulation on a schedule.
// The scores of every completed run are stored as a run result of one run.
type LiveSimulationJob struct {
	live     liveSimulation
	saver    runResultSaver
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewLiveSimulationJob creates the job. schedule is a cron expression with
// seconds, "* * * * * *" ticks once per second.
func NewLiveSimulationJob(
	live liveSimulation,
	saver runResultSaver,
	schedule string,
	logger *slog.Logger,
) *LiveSimulationJob {
	return &LiveSimulationJob{
		live:     live,
		saver:    saver,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "live_simulation_job"),
	}
}

func (j *LiveSimulationJob) Name() string {
	return "live simulation job"
}

// Start schedules the ticks.
func (j *LiveSimulationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Tick(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Live simulation job started", "schedule", j.schedule)
	return nil
}

// Stop stops scheduling and waits for a running tick.
func (j *LiveSimulationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Live simulation job stopped")
}

// Tick advances the live simulation once and stores the result of a finished run.
func (j *LiveSimulationJob) Tick(ctx context.Context) {
	scores, finished, err := j.live.Step(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Live simulation tick failed", "error", err)
		return
	}
	if !finished {
		return
	}

	keyed := make(map[string]float64, len(scores))
	for criterion, score := range scores {
		keyed[criterion.Key()] = score
	}

	cmd, err := commands.NewSaveRunResultCommand(kernel.NewUUID(), j.live.Scenario(), j.live.Service(), 1, keyed)
	if err != nil {
		j.logger.ErrorContext(ctx, "Live simulation result is invalid", "error", err)
		return
	}
	if err = j.saver.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "Failed to store live simulation result", "error", err)
		return
	}
	j.logger.InfoContext(ctx, "Live simulation result stored", "run_id", cmd.RunID().String(), "scores", keyed)
}
