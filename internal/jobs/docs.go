// Package jobs provides scheduled background tasks for the simulation service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Schedules use the six field format with a leading seconds field.
//
// # Available Jobs
//
// 1. LiveSimulationJob - Advances the live simulation by one tick per schedule
// firing and stores the scores of every completed run
// 2. BenchmarkJob - Periodically simulates a list of scenarios with one delivery
// service and stores the results
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewLiveSimulationJob(live, saveHandler, "* * * * * *", logger),
//		jobs.NewBenchmarkJob(runHandler, []string{"friday"}, "basic", 3, "0 0 3 * * *", logger),
//	)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Overlapping Firings
//
// A firing is skipped while the previous one of the same job is still running, so
// a slow tick or benchmark never piles up.
//
// # Error Handling
//
// - Errors of a firing are logged, the job keeps its schedule
// - Failed job starts will stop any already running jobs
package jobs
