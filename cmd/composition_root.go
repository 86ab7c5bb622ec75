package cmd

import (
	"fmt"
	"log/slog"

	"delivery-sim/internal/adapters/in/scenario"
	"delivery-sim/internal/adapters/out/postgres"
	"delivery-sim/internal/core/application/simulation"
	"delivery-sim/internal/core/application/usecases/commands"
	"delivery-sim/internal/core/application/usecases/queries"
	"delivery-sim/internal/core/domain/services/dispatch"
	"delivery-sim/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	catalog    *scenario.Catalog
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	catalog, err := scenario.NewCatalog(config.ScenarioDir)
	if err != nil {
		return CompositionRoot{}, err
	}
	catalog.SetLogger(logger)

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		catalog:    catalog,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) Catalog() *scenario.Catalog {
	return c.catalog
}

func (c *CompositionRoot) CreateRunSimulationCommandHandler() commands.RunSimulationCommandHandler {
	var f commands.RunUoWFactory = FuncRunUoWFactory(func() commands.RunUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRunSimulationCommandHandler(f, c.catalog, simulation.NewConfig(c.config.TickMillis), c.logger)
}

func (c *CompositionRoot) CreateSaveRunResultCommandHandler() commands.SaveRunResultCommandHandler {
	var f commands.RunUoWFactory = FuncRunUoWFactory(func() commands.RunUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSaveRunResultCommandHandler(f)
}

func (c *CompositionRoot) CreateGetRunResultQueryHandler() queries.GetRunResultQueryHandler {
	return queries.NewGetRunResultQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListRunResultsQueryHandler() queries.ListRunResultsQueryHandler {
	return queries.NewListRunResultsQueryHandler(c.gormDB)
}

// CreateLiveSimulation builds the live simulation of the configured scenario.
// It returns nil without a configured scenario.
func (c *CompositionRoot) CreateLiveSimulation() (*simulation.Live, error) {
	if c.config.LiveScenario == "" {
		return nil, nil
	}

	doc, err := c.catalog.Load(c.config.LiveScenario)
	if err != nil {
		return nil, fmt.Errorf("live scenario: %w", err)
	}
	archetype, err := doc.Archetype(c.logger)
	if err != nil {
		return nil, fmt.Errorf("live scenario: %w", err)
	}
	serviceFactory, err := dispatch.NewFactory(c.config.LiveService, c.logger)
	if err != nil {
		return nil, fmt.Errorf("live service: %w", err)
	}
	return simulation.NewLive(archetype, serviceFactory, c.logger)
}

// CreateJobs creates the scheduled jobs. live may be nil, the benchmark job is
// only created for a non-empty scenario list.
func (c *CompositionRoot) CreateJobs(live *simulation.Live) *jobs.JobManager {
	var scheduled []jobs.Job

	if live != nil {
		saver := c.CreateSaveRunResultCommandHandler()
		scheduled = append(scheduled, jobs.NewLiveSimulationJob(live, &saver, c.config.LiveTickSchedule, c.logger))
	}
	if len(c.config.BenchmarkScenarios) > 0 {
		handler := c.CreateRunSimulationCommandHandler()
		scheduled = append(scheduled, jobs.NewBenchmarkJob(
			&handler,
			c.config.BenchmarkScenarios,
			c.config.BenchmarkService,
			c.config.BenchmarkRuns,
			c.config.BenchmarkSchedule,
			c.logger,
		))
	}

	return jobs.NewJobManager(scheduled...)
}

type FuncRunUoWFactory func() commands.RunUoW

func (f FuncRunUoWFactory) Create() commands.RunUoW {
	return f()
}
