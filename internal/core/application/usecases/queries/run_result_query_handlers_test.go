package queries_test

import (
	"context"
	"testing"
	"time"

	"delivery-sim/internal/adapters/out/postgres/runrepo"
	"delivery-sim/internal/core/application/usecases/queries"
	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/model/run"
	"delivery-sim/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

type RunResultQueryHandlersTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *runrepo.GormRunRepository
	get        queries.GetRunResultQueryHandler
	list       queries.ListRunResultsQueryHandler
}

func (suite *RunResultQueryHandlersTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&runrepo.RunDTO{}, &runrepo.ScoreDTO{})
	suite.Require().NoError(err)

	suite.repository = runrepo.NewGormRunRepository(db, noopTracker{})
	suite.get = queries.NewGetRunResultQueryHandler(db)
	suite.list = queries.NewListRunResultsQueryHandler(db)
}

func (suite *RunResultQueryHandlersTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *RunResultQueryHandlersTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE runs, run_scores").Error
	suite.Require().NoError(err)
}

func (suite *RunResultQueryHandlersTestSuite) store(scenario string, finishedAt time.Time, scores map[string]float64) *run.Result {
	result, err := run.NewResult(kernel.NewUUID(), scenario, "basic", 2, scores, finishedAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(context.Background(), result))
	return result
}

func (suite *RunResultQueryHandlersTestSuite) TestGet_ExistingRun_ReturnsAllScores() {
	finished := time.Date(2024, 5, 3, 18, 30, 0, 0, time.UTC)
	stored := suite.store("friday", finished, map[string]float64{"in_time": 0.8, "amount_delivered": 1, "travel_distance": 0.3})
	suite.store("friday", finished.Add(time.Minute), map[string]float64{"in_time": 0.1})
	query, err := queries.NewGetRunResultQuery(stored.ID())
	suite.Require().NoError(err)

	response, err := suite.get.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(stored.ID(), response.ID)
	suite.Equal("friday", response.Scenario)
	suite.Equal("basic", response.Service)
	suite.Equal(2, response.Runs)
	suite.True(finished.Equal(response.FinishedAt))
	suite.Equal(stored.Scores(), response.Scores)
}

func (suite *RunResultQueryHandlersTestSuite) TestGet_UnknownRun_ReturnsNotFound() {
	query, err := queries.NewGetRunResultQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.get.Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *RunResultQueryHandlersTestSuite) TestGet_NotConstructed_ReturnsError() {
	_, err := suite.get.Handle(context.Background(), queries.GetRunResultQuery{})

	suite.Require().ErrorIs(err, queries.ErrGetRunResultQueryIsNotConstructed)
}

func (suite *RunResultQueryHandlersTestSuite) TestList_EmptyDatabase_ReturnsEmptySlice() {
	query, _ := queries.NewListRunResultsQuery("", 10)

	results, err := suite.list.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(results)
	suite.Empty(results)
}

func (suite *RunResultQueryHandlersTestSuite) TestList_NewestFirstWithLimitAndFilter() {
	base := time.Date(2024, 5, 3, 18, 0, 0, 0, time.UTC)
	oldest := suite.store("friday", base, map[string]float64{"in_time": 0.5, "amount_delivered": 0.9})
	middle := suite.store("lunch", base.Add(time.Hour), map[string]float64{"in_time": 0.6})
	newest := suite.store("friday", base.Add(2*time.Hour), map[string]float64{"in_time": 0.7, "travel_distance": 0.2})

	all, _ := queries.NewListRunResultsQuery("", 10)
	results, err := suite.list.Handle(context.Background(), all)
	suite.Require().NoError(err)
	suite.Require().Len(results, 3)
	suite.Equal([]kernel.UUID{newest.ID(), middle.ID(), oldest.ID()},
		[]kernel.UUID{results[0].ID, results[1].ID, results[2].ID})
	suite.Equal(newest.Scores(), results[0].Scores)
	suite.Equal(oldest.Scores(), results[2].Scores)

	limited, _ := queries.NewListRunResultsQuery("", 2)
	results, err = suite.list.Handle(context.Background(), limited)
	suite.Require().NoError(err)
	suite.Require().Len(results, 2)
	suite.Len(results[0].Scores, 2)

	friday, _ := queries.NewListRunResultsQuery("friday", 10)
	results, err = suite.list.Handle(context.Background(), friday)
	suite.Require().NoError(err)
	suite.Require().Len(results, 2)
	suite.Equal(newest.ID(), results[0].ID)
	suite.Equal(oldest.ID(), results[1].ID)
}

func TestRunResultQueryHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(RunResultQueryHandlersTestSuite))
}
