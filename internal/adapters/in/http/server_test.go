package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "delivery-sim/internal/adapters/in/http"
	"delivery-sim/internal/adapters/in/scenario"
	"delivery-sim/internal/core/application/simulation"
	"delivery-sim/internal/core/application/usecases/commands"
	"delivery-sim/internal/core/application/usecases/queries"
	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/services/dispatch"
	"delivery-sim/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRunSimulationHandler struct{ mock.Mock }

func (m *MockRunSimulationHandler) Handle(ctx context.Context, cmd commands.RunSimulationCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockGetRunResultHandler struct{ mock.Mock }

func (m *MockGetRunResultHandler) Handle(ctx context.Context, q queries.GetRunResultQuery) (queries.RunResultResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(queries.RunResultResponse), args.Error(1)
}

type MockListRunResultsHandler struct{ mock.Mock }

func (m *MockListRunResultsHandler) Handle(ctx context.Context, q queries.ListRunResultsQuery) ([]queries.RunResultResponse, error) {
	args := m.Called(ctx, q)
	results, _ := args.Get(0).([]queries.RunResultResponse)
	return results, args.Error(1)
}

type MockScenarioLister struct{ mock.Mock }

func (m *MockScenarioLister) Names() ([]string, error) {
	args := m.Called()
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

type stubLive struct{ snapshot simulation.Snapshot }

func (s stubLive) Snapshot() simulation.Snapshot { return s.snapshot }

type fixture struct {
	run       *MockRunSimulationHandler
	get       *MockGetRunResultHandler
	list      *MockListRunResultsHandler
	scenarios *MockScenarioLister
	echo      *echo.Echo
}

func newFixture(t *testing.T, live httpadapter.LiveSnapshotter) fixture {
	t.Helper()
	f := fixture{
		run:       new(MockRunSimulationHandler),
		get:       new(MockGetRunResultHandler),
		list:      new(MockListRunResultsHandler),
		scenarios: new(MockScenarioLister),
		echo:      echo.New(),
	}
	server := httpadapter.NewServer(f.run, f.get, f.list, f.scenarios, live)
	require.NoError(t, server.RegisterRoutes(f.echo))
	return f
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestServer_Health(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_GetScenarios(t *testing.T) {
	t.Run("should list the scenario names", func(t *testing.T) {
		f := newFixture(t, nil)
		f.scenarios.On("Names").Return([]string{"friday", "lunch"}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/scenarios", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `["friday","lunch"]`, rec.Body.String())
	})

	t.Run("should hide listing errors", func(t *testing.T) {
		f := newFixture(t, nil)
		f.scenarios.On("Names").Return(nil, errors.New("permission denied")).Once()

		rec := f.do(http.MethodGet, "/api/v1/scenarios", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "permission denied")
	})
}

func TestServer_CreateRun(t *testing.T) {
	t.Run("should run the simulation and return the new id", func(t *testing.T) {
		// Given
		f := newFixture(t, nil)
		var cmd commands.RunSimulationCommand
		f.run.On("Handle", mock.Anything, mock.AnythingOfType("commands.RunSimulationCommand")).
			Run(func(args mock.Arguments) { cmd = args.Get(1).(commands.RunSimulationCommand) }).
			Return(nil).Once()

		// When
		rec := f.do(http.MethodPost, "/api/v1/runs", `{"scenario":"friday","service":"bogo","runs":3}`)

		// Then
		require.Equal(t, http.StatusCreated, rec.Code)
		created := decode[httpadapter.CreatedRun](t, rec)
		assert.Equal(t, cmd.RunID(), created.ID)
		assert.Equal(t, "friday", cmd.Scenario())
		assert.Equal(t, dispatch.KindBogo, cmd.Service())
		assert.Equal(t, 3, cmd.Runs())
	})

	t.Run("should default service and runs", func(t *testing.T) {
		f := newFixture(t, nil)
		f.run.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RunSimulationCommand) bool {
			return cmd.Service() == dispatch.KindBasic && cmd.Runs() == 1
		})).Return(nil).Once()

		rec := f.do(http.MethodPost, "/api/v1/runs", `{"scenario":"friday"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		f.run.AssertExpectations(t)
	})

	t.Run("should reject invalid requests", func(t *testing.T) {
		f := newFixture(t, nil)

		for _, body := range []string{`{"scenario":""}`, `{"scenario":"x","service":"teleport"}`, `{"scenario":"x","runs":-2}`, `{`} {
			rec := f.do(http.MethodPost, "/api/v1/runs", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
			assert.Equal(t, http.StatusBadRequest, decode[httpadapter.Error](t, rec).Code, body)
		}
		f.run.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should map handler errors to status codes", func(t *testing.T) {
		cases := map[error]int{
			errs.NewObjectNotFoundError("scenario", "friday"):               http.StatusNotFound,
			fmt.Errorf("%w: name is required", scenario.ErrInvalidScenario): http.StatusUnprocessableEntity,
			context.DeadlineExceeded:                                         http.StatusServiceUnavailable,
			errors.New("connection refused"):                                 http.StatusInternalServerError,
		}
		for handlerErr, status := range cases {
			f := newFixture(t, nil)
			f.run.On("Handle", mock.Anything, mock.Anything).Return(handlerErr).Once()

			rec := f.do(http.MethodPost, "/api/v1/runs", `{"scenario":"friday"}`)

			assert.Equal(t, status, rec.Code, handlerErr.Error())
		}
	})
}

func TestServer_GetRuns(t *testing.T) {
	t.Run("should list results with the default limit", func(t *testing.T) {
		// Given
		f := newFixture(t, nil)
		id := kernel.NewUUID()
		finished := time.Date(2024, 5, 3, 18, 0, 0, 0, time.UTC)
		f.list.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListRunResultsQuery) bool {
			return q.Scenario() == "" && q.Limit() == httpadapter.DefaultListLimit
		})).Return([]queries.RunResultResponse{{
			ID: id, Scenario: "friday", Service: "basic", Runs: 2, FinishedAt: finished,
			Scores: map[string]float64{"in_time": 0.5},
		}}, nil).Once()

		// When
		rec := f.do(http.MethodGet, "/api/v1/runs", "")

		// Then
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, fmt.Sprintf(`[{"id":%q,"scenario":"friday","service":"basic","runs":2,
			"finished_at":"2024-05-03T18:00:00Z","scores":{"in_time":0.5}}]`, id.String()), rec.Body.String())
	})

	t.Run("should pass scenario and limit", func(t *testing.T) {
		f := newFixture(t, nil)
		f.list.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListRunResultsQuery) bool {
			return q.Scenario() == "lunch" && q.Limit() == 5
		})).Return([]queries.RunResultResponse{}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/runs?scenario=lunch&limit=5", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("should reject bad limits", func(t *testing.T) {
		f := newFixture(t, nil)

		for _, limit := range []string{"ten", "0", "100000", "2.5"} {
			rec := f.do(http.MethodGet, "/api/v1/runs?limit="+limit, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code, limit)
			assert.Equal(t, "Invalid query parameter limit", decode[httpadapter.Error](t, rec).Message, limit)
		}
		f.list.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestServer_GetRun(t *testing.T) {
	t.Run("should return the result", func(t *testing.T) {
		f := newFixture(t, nil)
		id := kernel.NewUUID()
		f.get.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetRunResultQuery) bool {
			return q.RunID() == id
		})).Return(queries.RunResultResponse{ID: id, Scenario: "friday", Scores: map[string]float64{"in_time": 1}}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/runs/"+id.String(), "")

		require.Equal(t, http.StatusOK, rec.Code)
		result := decode[httpadapter.RunResult](t, rec)
		assert.Equal(t, id, result.ID)
		assert.Equal(t, map[string]float64{"in_time": 1}, result.Scores)
	})

	t.Run("should return 404 for unknown runs", func(t *testing.T) {
		f := newFixture(t, nil)
		f.get.On("Handle", mock.Anything, mock.Anything).
			Return(queries.RunResultResponse{}, errs.NewObjectNotFoundError("run", "x")).Once()

		rec := f.do(http.MethodGet, "/api/v1/runs/"+kernel.NewUUID().String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("should return 400 for malformed ids", func(t *testing.T) {
		f := newFixture(t, nil)

		for _, id := range []string{"abc", "00000000-0000-0000-0000-000000000000"} {
			rec := f.do(http.MethodGet, "/api/v1/runs/"+id, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code, id)
		}
		f.get.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestServer_GetLive(t *testing.T) {
	t.Run("should return the snapshot", func(t *testing.T) {
		f := newFixture(t, &stubLive{snapshot: simulation.Snapshot{Scenario: "friday", Run: 2, Tick: 17}})

		rec := f.do(http.MethodGet, "/api/v1/live", "")

		require.Equal(t, http.StatusOK, rec.Code)
		snapshot := decode[simulation.Snapshot](t, rec)
		assert.Equal(t, "friday", snapshot.Scenario)
		assert.Equal(t, int64(17), snapshot.Tick)
	})

	t.Run("should return 404 without live simulation", func(t *testing.T) {
		f := newFixture(t, nil)

		rec := f.do(http.MethodGet, "/api/v1/live", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("should return 404 for a disabled live source", func(t *testing.T) {
		// Given
		var live *simulation.Live
		f := newFixture(t, httpadapter.LiveSource(live))

		// When
		rec := f.do(http.MethodGet, "/api/v1/live", "")

		// Then
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLiveSource(t *testing.T) {
	t.Run("should return a nil interface for a nil live simulation", func(t *testing.T) {
		source := httpadapter.LiveSource(nil)

		assert.True(t, source == nil)
	})
}
