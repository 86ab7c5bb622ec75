// Package http exposes the simulation service over a JSON API built on echo.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"delivery-sim/internal/adapters/in/scenario"
	"delivery-sim/internal/core/application/simulation"
	"delivery-sim/internal/core/application/usecases/commands"
	"delivery-sim/internal/core/application/usecases/queries"
	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/services/dispatch"
	"delivery-sim/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"github.com/samber/lo"
)

// DefaultListLimit is used when GET /api/v1/runs has no limit parameter.
const DefaultListLimit = 20

type (
	runSimulationHandler interface {
		Handle(ctx context.Context, cmd commands.RunSimulationCommand) error
	}

	getRunResultHandler interface {
		Handle(ctx context.Context, query queries.GetRunResultQuery) (queries.RunResultResponse, error)
	}

	listRunResultsHandler interface {
		Handle(ctx context.Context, query queries.ListRunResultsQuery) ([]queries.RunResultResponse, error)
	}

	scenarioLister interface {
		Names() ([]string, error)
	}
)

// LiveSnapshotter reports the state of the live simulation.
type LiveSnapshotter interface {
	Snapshot() simulation.Snapshot
}

// LiveSource returns live as a LiveSnapshotter, or a nil one when live is nil
// so that GET /api/v1/live answers 404.
func LiveSource(live *simulation.Live) LiveSnapshotter {
	if live == nil {
		return nil
	}
	return live
}

// Error is the body of every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewRun is the body of POST /api/v1/runs. Service defaults to basic and runs
// to 1.
type NewRun struct {
	Scenario string `json:"scenario"`
	Service  string `json:"service"`
	Runs     int    `json:"runs"`
}

// CreatedRun is returned once a run result is stored.
type CreatedRun struct {
	ID kernel.UUID `json:"id"`
}

// RunResult is the JSON form of a stored run result.
type RunResult struct {
	ID         kernel.UUID        `json:"id"`
	Scenario   string             `json:"scenario"`
	Service    string             `json:"service"`
	Runs       int                `json:"runs"`
	FinishedAt time.Time          `json:"finished_at"`
	Scores     map[string]float64 `json:"scores"`
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	runSimulationHandler runSimulationHandler

	// Query handlers
	getRunResultHandler   getRunResultHandler
	listRunResultsHandler listRunResultsHandler

	scenarios scenarioLister
	live      LiveSnapshotter
}

// NewServer creates the server. live may be nil when no live simulation runs;
// use LiveSource to pass a possibly nil *simulation.Live.
func NewServer(
	runSimulationHandler runSimulationHandler,
	getRunResultHandler getRunResultHandler,
	listRunResultsHandler listRunResultsHandler,
	scenarios scenarioLister,
	live LiveSnapshotter,
) *Server {
	return &Server{
		runSimulationHandler:  runSimulationHandler,
		getRunResultHandler:   getRunResultHandler,
		listRunResultsHandler: listRunResultsHandler,
		scenarios:             scenarios,
		live:                  live,
	}
}

// RegisterRoutes adds every endpoint of the server to e. Requests under
// /api/v1 are validated against api/openapi.yml before they reach a handler.
func (s *Server) RegisterRoutes(e *echo.Echo) error {
	doc, err := LoadOpenAPI(context.Background())
	if err != nil {
		return err
	}
	validator, err := RequestValidator(doc)
	if err != nil {
		return err
	}

	e.GET("/health", s.Health)

	api := e.Group("/api/v1", validator)
	api.GET("/scenarios", s.GetScenarios)
	api.POST("/runs", s.CreateRun)
	api.GET("/runs", s.GetRuns)
	api.GET("/runs/:id", s.GetRun)
	api.GET("/live", s.GetLive)
	return nil
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetScenarios handles GET /api/v1/scenarios - lists the scenario names.
func (s *Server) GetScenarios(ctx echo.Context) error {
	names, err := s.scenarios.Names()
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to list scenarios")
	}
	return ctx.JSON(http.StatusOK, names)
}

// CreateRun handles POST /api/v1/runs - simulates a scenario and stores the result.
// The request returns once the simulation is finished.
func (s *Server) CreateRun(ctx echo.Context) error {
	var body NewRun
	if err := ctx.Bind(&body); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}
	if body.Service == "" {
		body.Service = dispatch.KindBasic
	}
	if body.Runs == 0 {
		body.Runs = 1
	}

	runID := kernel.NewUUID()
	cmd, err := commands.NewRunSimulationCommand(runID, body.Scenario, body.Service, body.Runs)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid run request: "+err.Error())
	}

	if err = s.runSimulationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
			return errorJSON(ctx, http.StatusNotFound, "Scenario not found: "+body.Scenario)
		case errors.Is(err, scenario.ErrInvalidScenario):
			return errorJSON(ctx, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return errorJSON(ctx, http.StatusServiceUnavailable, "Simulation was cancelled")
		default:
			return errorJSON(ctx, http.StatusInternalServerError, "Failed to run simulation")
		}
	}

	return ctx.JSON(http.StatusCreated, CreatedRun{ID: runID})
}

// GetRuns handles GET /api/v1/runs - lists stored results, newest first.
// Optional query parameters: scenario and limit.
func (s *Server) GetRuns(ctx echo.Context) error {
	var scenarioName *string
	if err := runtime.BindQueryParameter("form", true, false, "scenario", ctx.QueryParams(), &scenarioName); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid scenario: "+err.Error())
	}
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &limit); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid limit: "+err.Error())
	}

	query, err := queries.NewListRunResultsQuery(lo.FromPtr(scenarioName), lo.FromPtrOr(limit, DefaultListLimit))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	results, err := s.listRunResultsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve runs")
	}

	response := make([]RunResult, len(results))
	for i, r := range results {
		response[i] = toRunResult(r)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetRun handles GET /api/v1/runs/:id - retrieves one stored result.
func (s *Server) GetRun(ctx echo.Context) error {
	var rawID string
	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &rawID, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid run id")
	}
	id, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid run id")
	}

	query, err := queries.NewGetRunResultQuery(id)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	result, err := s.getRunResultHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return errorJSON(ctx, http.StatusNotFound, "Run not found")
		}
		return errorJSON(ctx, http.StatusInternalServerError, "Failed to retrieve run")
	}

	return ctx.JSON(http.StatusOK, toRunResult(result))
}

// GetLive handles GET /api/v1/live - the state of the live simulation.
func (s *Server) GetLive(ctx echo.Context) error {
	if s.live == nil {
		return errorJSON(ctx, http.StatusNotFound, "Live simulation is disabled")
	}
	return ctx.JSON(http.StatusOK, s.live.Snapshot())
}

func toRunResult(r queries.RunResultResponse) RunResult {
	return RunResult{
		ID:         r.ID,
		Scenario:   r.Scenario,
		Service:    r.Service,
		Runs:       r.Runs,
		FinishedAt: r.FinishedAt,
		Scores:     r.Scores,
	}
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}
