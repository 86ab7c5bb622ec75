package simulation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/core/domain/services/dispatch"
	"delivery-sim/internal/core/domain/services/rating"
	"delivery-sim/internal/pkg/errs"

	"github.com/samber/lo"
)

// VehicleSnapshot is the state of one spawned vehicle after a live tick.
type VehicleSnapshot struct {
	ID        int     `json:"id"`
	Component string  `json:"component"`
	Orders    int     `json:"orders"`
	Weight    float64 `json:"weight"`
	Capacity  float64 `json:"capacity"`
	Idle      bool    `json:"idle"`
}

// Snapshot is the observable state of a live simulation.
type Snapshot struct {
	Scenario      string             `json:"scenario"`
	Service       string             `json:"service"`
	Run           int                `json:"run"`
	Tick          int64              `json:"tick"`
	Length        int64              `json:"length"`
	PendingOrders int                `json:"pending_orders"`
	LastEvents    int                `json:"last_events"`
	Scores        map[string]float64 `json:"scores"`
	Vehicles      []VehicleSnapshot  `json:"vehicles"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// Live drives one problem tick by tick on behalf of an external clock such as a
// scheduler. Once the problem length is reached, the run is over and the next
// Step starts a new one. All methods are safe for concurrent use.
//
// Example:
//
//	live, err := simulation.NewLive(problem, factory, logger)
//	scores, finished, err := live.Step(ctx)
//	if finished {
//	    store(scores)
//	}
type Live struct {
	problem ProblemArchetype
	service string
	sim     *Simulation
	logger  *slog.Logger

	mu       sync.Mutex
	run      int
	setUp    bool
	snapshot Snapshot
}

// NewLive creates a live simulation of problem driven by a service of
// serviceFactory. Ticks are not paced: the caller decides when Step runs.
func NewLive(problem ProblemArchetype, serviceFactory dispatch.Factory, logger *slog.Logger) (*Live, error) {
	if serviceFactory == nil {
		return nil, errs.NewValueIsRequiredError("delivery service factory")
	}
	if logger == nil {
		logger = slog.Default()
	}

	sims, err := NewRunner(logger).CreateSimulations(ProblemGroup{problems: []ProblemArchetype{problem}}, NewConfig(0), serviceFactory)
	if err != nil {
		return nil, err
	}

	l := &Live{
		problem: problem,
		service: serviceFactory.Kind(),
		sim:     sims[0],
		logger:  logger.With("component", "live-simulation", "scenario", problem.Name()),
	}
	l.snapshot = Snapshot{Scenario: problem.Name(), Service: l.service, Length: problem.Length()}
	return l, nil
}

// Step runs one tick. The tick that completes a run returns the final scores
// of the run and true.
func (l *Live) Step(ctx context.Context) (map[rating.Criterion]float64, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.setUp {
		if err := l.sim.Setup(); err != nil {
			return nil, false, err
		}
		l.setUp = true
		l.run++
		l.logger.InfoContext(ctx, "live run started", "run", l.run)
	}

	if err := l.sim.RunCurrentTick(); err != nil {
		l.setUp = false
		return nil, false, err
	}
	l.snapshot = l.capture()

	length := l.problem.Length()
	if length < 0 || l.sim.CurrentTick() < length {
		return nil, false, nil
	}

	l.setUp = false
	scores := l.sim.Ratings()
	l.logger.InfoContext(ctx, "live run finished", "run", l.run, "scores", l.snapshot.Scores)
	return scores, true, nil
}

// Snapshot returns the state after the last Step.
func (l *Live) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.snapshot
	s.Scores = lo.Assign(s.Scores)
	s.Vehicles = append([]VehicleSnapshot(nil), s.Vehicles...)
	return s
}

// Scenario returns the name of the simulated problem.
func (l *Live) Scenario() string {
	return l.problem.Name()
}

// Service returns the kind of the driving delivery service.
func (l *Live) Service() string {
	return l.service
}

func (l *Live) capture() Snapshot {
	service := l.sim.DeliveryService()
	return Snapshot{
		Scenario:      l.problem.Name(),
		Service:       l.service,
		Run:           l.run,
		Tick:          l.sim.CurrentTick(),
		Length:        l.problem.Length(),
		PendingOrders: len(service.PendingOrders()),
		LastEvents:    len(l.sim.LastEvents()),
		Scores: lo.MapKeys(l.sim.Ratings(), func(_ float64, c rating.Criterion) string {
			return c.Key()
		}),
		Vehicles: lo.Map(service.Manager().Vehicles(), func(v *fleet.Vehicle, _ int) VehicleSnapshot {
			return VehicleSnapshot{
				ID:        v.ID(),
				Component: v.Occupied().Component().Name(),
				Orders:    len(v.Orders()),
				Weight:    v.CurrentWeight(),
				Capacity:  v.Capacity(),
				Idle:      v.IsIdle(),
			}
		}),
		UpdatedAt: time.Now().UTC(),
	}
}
