package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"delivery-sim/internal/core/domain/model/event"
	"delivery-sim/internal/core/domain/services/dispatch"
	"delivery-sim/internal/core/domain/services/generator"
	"delivery-sim/internal/core/domain/services/rating"
	"delivery-sim/internal/pkg/errs"
)

// pausePollInterval is how often a paused simulation checks whether it may resume.
const pausePollInterval = 50 * time.Millisecond

var (
	// ErrNoRater is returned when a score is requested for a criterion without rater.
	ErrNoRater = errors.New("no rater for criterion")

	// ErrNotSetUp is returned when a tick is run before Setup.
	ErrNotSetUp = errors.New("simulation is not set up")
)

// Simulation feeds generated orders to a delivery service tick by tick and
// forwards the events of every tick to its listeners and raters.
//
// Run and RunCurrentTick must be called from one goroutine at a time. The
// accessors may be called from anywhere.
type Simulation struct {
	config           *Config
	service          dispatch.DeliveryService
	raterFactories   map[rating.Criterion]rating.Factory
	generatorFactory generator.Factory
	logger           *slog.Logger

	mu          sync.RWMutex
	listeners   []rating.Listener
	raters      map[rating.Criterion]rating.Rater
	generator   generator.OrderGenerator
	currentTick int64
	lastEvents  []event.Event

	running   atomic.Bool
	terminate atomic.Bool
}

// New creates a simulation.
//
// Parameters:
//   - config: Pacing settings
//   - service: The delivery service under test
//   - raterFactories: Raters created for every run, by criterion
//   - generatorFactory: Creates the order generator of every run
//   - logger: Logger, slog.Default when nil
//
// Returns:
//   - *Simulation: The simulation, set up by the first Run or Setup
//   - error: Joined ValueIsRequiredErrors
func New(
	config *Config,
	service dispatch.DeliveryService,
	raterFactories map[rating.Criterion]rating.Factory,
	generatorFactory generator.Factory,
	logger *slog.Logger,
) (*Simulation, error) {
	var errConfig, errService, errGenerator error
	if config == nil {
		errConfig = errs.NewValueIsRequiredError("config")
	}
	if service == nil {
		errService = errs.NewValueIsRequiredError("delivery service")
	}
	if generatorFactory == nil {
		errGenerator = errs.NewValueIsRequiredError("order generator factory")
	}
	if err := errors.Join(errConfig, errService, errGenerator); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Simulation{
		config:           config,
		service:          service,
		raterFactories:   maps.Clone(raterFactories),
		generatorFactory: generatorFactory,
		logger:           logger.With("component", "simulation"),
		raters:           make(map[rating.Criterion]rating.Rater),
	}, nil
}

// Setup starts a new run: the delivery service is reset, fresh raters and a fresh
// order generator are created and the tick counter returns to 0.
func (s *Simulation) Setup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.service.Reset()

	raters := make(map[rating.Criterion]rating.Rater, len(s.raterFactories))
	for criterion, factory := range s.raterFactories {
		r, err := factory.Create(s.service.Manager())
		if err != nil {
			return fmt.Errorf("create %s rater: %w", criterion, err)
		}
		raters[criterion] = r
	}

	g, err := s.generatorFactory.Create()
	if err != nil {
		return fmt.Errorf("create order generator: %w", err)
	}

	s.raters = raters
	s.generator = g
	s.currentTick = 0
	s.lastEvents = nil
	return nil
}

// Run sets up a new run and ticks until length ticks passed, End is called or ctx
// is done. A negative length runs until stopped. An End that arrives before Run
// stops it right after setup; the request is cleared once Run returns.
//
// Ticks are spaced by the configured tick duration. A tick that takes longer is
// logged and the next one starts right away.
//
// Returns:
//   - error: Setup or tick errors, or ctx.Err() when cancelled
func (s *Simulation) Run(ctx context.Context, length int64) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("simulation is already running")
	}
	defer s.running.Store(false)
	defer s.terminate.Store(false)

	if err := s.Setup(); err != nil {
		return err
	}

	for !s.terminate.Load() && (length < 0 || s.CurrentTick() < length) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.config.Paused() {
			if err := wait(ctx, pausePollInterval); err != nil {
				return err
			}
			continue
		}

		started := time.Now()
		if err := s.RunCurrentTick(); err != nil {
			return err
		}

		budget := s.config.TickDuration()
		if budget <= 0 {
			continue
		}

		elapsed := time.Since(started)
		if elapsed > budget {
			s.logger.WarnContext(ctx, "can't keep up, tick took longer than its budget",
				"tick", s.CurrentTick()-1, "elapsed", elapsed, "budget", budget)
			continue
		}
		if err := wait(ctx, budget-elapsed); err != nil {
			return err
		}
	}
	return nil
}

// RunCurrentTick hands the generated orders of the current tick to the delivery
// service, ticks it, notifies listeners and raters and advances the tick counter.
func (s *Simulation) RunCurrentTick() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generator == nil {
		return ErrNotSetUp
	}

	tick := s.currentTick
	s.service.Deliver(s.generator.GenerateOrders(tick))
	events, err := s.service.Tick(tick)
	if err != nil {
		return fmt.Errorf("tick %d: %w", tick, err)
	}

	s.lastEvents = events
	for _, criterion := range sortedCriteria(s.raters) {
		s.raters[criterion].OnTick(events, tick)
	}
	for _, l := range s.listeners {
		l.OnTick(events, tick)
	}
	s.currentTick++
	return nil
}

// End asks the simulation to stop after the current tick. When no run is in
// progress, the next Run stops before its first tick.
func (s *Simulation) End() {
	s.terminate.Store(true)
}

// IsRunning reports whether Run is in progress.
func (s *Simulation) IsRunning() bool {
	return s.running.Load()
}

// CurrentTick returns the tick that runs next.
func (s *Simulation) CurrentTick() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTick
}

// LastEvents returns the events of the last completed tick.
func (s *Simulation) LastEvents() []event.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lastEvents)
}

// RatingFor returns the current score of criterion.
func (s *Simulation) RatingFor(criterion rating.Criterion) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.raters[criterion]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoRater, criterion)
	}
	return r.Score(), nil
}

// Ratings returns the current score of every criterion with a rater.
func (s *Simulation) Ratings() map[rating.Criterion]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scores := make(map[rating.Criterion]float64, len(s.raters))
	for criterion, r := range s.raters {
		scores[criterion] = r.Score()
	}
	return scores
}

// AddListener registers l for the events of every following tick.
func (s *Simulation) AddListener(l rating.Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// RemoveListener unregisters l and reports whether it was registered.
func (s *Simulation) RemoveListener(l rating.Listener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.listeners, l)
	if i < 0 {
		return false
	}
	s.listeners = slices.Delete(s.listeners, i, i+1)
	return true
}

func (s *Simulation) Config() *Config {
	return s.config
}

func (s *Simulation) DeliveryService() dispatch.DeliveryService {
	return s.service
}

func sortedCriteria(raters map[rating.Criterion]rating.Rater) []rating.Criterion {
	return slices.Sorted(maps.Keys(raters))
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
