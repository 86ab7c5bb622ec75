package rating

import (
	"log/slog"

	"delivery-sim/internal/core/domain/model/event"
	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/core/domain/services/pathcalc"
	"delivery-sim/internal/pkg/errs"
)

// DefaultTravelDistanceFactor assumes a good service drives half of the worst case.
const DefaultTravelDistanceFactor = 0.5

// TravelDistanceRater compares the ticks vehicles spent on edges with a worst case
// in which every delivered order gets its own round trip from its restaurant.
//
// The score is max(0, 1 - actual / (worst * factor)), or 0 when nothing was
// delivered.
type TravelDistanceRater struct {
	factor  float64
	manager *fleet.Manager
	logger  *slog.Logger
	actual  int64
	worst   int64
}

func (r *TravelDistanceRater) OnTick(events []event.Event, tick int64) {
	for _, arrival := range event.Filter[event.NodeArrival](events) {
		if edge := arrival.LastEdge(); edge != nil {
			r.actual += edge.Duration()
		}
	}
	for _, e := range event.Filter[*event.DeliverOrderEvent](events) {
		restaurant := e.Order().Restaurant()
		destination := r.manager.Region().Node(e.Order().Location())
		if destination == nil {
			destination = e.Node()
		}
		route, err := r.manager.PathCalculator().Path(restaurant, destination)
		if err != nil {
			r.logger.Warn("no route for delivered order", "order", e.Order().ID(), "tick", tick, "error", err)
			continue
		}
		duration, err := pathcalc.Duration(restaurant, route)
		if err != nil {
			r.logger.Warn("broken route for delivered order", "order", e.Order().ID(), "tick", tick, "error", err)
			continue
		}
		r.worst += 2 * duration
	}
}

func (r *TravelDistanceRater) Score() float64 {
	budget := float64(r.worst) * r.factor
	if budget == 0 {
		return 0
	}
	return max(0, 1-float64(r.actual)/budget)
}

func (r *TravelDistanceRater) Criterion() Criterion {
	return TravelDistance
}

// TravelDistanceFactory creates TravelDistanceRater values bound to a manager.
// Raters log unroutable deliveries to Logger, or to slog.Default when it is nil.
type TravelDistanceFactory struct {
	Factor float64
	Logger *slog.Logger
}

// NewTravelDistanceFactory validates factor, which must lie in [0, 1].
func NewTravelDistanceFactory(factor float64, logger *slog.Logger) (TravelDistanceFactory, error) {
	if factor < 0 || factor > 1 {
		return TravelDistanceFactory{}, errs.NewValueIsOutOfRangeError("factor", factor, 0, 1)
	}
	return TravelDistanceFactory{Factor: factor, Logger: logger}, nil
}

func (f TravelDistanceFactory) Create(manager *fleet.Manager) (Rater, error) {
	if manager == nil {
		return nil, errs.NewValueIsRequiredError("manager")
	}
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TravelDistanceRater{
		factor:  f.Factor,
		manager: manager,
		logger:  logger.With("component", "travel-distance-rater"),
	}, nil
}

func (TravelDistanceFactory) Criterion() Criterion {
	return TravelDistance
}
