package dispatch

import (
	"log/slog"
	"math/rand/v2"
	"slices"

	"delivery-sim/internal/core/domain/model/event"
	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/core/domain/model/order"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/pkg/errs"

	"github.com/samber/lo"
)

const bogoSeed = 42

var _ DeliveryService = (*Bogo)(nil)

// Bogo drives every vehicle to a random node whenever it reaches one. At
// restaurants it loads the first pending order that fits, at neighborhoods it
// delivers whatever it carries for that neighborhood.
type Bogo struct {
	inbox
	rng     *rand.Rand
	nodes   []*region.Node
	pending []*order.ConfirmedOrder
}

// NewBogo creates a Bogo service. Its random source is seeded with a constant,
// so runs are reproducible.
func NewBogo(manager *fleet.Manager, logger *slog.Logger) (*Bogo, error) {
	if manager == nil {
		return nil, errs.NewValueIsRequiredError("manager")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bogo{
		inbox: inbox{manager: manager, logger: logger.With("component", "bogo-delivery-service")},
		rng:   newBogoRand(),
		nodes: manager.Region().Nodes(),
	}, nil
}

func newBogoRand() *rand.Rand {
	return rand.New(rand.NewPCG(bogoSeed, bogoSeed))
}

func (s *Bogo) Tick(tick int64) ([]event.Event, error) {
	received := s.receive(tick)

	events, err := s.manager.Tick(tick)
	if err != nil {
		return nil, err
	}
	s.pending = append(s.pending, received...)

	for _, e := range events {
		ve, ok := e.(event.VehicleEvent)
		if !ok {
			continue
		}
		v, ok := s.manager.Vehicle(ve.VehicleID())
		if !ok {
			continue
		}

		switch e := e.(type) {
		case *event.ArrivedAtRestaurantEvent:
			if err = s.load(v, e.Node(), tick); err != nil {
				return nil, err
			}
		case *event.ArrivedAtNeighborhoodEvent:
			if err = s.deliver(v, e.Node(), tick); err != nil {
				return nil, err
			}
		case *event.SpawnEvent, *event.ArrivedAtNodeEvent:
		default:
			continue
		}

		if err = s.moveToRandomNode(v); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (s *Bogo) PendingOrders() []*order.ConfirmedOrder {
	return slices.Clone(s.pending)
}

func (s *Bogo) Reset() {
	s.inbox.reset()
	s.pending = nil
	s.rng = newBogoRand()
}

func (s *Bogo) load(v *fleet.Vehicle, node *region.Node, tick int64) error {
	i := slices.IndexFunc(s.pending, func(o *order.ConfirmedOrder) bool {
		return o.Restaurant() == node && v.CurrentWeight()+o.Weight() <= v.Capacity()
	})
	if i < 0 {
		return nil
	}

	restaurant, err := s.manager.OccupiedRestaurant(node)
	if err != nil {
		return err
	}
	if err = restaurant.LoadOrder(v, s.pending[i], tick); err != nil {
		return err
	}
	s.pending = slices.Delete(s.pending, i, i+1)
	return nil
}

func (s *Bogo) deliver(v *fleet.Vehicle, node *region.Node, tick int64) error {
	neighborhood, err := s.manager.OccupiedNeighborhood(node)
	if err != nil {
		return err
	}
	for _, o := range v.Orders() {
		if !o.Location().IsEqual(node.Location()) {
			continue
		}
		if err = neighborhood.DeliverOrder(v, o, tick); err != nil {
			return err
		}
	}
	return nil
}

// moveToRandomNode sends v to a random node it can reach. A vehicle with no
// reachable node stays where it is.
func (s *Bogo) moveToRandomNode(v *fleet.Vehicle) error {
	current, ok := v.Node()
	if !ok {
		return nil
	}
	reachable, err := s.manager.PathCalculator().AllPathsTo(current)
	if err != nil {
		return err
	}

	candidates := lo.Filter(s.nodes, func(n *region.Node, _ int) bool {
		_, ok := reachable[n.Key()]
		return ok && n != current
	})
	if len(candidates) == 0 {
		return nil
	}
	return v.MoveDirect(candidates[s.rng.IntN(len(candidates))], nil)
}
