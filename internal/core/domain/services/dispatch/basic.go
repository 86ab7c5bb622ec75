package dispatch

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"delivery-sim/internal/core/domain/model/event"
	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/core/domain/model/order"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/pkg/errs"

	"github.com/samber/lo"
)

var _ DeliveryService = (*Basic)(nil)

// Basic sends vehicles on delivery tours.
//
// Every tick, pending orders are dispatched earliest deadline first onto idle
// vehicles waiting at the order's restaurant. A vehicle that loaded orders visits
// their destinations nearest first, delivers on arrival and returns to its
// starting restaurant. Idle empty vehicles drive to restaurants with pending
// orders nobody is serving, or back home.
type Basic struct {
	inbox
	dispatcher OrderDispatcher
	pending    []*order.ConfirmedOrder
}

// NewBasic creates a Basic service for the vehicles of manager.
func NewBasic(manager *fleet.Manager, logger *slog.Logger) (*Basic, error) {
	if manager == nil {
		return nil, errs.NewValueIsRequiredError("manager")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Basic{
		inbox:      inbox{manager: manager, logger: logger.With("component", "basic-delivery-service")},
		dispatcher: NewOrderDispatcher(manager),
	}, nil
}

func (s *Basic) Tick(tick int64) ([]event.Event, error) {
	received := s.receive(tick)

	events, err := s.manager.Tick(tick)
	if err != nil {
		return nil, err
	}

	s.pending = append(s.pending, received...)
	slices.SortStableFunc(s.pending, byDeadline)

	if err = s.dispatchPending(tick); err != nil {
		return nil, err
	}
	s.rebalance(tick)

	return events, nil
}

func (s *Basic) PendingOrders() []*order.ConfirmedOrder {
	return slices.Clone(s.pending)
}

func (s *Basic) Reset() {
	s.inbox.reset()
	s.pending = nil
}

func (s *Basic) dispatchPending(tick int64) error {
	idle := lo.Filter(s.manager.Vehicles(), func(v *fleet.Vehicle, _ int) bool {
		return v.IsIdle()
	})

	var loaded []*fleet.Vehicle
	remaining := make([]*order.ConfirmedOrder, 0, len(s.pending))
	for _, o := range s.pending {
		v, err := s.dispatcher.Dispatch(o, idle, tick)
		switch {
		case err == nil:
			if !slices.Contains(loaded, v) {
				loaded = append(loaded, v)
			}
		case errors.Is(err, ErrVehicleNotFound):
			remaining = append(remaining, o)
		case errors.Is(err, ErrUndeliverable):
			s.logger.Warn("dropping undeliverable order", "order", o.ID(), "tick", tick, "error", err)
		default:
			return fmt.Errorf("dispatch order %d: %w", o.ID(), err)
		}
	}
	s.pending = remaining

	for _, v := range loaded {
		if err := s.planTour(v); err != nil {
			return err
		}
		s.logger.Debug("tour planned", "vehicle", v.ID(), "orders", len(v.Orders()), "tick", tick)
	}
	return nil
}

// planTour queues the destinations of v's cargo nearest first, then home.
func (s *Basic) planTour(v *fleet.Vehicle) error {
	current, ok := v.Node()
	if !ok {
		return fmt.Errorf("plan tour of vehicle %d: %w", v.ID(), fleet.ErrVehicleNotPresent)
	}

	stops := lo.UniqBy(
		lo.FilterMap(v.Orders(), func(o *order.ConfirmedOrder, _ int) (*region.Node, bool) {
			n := s.manager.Region().Node(o.Location())
			return n, n != nil
		}),
		func(n *region.Node) region.Key { return n.Key() },
	)

	for len(stops) > 0 {
		next := lo.MinBy(stops, func(a, b *region.Node) bool {
			return s.dispatcher.duration(current, a) < s.dispatcher.duration(current, b)
		})
		if err := v.MoveQueued(next, s.deliverAt(next)); err != nil {
			return err
		}
		stops = lo.Without(stops, next)
		current = next
	}

	if home := v.StartingNode().Node(); current != home {
		return v.MoveQueued(home, nil)
	}
	return nil
}

func (s *Basic) deliverAt(node *region.Node) fleet.ArrivalFunc {
	return func(v *fleet.Vehicle, tick int64) error {
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
}

// rebalance moves idle empty vehicles to restaurants with unserved pending orders
// and sends the rest home.
func (s *Basic) rebalance(tick int64) {
	vehicles := s.manager.Vehicles()

	served := make(map[region.Key]bool)
	for _, v := range vehicles {
		if n, ok := v.Node(); ok && v.IsIdle() {
			served[n.Key()] = true
		}
		if !v.IsIdle() {
			served[v.Destination().Key()] = true
		}
	}

	var unserved []*region.Node
	for _, o := range s.pending {
		if r := o.Restaurant(); !served[r.Key()] && !slices.Contains(unserved, r) {
			unserved = append(unserved, r)
		}
	}

	for _, v := range vehicles {
		current, ok := v.Node()
		if !ok || !v.IsIdle() || len(v.Orders()) > 0 {
			continue
		}

		target := v.StartingNode().Node()
		if len(unserved) > 0 {
			target = lo.MinBy(unserved, func(a, b *region.Node) bool {
				return s.dispatcher.duration(current, a) < s.dispatcher.duration(current, b)
			})
			unserved = lo.Without(unserved, target)
		}
		if target == current {
			continue
		}

		if err := v.MoveQueued(target, nil); err != nil {
			s.logger.Warn("cannot move idle vehicle", "vehicle", v.ID(), "target", target.Name(), "tick", tick, "error", err)
		}
	}
}

func byDeadline(a, b *order.ConfirmedOrder) int {
	return cmp.Or(
		cmp.Compare(a.DeliveryInterval().End(), b.DeliveryInterval().End()),
		cmp.Compare(a.ID(), b.ID()),
	)
}
