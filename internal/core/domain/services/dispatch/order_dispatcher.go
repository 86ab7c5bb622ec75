package dispatch

import (
	"errors"
	"fmt"
	"math"

	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/core/domain/model/order"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/core/domain/services/pathcalc"
	"delivery-sim/internal/pkg/errs"
)

const unreachable int64 = math.MaxInt64

var (
	// ErrVehicleNotFound is returned when no vehicle at the order's restaurant can
	// carry the order.
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrUndeliverable is returned for orders whose destination is not a reachable
	// neighborhood of the region.
	ErrUndeliverable = errors.New("order cannot be delivered")
)

// OrderDispatcher finds the vehicle that should carry an order and loads the
// order onto it.
//
// Business rules:
//   - Only Confirmed orders are dispatched
//   - Candidates reside on the order's restaurant and have room for the order
//   - The vehicle whose planned stops lie closest to the order's destination wins
//   - Ties go to the vehicle listed first
//
// Example usage:
//
//	dispatcher := dispatch.NewOrderDispatcher(manager)
//	v, err := dispatcher.Dispatch(o, idleVehicles, tick)
//	if errors.Is(err, dispatch.ErrVehicleNotFound) {
//	    // Keep the order pending
//	}
type OrderDispatcher struct {
	manager *fleet.Manager
}

// NewOrderDispatcher creates a dispatcher for the vehicles of manager.
func NewOrderDispatcher(manager *fleet.Manager) OrderDispatcher {
	return OrderDispatcher{manager: manager}
}

// Dispatch selects the best of vehicles for co and loads co onto it.
//
// Parameters:
//   - co: The order to dispatch (must be Confirmed)
//   - vehicles: Candidate vehicles
//   - tick: The current tick
//
// Returns:
//   - *fleet.Vehicle: The vehicle now carrying co
//   - error: ErrVehicleNotFound, ErrUndeliverable or validation/loading errors
func (d OrderDispatcher) Dispatch(co *order.ConfirmedOrder, vehicles []*fleet.Vehicle, tick int64) (*fleet.Vehicle, error) {
	if err := co.Validate(); err != nil {
		return nil, err
	}
	if co.Status() != order.Confirmed {
		return nil, errs.NewValueIsInvalidErrorWithCause("order status", errors.New(co.Status().String()))
	}

	destination, err := d.Destination(co)
	if err != nil {
		return nil, err
	}

	restaurant, err := d.manager.OccupiedRestaurant(co.Restaurant())
	if err != nil {
		return nil, err
	}
	if d.duration(restaurant.Node(), destination) == unreachable {
		return nil, fmt.Errorf("%w: %s is unreachable from %s", ErrUndeliverable, destination.Name(), restaurant.Node().Name())
	}

	best, err := d.findBestVehicle(co, destination, restaurant, vehicles)
	if err != nil {
		return nil, err
	}

	if err = restaurant.LoadOrder(best, co, tick); err != nil {
		return nil, err
	}
	return best, nil
}

// Destination returns the neighborhood co must be delivered to.
func (d OrderDispatcher) Destination(co *order.ConfirmedOrder) (*region.Node, error) {
	node := d.manager.Region().Node(co.Location())
	if node == nil || !node.IsNeighborhood() {
		return nil, fmt.Errorf("%w: no neighborhood at %s", ErrUndeliverable, co.Location())
	}
	return node, nil
}

// findBestVehicle measures, for every candidate with room for co, the route from
// the nearest of its stops to destination. The restaurant counts as a stop.
func (d OrderDispatcher) findBestVehicle(
	co *order.ConfirmedOrder,
	destination *region.Node,
	restaurant *fleet.OccupiedRestaurant,
	vehicles []*fleet.Vehicle,
) (*fleet.Vehicle, error) {
	var (
		bestVehicle *fleet.Vehicle
		bestTime    int64 = unreachable
	)

	for _, v := range vehicles {
		if v == nil || !restaurant.Contains(v) {
			continue
		}
		if v.CurrentWeight()+co.Weight() > v.Capacity() {
			continue
		}

		tm := d.duration(restaurant.Node(), destination)
		for _, carried := range v.Orders() {
			if stop := d.manager.Region().Node(carried.Location()); stop != nil {
				tm = min(tm, d.duration(stop, destination))
			}
		}

		if tm < bestTime {
			bestTime = tm
			bestVehicle = v
		}
	}

	if bestVehicle == nil {
		return nil, ErrVehicleNotFound
	}
	return bestVehicle, nil
}

// duration returns the route duration from start to end, or unreachable.
func (d OrderDispatcher) duration(start, end *region.Node) int64 {
	route, err := d.manager.PathCalculator().Path(start, end)
	if err != nil {
		return unreachable
	}
	total, err := pathcalc.Duration(start, route)
	if err != nil {
		return unreachable
	}
	return total
}
