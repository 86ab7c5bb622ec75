package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/pkg/errs"
	"delivery-sim/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when a ConfirmedOrder was not created
	// through NewConfirmedOrder.
	ErrOrderIsNotConstructed = errors.New("order must be created via NewConfirmedOrder constructor")

	// ErrAlreadyDelivered is returned when the delivery tick of an order is set twice.
	ErrAlreadyDelivered = errors.New("order is already delivered")

	// ErrFoodNotServed is returned when an ordered food is missing from the restaurant's menu.
	ErrFoodNotServed = errors.New("restaurant does not serve the ordered food")
)

var sequence atomic.Int64

// ConfirmedOrder is an accepted order that was placed at a restaurant and should be
// delivered to a location during a tick window.
//
// ConfirmedOrder follows these invariants:
//   - The restaurant is a restaurant node of the region
//   - Every food is on the restaurant's menu
//   - Weight is not negative
//   - The actual delivery tick is set at most once
//
// Orders are mutated by the simulation thread only.
type ConfirmedOrder struct {
	id          int64
	location    kernel.Location
	restaurant  *region.Node
	interval    kernel.TickInterval
	foods       []string
	weight      float64
	status      Status
	deliveredAt int64
	guard       guard.ConstructorGuard
}

// NewConfirmedOrder creates a validated order and assigns it the next id of the
// process-wide sequence.
//
// Parameters:
//   - location: Delivery destination
//   - restaurant: Restaurant node the order was placed at
//   - interval: Tick window the order should be delivered in
//   - foods: Ordered food, each served by the restaurant
//   - weight: Cargo weight (must not be negative)
//
// Returns:
//   - *ConfirmedOrder: The order in Confirmed status
//   - error: Joined validation errors
//
// Example:
//
//	window, _ := kernel.NewTickInterval(0, 10)
//	o, err := order.NewConfirmedOrder(kernel.NewLocation(4, 2), javaHut, window, []string{"Espresso"}, 1.5)
//	if err != nil {
//	    // Handle validation error
//	}
func NewConfirmedOrder(
	location kernel.Location,
	restaurant *region.Node,
	interval kernel.TickInterval,
	foods []string,
	weight float64,
) (*ConfirmedOrder, error) {
	o := &ConfirmedOrder{
		location: location,
		status:   Confirmed,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setRestaurant(restaurant),
		o.setInterval(interval),
		o.setFoods(restaurant, foods),
		o.setWeight(weight),
	); err != nil {
		return nil, err
	}

	o.id = sequence.Add(1) - 1
	return o, nil
}

// Validate ensures the order was created through NewConfirmedOrder.
func (o *ConfirmedOrder) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the order id.
func (o *ConfirmedOrder) ID() int64 {
	return o.id
}

// Location returns the delivery destination.
func (o *ConfirmedOrder) Location() kernel.Location {
	return o.location
}

// Restaurant returns the node the order was placed at.
func (o *ConfirmedOrder) Restaurant() *region.Node {
	return o.restaurant
}

// DeliveryInterval returns the window the order should be delivered in.
func (o *ConfirmedOrder) DeliveryInterval() kernel.TickInterval {
	return o.interval
}

// Foods returns a copy of the ordered food.
func (o *ConfirmedOrder) Foods() []string {
	return slices.Clone(o.foods)
}

// Weight returns the cargo weight.
func (o *ConfirmedOrder) Weight() float64 {
	return o.weight
}

// Status returns the lifecycle state.
func (o *ConfirmedOrder) Status() Status {
	return o.status
}

// IsDelivered reports whether the order reached the Delivered state.
func (o *ConfirmedOrder) IsDelivered() bool {
	return o.status == Delivered
}

// ActualDeliveryTick returns the tick the order was delivered at and whether it
// was delivered at all.
func (o *ConfirmedOrder) ActualDeliveryTick() (int64, bool) {
	return o.deliveredAt, o.status == Delivered
}

// MarkLoaded records that a vehicle picked the order up.
func (o *ConfirmedOrder) MarkLoaded() error {
	status, err := o.status.Load()
	if err != nil {
		return err
	}
	o.status = status
	return nil
}

// MarkUnloaded records that a vehicle put the order down without delivering it.
func (o *ConfirmedOrder) MarkUnloaded() error {
	status, err := o.status.Unload()
	if err != nil {
		return err
	}
	o.status = status
	return nil
}

// SetActualDeliveryTick marks the order as delivered at tick.
//
// Returns:
//   - nil on the first call
//   - ErrAlreadyDelivered on any later call; the recorded tick is kept
//   - ValueIsOutOfRangeError for a negative tick
func (o *ConfirmedOrder) SetActualDeliveryTick(tick int64) error {
	if o.status == Delivered {
		return fmt.Errorf("%w: order %d at tick %d", ErrAlreadyDelivered, o.id, o.deliveredAt)
	}
	if tick < 0 {
		return errs.NewValueIsOutOfRangeError("tick", tick, 0, "+inf")
	}

	status, err := o.status.Deliver()
	if err != nil {
		return err
	}
	o.status = status
	o.deliveredAt = tick
	return nil
}

func (o *ConfirmedOrder) String() string {
	delivered := "-"
	if tick, ok := o.ActualDeliveryTick(); ok {
		delivered = fmt.Sprint(tick)
	}
	return fmt.Sprintf("ConfirmedOrder{id=%d, location=%s, restaurant=%s, interval=%s, foods=[%s], weight=%g, delivered=%s}",
		o.id, o.location, o.restaurant.Name(), o.interval, strings.Join(o.foods, ", "), o.weight, delivered)
}

func (o *ConfirmedOrder) setRestaurant(restaurant *region.Node) error {
	if restaurant == nil {
		return errs.NewValueIsRequiredError("restaurant")
	}
	if !restaurant.IsRestaurant() {
		return errs.NewValueIsInvalidErrorWithCause("restaurant", fmt.Errorf("%s is a %s", restaurant.Name(), restaurant.Kind()))
	}
	o.restaurant = restaurant
	return nil
}

func (o *ConfirmedOrder) setInterval(interval kernel.TickInterval) error {
	if err := interval.Validate(); err != nil {
		return err
	}
	o.interval = interval
	return nil
}

func (o *ConfirmedOrder) setFoods(restaurant *region.Node, foods []string) error {
	if restaurant == nil {
		return nil
	}
	for _, food := range foods {
		if !restaurant.Serves(food) {
			return fmt.Errorf("%w: %s at %s", ErrFoodNotServed, food, restaurant.Name())
		}
	}
	o.foods = slices.Clone(foods)
	return nil
}

func (o *ConfirmedOrder) setWeight(weight float64) error {
	if weight < 0 {
		return errs.NewValueIsOutOfRangeError("weight", weight, 0, "+inf")
	}
	o.weight = weight
	return nil
}
