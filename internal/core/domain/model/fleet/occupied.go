package fleet

import (
	"fmt"
	"maps"
	"slices"

	"delivery-sim/internal/core/domain/model/event"
	"delivery-sim/internal/core/domain/model/order"
	"delivery-sim/internal/core/domain/model/region"
)

// Occupied is the live wrapper of one region component.
//
// The set of implementations is closed: *OccupiedNode, *OccupiedNeighborhood,
// *OccupiedRestaurant and *OccupiedEdge.
type Occupied interface {
	// Component returns the wrapped node or edge.
	Component() region.Component

	// Manager returns the manager owning the wrapper.
	Manager() *Manager

	// Vehicles returns the resident vehicles ordered by id.
	Vehicles() []*Vehicle

	// Contains reports whether v currently resides here.
	Contains(v *Vehicle) bool

	// ArrivalTick returns the tick v arrived at, if it resides here.
	ArrivalTick(v *Vehicle) (int64, bool)

	fmt.Stringer

	residents() *occupied
	addVehicle(v *Vehicle, tick int64) error
	tick(tick int64, snapshot []*Vehicle) error
}

type residency struct {
	vehicle  *Vehicle
	arrived  int64
	previous Occupied
}

// occupied holds the membership shared by every wrapper.
type occupied struct {
	manager  *Manager
	vehicles map[int]residency
}

func newOccupied(manager *Manager) occupied {
	return occupied{manager: manager, vehicles: make(map[int]residency)}
}

func (o *occupied) Manager() *Manager {
	return o.manager
}

func (o *occupied) Vehicles() []*Vehicle {
	result := make([]*Vehicle, 0, len(o.vehicles))
	for _, id := range slices.Sorted(maps.Keys(o.vehicles)) {
		result = append(result, o.vehicles[id].vehicle)
	}
	return result
}

func (o *occupied) Contains(v *Vehicle) bool {
	if v == nil {
		return false
	}
	r, ok := o.vehicles[v.id]
	return ok && r.vehicle == v
}

func (o *occupied) ArrivalTick(v *Vehicle) (int64, bool) {
	if !o.Contains(v) {
		return 0, false
	}
	return o.vehicles[v.id].arrived, true
}

func (o *occupied) residents() *occupied {
	return o
}

func (o *occupied) reset() {
	clear(o.vehicles)
}

// leave removes v from the membership of from.
func leave(v *Vehicle, from Occupied) error {
	members := from.residents()
	if !members.Contains(v) {
		return fmt.Errorf("%w: vehicle %d, %s", ErrVehicleNotInPrevious, v.id, from)
	}
	delete(members.vehicles, v.id)
	return nil
}

// OccupiedNode wraps a plain node. It is also the shared part of
// OccupiedNeighborhood and OccupiedRestaurant.
type OccupiedNode struct {
	occupied
	node *region.Node
	self Occupied
}

func newOccupiedNode(manager *Manager, node *region.Node) Occupied {
	base := &OccupiedNode{occupied: newOccupied(manager), node: node}
	switch node.Kind() {
	case region.KindNeighborhood:
		base.self = &OccupiedNeighborhood{base}
	case region.KindRestaurant:
		base.self = &OccupiedRestaurant{base}
	default:
		base.self = base
	}
	return base.self
}

func (o *OccupiedNode) Component() region.Component {
	return o.node
}

// Node returns the wrapped node.
func (o *OccupiedNode) Node() *region.Node {
	return o.node
}

func (o *OccupiedNode) String() string {
	return fmt.Sprintf("Occupied%s(%s)", o.node.Kind(), o.node.Name())
}

// tick gives every vehicle of the snapshot that still resides here one advance.
func (o *OccupiedNode) tick(tick int64, snapshot []*Vehicle) error {
	for _, v := range snapshot {
		if !o.Contains(v) {
			continue
		}
		if err := v.advance(tick); err != nil {
			return err
		}
	}
	return nil
}

func (o *OccupiedNode) addVehicle(v *Vehicle, tick int64) error {
	if o.Contains(v) {
		return nil
	}

	previous, ok := v.occupied.(*OccupiedEdge)
	if !ok {
		return fmt.Errorf("%w: vehicle %d cannot move directly from %s to %s", ErrIllegalTransition, v.id, v.occupied, o)
	}
	if err := leave(v, previous); err != nil {
		return err
	}

	o.vehicles[v.id] = residency{vehicle: v, arrived: tick, previous: previous}
	v.occupied = o.self
	o.manager.bus.Post(arrivalEvent(tick, v.id, o.node, previous.edge))
	return nil
}

func (o *OccupiedNode) spawn(v *Vehicle, tick int64) {
	o.vehicles[v.id] = residency{vehicle: v, arrived: tick}
	v.occupied = o.self
	o.manager.bus.Post(event.NewSpawnEvent(tick, v.id, o.node))
}

func arrivalEvent(tick int64, vehicleID int, node *region.Node, lastEdge *region.Edge) event.Event {
	switch node.Kind() {
	case region.KindNeighborhood:
		return event.NewArrivedAtNeighborhoodEvent(tick, vehicleID, node, lastEdge)
	case region.KindRestaurant:
		return event.NewArrivedAtRestaurantEvent(tick, vehicleID, node, lastEdge)
	default:
		return event.NewArrivedAtNodeEvent(tick, vehicleID, node, lastEdge)
	}
}

// OccupiedNeighborhood wraps a neighborhood, where orders are delivered.
type OccupiedNeighborhood struct {
	*OccupiedNode
}

// DeliverOrder hands co over to its customer.
//
// Parameters:
//   - v: The vehicle delivering; it must reside on this neighborhood
//   - co: The order; it is removed from the vehicle's cargo if carried
//   - tick: The current tick, recorded as the actual delivery tick
//
// Returns:
//   - error: ErrVehicleNotPresent, or order.ErrAlreadyDelivered for a delivered order
func (o *OccupiedNeighborhood) DeliverOrder(v *Vehicle, co *order.ConfirmedOrder, tick int64) error {
	if err := o.checkPresent(v); err != nil {
		return err
	}
	if err := co.SetActualDeliveryTick(tick); err != nil {
		return err
	}

	v.unloadOrder(co)
	o.manager.bus.Post(event.NewDeliverOrderEvent(tick, v.id, o.node, co))
	return nil
}

// OccupiedRestaurant wraps a restaurant, where orders are loaded.
type OccupiedRestaurant struct {
	*OccupiedNode
}

// LoadOrder puts co into the cargo of v.
//
// Parameters:
//   - v: The vehicle loading; it must reside on this restaurant
//   - co: An order placed at this restaurant
//   - tick: The current tick
//
// Returns:
//   - error: ErrVehicleNotPresent, ErrWrongRestaurant or a *VehicleOverloadedError;
//     the cargo is unchanged on error
func (o *OccupiedRestaurant) LoadOrder(v *Vehicle, co *order.ConfirmedOrder, tick int64) error {
	if err := o.checkPresent(v); err != nil {
		return err
	}
	if co.Restaurant() != o.node {
		return fmt.Errorf("%w: order %d belongs to %s", ErrWrongRestaurant, co.ID(), co.Restaurant().Name())
	}
	if err := v.loadOrder(co); err != nil {
		return err
	}

	o.manager.bus.Post(event.NewLoadOrderEvent(tick, v.id, o.node, co))
	return nil
}

// checkPresent accepts residents and vehicles waiting to spawn here.
func (o *OccupiedNode) checkPresent(v *Vehicle) error {
	if v == nil || v.occupied != o.self {
		return fmt.Errorf("%w: %s", ErrVehicleNotPresent, o)
	}
	return nil
}

// OccupiedEdge wraps an edge.
type OccupiedEdge struct {
	occupied
	edge *region.Edge
}

func newOccupiedEdge(manager *Manager, edge *region.Edge) *OccupiedEdge {
	return &OccupiedEdge{occupied: newOccupied(manager), edge: edge}
}

func (o *OccupiedEdge) Component() region.Component {
	return o.edge
}

// Edge returns the wrapped edge.
func (o *OccupiedEdge) Edge() *region.Edge {
	return o.edge
}

func (o *OccupiedEdge) String() string {
	return fmt.Sprintf("OccupiedEdge(%s)", o.edge.Name())
}

// tick advances the vehicles of the snapshot that finished crossing the edge.
func (o *OccupiedEdge) tick(tick int64, snapshot []*Vehicle) error {
	for _, v := range snapshot {
		arrived, ok := o.ArrivalTick(v)
		if !ok || arrived+o.edge.Duration() > tick {
			continue
		}
		if err := v.advance(tick); err != nil {
			return err
		}
	}
	return nil
}

func (o *OccupiedEdge) addVehicle(v *Vehicle, tick int64) error {
	if o.Contains(v) {
		return nil
	}

	previous, ok := nodeWrapper(v.occupied)
	if !ok {
		return fmt.Errorf("%w: vehicle %d cannot move directly from %s to %s", ErrIllegalTransition, v.id, v.occupied, o)
	}
	if err := leave(v, v.occupied); err != nil {
		return err
	}

	o.vehicles[v.id] = residency{vehicle: v, arrived: tick, previous: v.occupied}
	v.occupied = o
	o.manager.bus.Post(event.NewArrivedAtEdgeEvent(tick, v.id, o.edge, previous.node))
	return nil
}

// previousNode returns the node v entered the edge from.
func (o *OccupiedEdge) previousNode(v *Vehicle) (*region.Node, bool) {
	r, ok := o.vehicles[v.id]
	if !ok || r.vehicle != v {
		return nil, false
	}
	n, ok := nodeWrapper(r.previous)
	if !ok {
		return nil, false
	}
	return n.node, true
}

// nodeWrapper unwraps any node variant.
func nodeWrapper(o Occupied) (*OccupiedNode, bool) {
	switch w := o.(type) {
	case *OccupiedNode:
		return w, true
	case *OccupiedNeighborhood:
		return w.OccupiedNode, true
	case *OccupiedRestaurant:
		return w.OccupiedNode, true
	default:
		return nil, false
	}
}
