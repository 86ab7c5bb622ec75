// Package event defines the immutable, tick-stamped records a simulation emits and the
// Bus that collects them tick by tick.
//
// Most events are vehicle-scoped and carry the id of the vehicle that caused them.
// Events reference region components and orders by pointer; both are never copied.
package event

import (
	"fmt"

	"delivery-sim/internal/core/domain/model/order"
	"delivery-sim/internal/core/domain/model/region"
)

// Kind identifies the concrete type of an Event.
type Kind int

const (
	KindUnknown Kind = iota
	KindSpawn
	KindArrivedAtNode
	KindArrivedAtNeighborhood
	KindArrivedAtRestaurant
	KindArrivedAtEdge
	KindLoadOrder
	KindDeliverOrder
	KindOrderReceived
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindUnknown:               "Unknown",
		KindSpawn:                 "Spawn",
		KindArrivedAtNode:         "ArrivedAtNode",
		KindArrivedAtNeighborhood: "ArrivedAtNeighborhood",
		KindArrivedAtRestaurant:   "ArrivedAtRestaurant",
		KindArrivedAtEdge:         "ArrivedAtEdge",
		KindLoadOrder:             "LoadOrder",
		KindDeliverOrder:          "DeliverOrder",
		KindOrderReceived:         "OrderReceived",
	}
}

func (k Kind) String() string {
	if s, ok := getKindStrings()[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Event is something that happened at a tick.
type Event interface {
	Tick() int64
	Kind() Kind
	String() string
}

// VehicleEvent is an Event caused by a vehicle.
type VehicleEvent interface {
	Event
	VehicleID() int
}

// NodeArrival is implemented by every event emitted when a vehicle reaches a node.
// LastEdge is the edge the vehicle came from, nil when it was spawned there.
type NodeArrival interface {
	VehicleEvent
	Node() *region.Node
	LastEdge() *region.Edge
}

// OrderEvent is implemented by events concerning a single order.
type OrderEvent interface {
	Event
	Order() *order.ConfirmedOrder
}

type base struct {
	tick int64
}

func (b base) Tick() int64 { return b.tick }

type vehicleBase struct {
	base
	vehicleID int
}

func (v vehicleBase) VehicleID() int { return v.vehicleID }

// SpawnEvent is emitted when a vehicle enters the simulation at its starting node.
type SpawnEvent struct {
	vehicleBase
	node *region.Node
}

func NewSpawnEvent(tick int64, vehicleID int, node *region.Node) *SpawnEvent {
	return &SpawnEvent{vehicleBase: vehicleBase{base{tick}, vehicleID}, node: node}
}

func (e *SpawnEvent) Kind() Kind         { return KindSpawn }
func (e *SpawnEvent) Node() *region.Node { return e.node }

func (e *SpawnEvent) String() string {
	return fmt.Sprintf("SpawnEvent(time=%d, vehicle=%d, node=%s)", e.tick, e.vehicleID, e.node.Name())
}

// ArrivedAtNodeEvent is emitted when a vehicle reaches a plain node.
type ArrivedAtNodeEvent struct {
	vehicleBase
	node     *region.Node
	lastEdge *region.Edge
}

func NewArrivedAtNodeEvent(tick int64, vehicleID int, node *region.Node, lastEdge *region.Edge) *ArrivedAtNodeEvent {
	return &ArrivedAtNodeEvent{vehicleBase: vehicleBase{base{tick}, vehicleID}, node: node, lastEdge: lastEdge}
}

func (e *ArrivedAtNodeEvent) Kind() Kind             { return KindArrivedAtNode }
func (e *ArrivedAtNodeEvent) Node() *region.Node     { return e.node }
func (e *ArrivedAtNodeEvent) LastEdge() *region.Edge { return e.lastEdge }

func (e *ArrivedAtNodeEvent) String() string {
	return e.format("ArrivedAtNodeEvent")
}

func (e *ArrivedAtNodeEvent) format(name string) string {
	last := "none"
	if e.lastEdge != nil {
		last = e.lastEdge.Name()
	}
	return fmt.Sprintf("%s(time=%d, vehicle=%d, node=%s, lastEdge=%s)", name, e.tick, e.vehicleID, e.node.Name(), last)
}

// ArrivedAtNeighborhoodEvent is emitted when a vehicle reaches a neighborhood.
type ArrivedAtNeighborhoodEvent struct {
	ArrivedAtNodeEvent
}

func NewArrivedAtNeighborhoodEvent(
	tick int64, vehicleID int, node *region.Node, lastEdge *region.Edge,
) *ArrivedAtNeighborhoodEvent {
	return &ArrivedAtNeighborhoodEvent{*NewArrivedAtNodeEvent(tick, vehicleID, node, lastEdge)}
}

func (e *ArrivedAtNeighborhoodEvent) Kind() Kind { return KindArrivedAtNeighborhood }

func (e *ArrivedAtNeighborhoodEvent) String() string {
	return e.format("ArrivedAtNeighborhoodEvent")
}

// ArrivedAtRestaurantEvent is emitted when a vehicle reaches a restaurant.
type ArrivedAtRestaurantEvent struct {
	ArrivedAtNodeEvent
}

func NewArrivedAtRestaurantEvent(
	tick int64, vehicleID int, node *region.Node, lastEdge *region.Edge,
) *ArrivedAtRestaurantEvent {
	return &ArrivedAtRestaurantEvent{*NewArrivedAtNodeEvent(tick, vehicleID, node, lastEdge)}
}

func (e *ArrivedAtRestaurantEvent) Kind() Kind { return KindArrivedAtRestaurant }

func (e *ArrivedAtRestaurantEvent) String() string {
	return e.format("ArrivedAtRestaurantEvent")
}

// ArrivedAtEdgeEvent is emitted when a vehicle leaves lastNode onto an edge.
type ArrivedAtEdgeEvent struct {
	vehicleBase
	edge     *region.Edge
	lastNode *region.Node
}

func NewArrivedAtEdgeEvent(tick int64, vehicleID int, edge *region.Edge, lastNode *region.Node) *ArrivedAtEdgeEvent {
	return &ArrivedAtEdgeEvent{vehicleBase: vehicleBase{base{tick}, vehicleID}, edge: edge, lastNode: lastNode}
}

func (e *ArrivedAtEdgeEvent) Kind() Kind             { return KindArrivedAtEdge }
func (e *ArrivedAtEdgeEvent) Edge() *region.Edge     { return e.edge }
func (e *ArrivedAtEdgeEvent) LastNode() *region.Node { return e.lastNode }

func (e *ArrivedAtEdgeEvent) String() string {
	return fmt.Sprintf("ArrivedAtEdgeEvent(time=%d, vehicle=%d, edge=%s, lastNode=%s)",
		e.tick, e.vehicleID, e.edge.Name(), e.lastNode.Name())
}

// LoadOrderEvent is emitted when a vehicle picks an order up at a restaurant.
type LoadOrderEvent struct {
	vehicleBase
	restaurant *region.Node
	order      *order.ConfirmedOrder
}

func NewLoadOrderEvent(tick int64, vehicleID int, restaurant *region.Node, o *order.ConfirmedOrder) *LoadOrderEvent {
	return &LoadOrderEvent{vehicleBase: vehicleBase{base{tick}, vehicleID}, restaurant: restaurant, order: o}
}

func (e *LoadOrderEvent) Kind() Kind                   { return KindLoadOrder }
func (e *LoadOrderEvent) Restaurant() *region.Node     { return e.restaurant }
func (e *LoadOrderEvent) Order() *order.ConfirmedOrder { return e.order }

func (e *LoadOrderEvent) String() string {
	return fmt.Sprintf("LoadOrderEvent(time=%d, vehicle=%d, restaurant=%s, order=%d)",
		e.tick, e.vehicleID, e.restaurant.Name(), e.order.ID())
}

// DeliverOrderEvent is emitted when a vehicle hands an order over at a neighborhood.
type DeliverOrderEvent struct {
	vehicleBase
	node  *region.Node
	order *order.ConfirmedOrder
}

func NewDeliverOrderEvent(tick int64, vehicleID int, node *region.Node, o *order.ConfirmedOrder) *DeliverOrderEvent {
	return &DeliverOrderEvent{vehicleBase: vehicleBase{base{tick}, vehicleID}, node: node, order: o}
}

func (e *DeliverOrderEvent) Kind() Kind                   { return KindDeliverOrder }
func (e *DeliverOrderEvent) Node() *region.Node           { return e.node }
func (e *DeliverOrderEvent) Order() *order.ConfirmedOrder { return e.order }

func (e *DeliverOrderEvent) String() string {
	return fmt.Sprintf("DeliverOrderEvent(time=%d, vehicle=%d, node=%s, order=%d)",
		e.tick, e.vehicleID, e.node.Name(), e.order.ID())
}

// OrderReceivedEvent is emitted when a delivery service accepts a new order.
type OrderReceivedEvent struct {
	base
	order *order.ConfirmedOrder
}

func NewOrderReceivedEvent(tick int64, o *order.ConfirmedOrder) *OrderReceivedEvent {
	return &OrderReceivedEvent{base: base{tick}, order: o}
}

func (e *OrderReceivedEvent) Kind() Kind                   { return KindOrderReceived }
func (e *OrderReceivedEvent) Order() *order.ConfirmedOrder { return e.order }

func (e *OrderReceivedEvent) String() string {
	return fmt.Sprintf("OrderReceivedEvent(time=%d, order=%d)", e.tick, e.order.ID())
}
