package fleet

import (
	"fmt"
	"slices"
	"strings"

	"delivery-sim/internal/core/domain/model/order"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/pkg/errs"

	"github.com/samber/lo"
)

// ArrivalFunc runs once a vehicle has reached the final node of a Path.
// An error aborts the tick and is returned by Manager.Tick.
type ArrivalFunc func(v *Vehicle, tick int64) error

// Path is a queued movement: the nodes still to visit, start excluded, and the
// callback to run after the last one.
type Path struct {
	nodes    []*region.Node
	onArrive ArrivalFunc
}

// Nodes returns a copy of the nodes still to visit.
func (p Path) Nodes() []*region.Node {
	return slices.Clone(p.nodes)
}

// HasArrivalFunc reports whether the path ends with a callback.
func (p Path) HasArrivalFunc() bool {
	return p.onArrive != nil
}

// Vehicle is a capacity-limited carrier moving through the region.
//
// A vehicle always resides on exactly one Occupied wrapper once spawned. It
// follows its queue of paths one hop per tick and carries confirmed orders whose
// total weight never exceeds its capacity.
//
// Example:
//
//	err := v.MoveQueued(neighborhood, func(v *fleet.Vehicle, tick int64) error {
//	    return occupiedNeighborhood.DeliverOrder(v, o, tick)
//	})
type Vehicle struct {
	id       int
	capacity float64
	manager  *Manager
	start    *OccupiedRestaurant
	occupied Occupied
	paths    []*Path
	orders   []*order.ConfirmedOrder
}

// ID returns the vehicle id, unique within its manager.
func (v *Vehicle) ID() int {
	return v.id
}

// Capacity returns the maximum total cargo weight.
func (v *Vehicle) Capacity() float64 {
	return v.capacity
}

// Manager returns the manager owning the vehicle.
func (v *Vehicle) Manager() *Manager {
	return v.manager
}

// StartingNode returns the restaurant the vehicle spawns at.
func (v *Vehicle) StartingNode() *OccupiedRestaurant {
	return v.start
}

// Occupied returns the wrapper the vehicle resides on.
func (v *Vehicle) Occupied() Occupied {
	return v.occupied
}

// PreviousOccupied returns the wrapper the vehicle came from, nil right after spawning.
func (v *Vehicle) PreviousOccupied() Occupied {
	r, ok := v.occupied.residents().vehicles[v.id]
	if !ok || r.vehicle != v {
		return nil
	}
	return r.previous
}

// Paths returns a copy of the movement queue.
func (v *Vehicle) Paths() []Path {
	return lo.Map(v.paths, func(p *Path, _ int) Path {
		return Path{nodes: slices.Clone(p.nodes), onArrive: p.onArrive}
	})
}

// Node returns the node the vehicle resides on. It reports false while the
// vehicle crosses an edge.
func (v *Vehicle) Node() (*region.Node, bool) {
	n, ok := nodeWrapper(v.occupied)
	if !ok {
		return nil, false
	}
	return n.node, true
}

// Destination returns the node the vehicle rests on once its queue is done.
func (v *Vehicle) Destination() *region.Node {
	return v.queueEnd()
}

// IsIdle reports whether the movement queue is empty.
func (v *Vehicle) IsIdle() bool {
	return len(v.paths) == 0
}

// Orders returns a copy of the carried orders in loading order.
func (v *Vehicle) Orders() []*order.ConfirmedOrder {
	return slices.Clone(v.orders)
}

// CurrentWeight returns the total weight of the carried orders.
func (v *Vehicle) CurrentWeight() float64 {
	return lo.SumBy(v.orders, func(o *order.ConfirmedOrder) float64 {
		return o.Weight()
	})
}

// MoveQueued appends a route to target after every queued path.
//
// The route starts at the last node of the queue, or at the node the vehicle
// rests on if nothing is queued.
//
// Parameters:
//   - target: Destination node of the new path
//   - onArrive: Optional callback run after reaching target
//
// Returns:
//   - error: ErrMoveToOwnNode for an idle vehicle sent to its own node, or a
//     routing error from the manager's PathCalculator
func (v *Vehicle) MoveQueued(target *region.Node, onArrive ArrivalFunc) error {
	if err := v.checkMoveToNode(target); err != nil {
		return err
	}
	return v.enqueue(target, onArrive)
}

func (v *Vehicle) enqueue(target *region.Node, onArrive ArrivalFunc) error {
	path, err := v.route(v.queueEnd(), target, onArrive)
	if err != nil {
		return err
	}
	v.paths = append(v.paths, path)
	return nil
}

func (v *Vehicle) route(start *region.Node, target *region.Node, onArrive ArrivalFunc) (*Path, error) {
	nodes, err := v.manager.pathCalculator.Path(start, target)
	if err != nil {
		return nil, fmt.Errorf("route vehicle %d from %s to %s: %w", v.id, start.Name(), target.Name(), err)
	}
	return &Path{nodes: nodes, onArrive: onArrive}, nil
}

// MoveDirect drops the movement queue and routes the vehicle to target.
//
// A vehicle in the middle of an edge finishes crossing it: the new route starts
// at the endpoint it is heading to. A busy vehicle sent to the node it rests on
// stops there. On error the queue is left as it was.
func (v *Vehicle) MoveDirect(target *region.Node, onArrive ArrivalFunc) error {
	if err := v.checkMoveToNode(target); err != nil {
		return err
	}

	var paths []*Path
	var start *region.Node
	if edge, ok := v.occupied.(*OccupiedEdge); ok {
		heading, err := v.heading(edge)
		if err != nil {
			return err
		}
		paths = append(paths, &Path{nodes: []*region.Node{heading}})
		start = heading
	} else {
		n, _ := nodeWrapper(v.occupied)
		start = n.node
	}

	path, err := v.route(start, target, onArrive)
	if err != nil {
		return err
	}
	v.paths = append(paths, path)
	return nil
}

func (v *Vehicle) String() string {
	ids := lo.Map(v.orders, func(o *order.ConfirmedOrder, _ int) string {
		return fmt.Sprint(o.ID())
	})
	return fmt.Sprintf("Vehicle(id=%d, capacity=%g, orders=[%s], component=%s)",
		v.id, v.capacity, strings.Join(ids, ", "), v.occupied.Component().Name())
}

func (v *Vehicle) checkMoveToNode(target *region.Node) error {
	if target == nil {
		return errs.NewValueIsRequiredError("target")
	}
	if len(v.paths) == 0 && v.occupied.Component() == region.Component(target) {
		return fmt.Errorf("%w: vehicle %d at %s", ErrMoveToOwnNode, v.id, target.Name())
	}
	return nil
}

// queueEnd returns the node the vehicle will rest on after its queue is done.
func (v *Vehicle) queueEnd() *region.Node {
	for i := len(v.paths) - 1; i >= 0; i-- {
		if nodes := v.paths[i].nodes; len(nodes) > 0 {
			return nodes[len(nodes)-1]
		}
	}
	return v.restingNode()
}

// restingNode returns the current node, or the node ahead when crossing an edge.
func (v *Vehicle) restingNode() *region.Node {
	switch w := v.occupied.(type) {
	case *OccupiedEdge:
		if heading, err := v.heading(w); err == nil {
			return heading
		}
		return w.edge.NodeA()
	default:
		n, _ := nodeWrapper(w)
		return n.node
	}
}

func (v *Vehicle) heading(edge *OccupiedEdge) (*region.Node, error) {
	previous, ok := edge.previousNode(v)
	if !ok {
		return nil, fmt.Errorf("%w: vehicle %d, %s", ErrVehicleNotInPrevious, v.id, edge)
	}
	return edge.edge.Other(previous), nil
}

// advance moves the vehicle one hop along its queue.
//
// Exhausted paths are popped; a path with a callback ends the advance after
// running it, a path without one hands over to the next path in the same call.
func (v *Vehicle) advance(tick int64) error {
	for len(v.paths) > 0 {
		head := v.paths[0]
		if len(head.nodes) == 0 {
			v.paths = v.paths[1:]
			if head.onArrive != nil {
				return head.onArrive(v, tick)
			}
			continue
		}

		next := head.nodes[0]
		switch current := v.occupied.(type) {
		case *OccupiedEdge:
			if current.edge.Other(next) == nil {
				return fmt.Errorf("%w: %s and %s", ErrNotAdjacent, current.edge.Name(), next.Name())
			}
			target, err := v.manager.occupiedNode(next)
			if err != nil {
				return err
			}
			if err := target.addVehicle(v, tick); err != nil {
				return err
			}
			head.nodes = head.nodes[1:]
		default:
			from, _ := nodeWrapper(current)
			edge := from.node.Edge(next)
			if edge == nil {
				return fmt.Errorf("%w: %s and %s", ErrNotAdjacent, from.node.Name(), next.Name())
			}
			target, err := v.manager.occupiedEdge(edge)
			if err != nil {
				return err
			}
			if err := target.addVehicle(v, tick); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func (v *Vehicle) loadOrder(o *order.ConfirmedOrder) error {
	required := v.CurrentWeight() + o.Weight()
	if required > v.capacity {
		return NewVehicleOverloadedError(v.id, v.capacity, required)
	}
	if err := o.MarkLoaded(); err != nil {
		return err
	}
	v.orders = append(v.orders, o)
	return nil
}

// unloadOrder removes o from the cargo; it does nothing if o is not carried.
func (v *Vehicle) unloadOrder(o *order.ConfirmedOrder) {
	i := slices.Index(v.orders, o)
	if i < 0 {
		return
	}
	v.orders = slices.Delete(v.orders, i, i+1)
	if o.Status() == order.Loaded {
		_ = o.MarkUnloaded()
	}
}

func (v *Vehicle) reset() {
	v.occupied = v.start
	v.paths = nil
	v.orders = nil
}
