package fleet

import (
	"fmt"
	"log/slog"

	"delivery-sim/internal/core/domain/model/event"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/core/domain/services/pathcalc"
	"delivery-sim/internal/pkg/errs"

	"github.com/samber/lo"
)

// Manager owns the vehicles of a region and advances them tick by tick.
//
// Wrappers are created once per component and keyed by the component's identity,
// so they survive Reset. Use Builder to create a Manager.
type Manager struct {
	region         *region.Region
	pathCalculator pathcalc.PathCalculator
	bus            *event.Bus
	logger         *slog.Logger

	nodes     map[region.Key]Occupied
	edges     map[region.Key]*OccupiedEdge
	nodeOrder []Occupied
	edgeOrder []*OccupiedEdge

	vehicles []*Vehicle
	pending  []*Vehicle
	spawned  map[int]bool
}

// Region returns the region the vehicles move in.
func (m *Manager) Region() *region.Region {
	return m.region
}

// PathCalculator returns the calculator used for routing.
func (m *Manager) PathCalculator() pathcalc.PathCalculator {
	return m.pathCalculator
}

// EventBus returns the bus collecting the events of the simulation.
func (m *Manager) EventBus() *event.Bus {
	return m.bus
}

// Vehicles returns the spawned vehicles ordered by id.
func (m *Manager) Vehicles() []*Vehicle {
	return lo.Filter(m.vehicles, func(v *Vehicle, _ int) bool {
		return m.spawned[v.id]
	})
}

// AllVehicles returns every vehicle, spawned or not, ordered by id.
func (m *Manager) AllVehicles() []*Vehicle {
	return append([]*Vehicle(nil), m.vehicles...)
}

// Vehicle returns the vehicle with the given id.
func (m *Manager) Vehicle(id int) (*Vehicle, bool) {
	if id < 0 || id >= len(m.vehicles) {
		return nil, false
	}
	return m.vehicles[id], true
}

// Occupied returns the wrapper of component.
//
// Returns:
//   - Occupied: *OccupiedNode, *OccupiedNeighborhood, *OccupiedRestaurant or *OccupiedEdge
//   - error: ValueIsRequiredError for nil, ErrUnsupportedComponentKind for an unknown
//     kind, ObjectNotFoundError for a component of another region
func (m *Manager) Occupied(component region.Component) (Occupied, error) {
	switch c := component.(type) {
	case nil:
		return nil, errs.NewValueIsRequiredError("component")
	case *region.Node:
		if c == nil {
			return nil, errs.NewValueIsRequiredError("component")
		}
		return m.occupiedNode(c)
	case *region.Edge:
		if c == nil {
			return nil, errs.NewValueIsRequiredError("component")
		}
		return m.occupiedEdge(c)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedComponentKind, component)
	}
}

// OccupiedRestaurant returns the wrapper of a restaurant node.
func (m *Manager) OccupiedRestaurant(node *region.Node) (*OccupiedRestaurant, error) {
	o, err := m.Occupied(node)
	if err != nil {
		return nil, err
	}
	restaurant, ok := o.(*OccupiedRestaurant)
	if !ok {
		return nil, errs.NewObjectNotFoundError("occupied restaurant", node.Name())
	}
	return restaurant, nil
}

// OccupiedNeighborhood returns the wrapper of a neighborhood node.
func (m *Manager) OccupiedNeighborhood(node *region.Node) (*OccupiedNeighborhood, error) {
	o, err := m.Occupied(node)
	if err != nil {
		return nil, err
	}
	neighborhood, ok := o.(*OccupiedNeighborhood)
	if !ok {
		return nil, errs.NewObjectNotFoundError("occupied neighborhood", node.Name())
	}
	return neighborhood, nil
}

// OccupiedNodes returns the node wrappers ordered by location.
func (m *Manager) OccupiedNodes() []Occupied {
	return append([]Occupied(nil), m.nodeOrder...)
}

// OccupiedEdges returns the edge wrappers ordered by endpoints.
func (m *Manager) OccupiedEdges() []*OccupiedEdge {
	return append([]*OccupiedEdge(nil), m.edgeOrder...)
}

// OccupiedRestaurants returns the restaurant wrappers ordered by location.
func (m *Manager) OccupiedRestaurants() []*OccupiedRestaurant {
	return filterNodes[*OccupiedRestaurant](m.nodeOrder)
}

// OccupiedNeighborhoods returns the neighborhood wrappers ordered by location.
func (m *Manager) OccupiedNeighborhoods() []*OccupiedNeighborhood {
	return filterNodes[*OccupiedNeighborhood](m.nodeOrder)
}

// AllOccupied returns every wrapper, nodes first.
func (m *Manager) AllOccupied() []Occupied {
	all := m.OccupiedNodes()
	for _, e := range m.edgeOrder {
		all = append(all, e)
	}
	return all
}

// Tick advances the simulation to tick and returns the events it produced,
// together with every event posted since the previous tick.
//
// Vehicles waiting to spawn enter their starting restaurant first. Membership of
// every wrapper is then captured, nodes before edges, and each captured vehicle
// that still resides where it was captured gets one advance. A vehicle leaving a
// node therefore never crosses its new edge in the same tick, and a vehicle
// reaching a node is not moved on before the next tick.
func (m *Manager) Tick(tick int64) ([]event.Event, error) {
	for _, v := range m.pending {
		v.start.spawn(v, tick)
		m.spawned[v.id] = true
		m.logger.Debug("vehicle spawned", "vehicle", v.id, "node", v.start.node.Name(), "tick", tick)
	}
	m.pending = nil

	nodeSnapshots := lo.Map(m.nodeOrder, func(o Occupied, _ int) []*Vehicle {
		return o.Vehicles()
	})
	edgeSnapshots := lo.Map(m.edgeOrder, func(o *OccupiedEdge, _ int) []*Vehicle {
		return o.Vehicles()
	})

	for i, o := range m.nodeOrder {
		if err := o.tick(tick, nodeSnapshots[i]); err != nil {
			return nil, fmt.Errorf("tick %d at %s: %w", tick, o, err)
		}
	}
	for i, o := range m.edgeOrder {
		if err := o.tick(tick, edgeSnapshots[i]); err != nil {
			return nil, fmt.Errorf("tick %d at %s: %w", tick, o, err)
		}
	}

	return m.bus.PopEvents(tick), nil
}

// Reset clears every wrapper and the event log and puts all vehicles back to their
// starting restaurant, waiting to spawn on the next tick.
func (m *Manager) Reset() {
	for _, o := range m.nodeOrder {
		o.residents().reset()
	}
	for _, o := range m.edgeOrder {
		o.reset()
	}
	for _, v := range m.vehicles {
		v.reset()
	}
	m.pending = append([]*Vehicle(nil), m.vehicles...)
	clear(m.spawned)
	m.bus.Reset()
}

func (m *Manager) occupiedNode(node *region.Node) (Occupied, error) {
	o, ok := m.nodes[node.Key()]
	if !ok || node.Region() != m.region {
		return nil, errs.NewObjectNotFoundError("occupied node", node.Name())
	}
	return o, nil
}

func (m *Manager) occupiedEdge(edge *region.Edge) (*OccupiedEdge, error) {
	o, ok := m.edges[edge.Key()]
	if !ok || edge.Region() != m.region {
		return nil, errs.NewObjectNotFoundError("occupied edge", edge.Name())
	}
	return o, nil
}

func filterNodes[T Occupied](nodes []Occupied) []T {
	result := make([]T, 0)
	for _, o := range nodes {
		if typed, ok := o.(T); ok {
			result = append(result, typed)
		}
	}
	return result
}
