package fleet

import (
	"errors"
	"log/slog"
	"slices"

	"delivery-sim/internal/core/domain/model/event"
	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/core/domain/services/pathcalc"
	"delivery-sim/internal/pkg/errs"
)

// VehicleSpec describes a vehicle before the manager is built.
type VehicleSpec struct {
	StartingLocation kernel.Location
	Capacity         float64
}

// Builder collects the configuration of a Manager.
//
// Example:
//
//	b := fleet.NewBuilder()
//	b.SetRegion(r)
//	b.SetPathCalculator(pathcalc.NewDijkstra())
//	_ = b.AddVehicle(kernel.NewLocation(0, 0), 5)
//	manager, err := b.Build()
type Builder struct {
	region         *region.Region
	pathCalculator pathcalc.PathCalculator
	logger         *slog.Logger
	vehicles       []VehicleSpec
}

// NewBuilder returns an empty builder. Build fails until a region and a path
// calculator are set.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetRegion sets the region the vehicles drive in.
func (b *Builder) SetRegion(r *region.Region) *Builder {
	b.region = r
	return b
}

// SetPathCalculator sets the calculator vehicles use to route between nodes.
func (b *Builder) SetPathCalculator(calculator pathcalc.PathCalculator) *Builder {
	b.pathCalculator = calculator
	return b
}

// SetLogger sets the logger of the manager. slog.Default is used when unset.
func (b *Builder) SetLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// AddVehicle adds a vehicle starting at the restaurant at location.
// The location is checked by Build.
func (b *Builder) AddVehicle(location kernel.Location, capacity float64) error {
	if capacity <= 0 {
		return errs.NewValueIsOutOfRangeError("capacity", capacity, "0 (exclusive)", "+inf")
	}
	b.vehicles = append(b.vehicles, VehicleSpec{StartingLocation: location, Capacity: capacity})
	return nil
}

// RemoveVehicle removes every vehicle starting at location.
func (b *Builder) RemoveVehicle(location kernel.Location) {
	b.vehicles = slices.DeleteFunc(b.vehicles, func(s VehicleSpec) bool {
		return s.StartingLocation == location
	})
}

// Vehicles returns a copy of the collected vehicle specs.
func (b *Builder) Vehicles() []VehicleSpec {
	return slices.Clone(b.vehicles)
}

// Build creates the manager. Vehicles get ids in the order they were added and
// spawn on the first Tick.
//
// Returns:
//   - *Manager: The manager
//   - error: ValueIsRequiredError for a missing region or path calculator,
//     ObjectNotFoundError for a vehicle not starting at a restaurant
func (b *Builder) Build() (*Manager, error) {
	var errRegion, errCalculator error
	if b.region == nil {
		errRegion = errs.NewValueIsRequiredError("region")
	}
	if b.pathCalculator == nil {
		errCalculator = errs.NewValueIsRequiredError("path calculator")
	}
	if err := errors.Join(errRegion, errCalculator); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		region:         b.region,
		pathCalculator: b.pathCalculator,
		bus:            event.NewBus(),
		logger:         logger.With("component", "vehicle-manager"),
		nodes:          make(map[region.Key]Occupied),
		edges:          make(map[region.Key]*OccupiedEdge),
		spawned:        make(map[int]bool),
	}

	for _, n := range b.region.Nodes() {
		o := newOccupiedNode(m, n)
		m.nodes[n.Key()] = o
		m.nodeOrder = append(m.nodeOrder, o)
	}
	for _, e := range b.region.Edges() {
		o := newOccupiedEdge(m, e)
		m.edges[e.Key()] = o
		m.edgeOrder = append(m.edgeOrder, o)
	}

	for id, spec := range b.vehicles {
		node := b.region.Node(spec.StartingLocation)
		if node == nil {
			return nil, errs.NewObjectNotFoundError("starting node", spec.StartingLocation)
		}
		start, err := m.OccupiedRestaurant(node)
		if err != nil {
			return nil, err
		}

		v := &Vehicle{id: id, capacity: spec.Capacity, manager: m, start: start, occupied: start}
		m.vehicles = append(m.vehicles, v)
		m.pending = append(m.pending, v)
	}

	return m, nil
}
