package region

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/pkg/errs"
)

var (
	// ErrDuplicateName is returned when a node or edge name is already taken.
	// Node and edge names share one namespace.
	ErrDuplicateName = errors.New("duplicate component name")

	// ErrDuplicateNode is returned when a location already holds a node.
	ErrDuplicateNode = errors.New("duplicate node at location")

	// ErrDuplicateEdge is returned when two locations are already connected.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrMissingNode is returned when an edge endpoint has no node.
	ErrMissingNode = errors.New("edge endpoint is not a node")

	// ErrComponentNotFound is returned when removing a name that was never added.
	ErrComponentNotFound = errors.New("no component with this name exists")

	// ErrNegativeDuration is returned when the metric yields a negative distance.
	ErrNegativeDuration = errors.New("edge duration must not be negative")
)

type nodeSpec struct {
	name     string
	location kernel.Location
	kind     Kind
	foods    []string
}

type edgeSpec struct {
	name string
	a    kernel.Location
	b    kernel.Location
}

type locationPair struct {
	a kernel.Location
	b kernel.Location
}

// Builder collects nodes and edges and freezes them into a Region.
// The zero value is not usable; create builders with NewBuilder.
//
// Example:
//
//	b := region.NewBuilder()
//	_ = b.AddRestaurantPreset(kernel.NewLocation(0, 0), region.JavaHut)
//	_ = b.AddNeighborhood("N", kernel.NewLocation(3, 4))
//	_ = b.AddEdge("R-N", kernel.NewLocation(0, 0), kernel.NewLocation(3, 4))
//	r, err := b.Build()
type Builder struct {
	distance kernel.DistanceCalculator
	nodes    map[kernel.Location]nodeSpec
	edges    map[locationPair]edgeSpec
	names    map[string]struct{}
}

// NewBuilder returns an empty builder using the Euclidean metric.
func NewBuilder() *Builder {
	return &Builder{
		distance: kernel.EuclideanDistance{},
		nodes:    make(map[kernel.Location]nodeSpec),
		edges:    make(map[locationPair]edgeSpec),
		names:    make(map[string]struct{}),
	}
}

// SetDistanceCalculator replaces the metric used to compute edge durations.
func (b *Builder) SetDistanceCalculator(calculator kernel.DistanceCalculator) error {
	if calculator == nil {
		return errs.NewValueIsRequiredError("distanceCalculator")
	}
	b.distance = calculator
	return nil
}

// AddNode adds a plain junction.
func (b *Builder) AddNode(name string, location kernel.Location) error {
	return b.addNode(nodeSpec{name: name, location: location, kind: KindNode})
}

// AddNeighborhood adds a delivery destination.
func (b *Builder) AddNeighborhood(name string, location kernel.Location) error {
	return b.addNode(nodeSpec{name: name, location: location, kind: KindNeighborhood})
}

// AddRestaurant adds an order origin with the given menu.
func (b *Builder) AddRestaurant(name string, location kernel.Location, foods []string) error {
	return b.addNode(nodeSpec{name: name, location: location, kind: KindRestaurant, foods: slices.Clone(foods)})
}

// AddRestaurantPreset adds one of the predefined restaurants.
func (b *Builder) AddRestaurantPreset(location kernel.Location, preset RestaurantPreset) error {
	return b.AddRestaurant(preset.Name(), location, preset.Foods())
}

// CheckNode reports whether a node with name and location could be added.
func (b *Builder) CheckNode(name string, location kernel.Location) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if _, ok := b.names[name]; ok {
		return fmt.Errorf("%w: '%s'", ErrDuplicateName, name)
	}
	if _, ok := b.nodes[location]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, location)
	}
	return nil
}

// AddEdge connects two existing nodes. The endpoints may be given in any order.
func (b *Builder) AddEdge(name string, a kernel.Location, c kernel.Location) error {
	if err := b.CheckEdge(name, a, c); err != nil {
		return err
	}
	first, second := kernel.SortLocations(a, c)
	b.edges[locationPair{a: first, b: second}] = edgeSpec{name: name, a: first, b: second}
	b.names[name] = struct{}{}
	return nil
}

// CheckEdge reports whether an edge with name between a and c could be added.
func (b *Builder) CheckEdge(name string, a kernel.Location, c kernel.Location) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	if _, ok := b.names[name]; ok {
		return fmt.Errorf("%w: '%s'", ErrDuplicateName, name)
	}
	first, second := kernel.SortLocations(a, c)
	if first == second {
		return errs.NewValueIsInvalidErrorWithCause("edge", fmt.Errorf("edge %q connects %s to itself", name, first))
	}
	for _, loc := range []kernel.Location{first, second} {
		if _, ok := b.nodes[loc]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingNode, loc)
		}
	}
	if _, ok := b.edges[locationPair{a: first, b: second}]; ok {
		return fmt.Errorf("%w connecting %s to %s", ErrDuplicateEdge, first, second)
	}
	return nil
}

// RemoveComponent removes the node or edge called name.
// Removing a node keeps its edges; Build fails until they are removed too.
func (b *Builder) RemoveComponent(name string) error {
	if _, ok := b.names[name]; !ok {
		return fmt.Errorf("%w: '%s'", ErrComponentNotFound, name)
	}
	delete(b.names, name)

	for loc, spec := range b.nodes {
		if spec.name == name {
			delete(b.nodes, loc)
			return nil
		}
	}
	for pair, spec := range b.edges {
		if spec.name == name {
			delete(b.edges, pair)
			return nil
		}
	}
	return nil
}

// Build freezes the collected components into an immutable Region.
func (b *Builder) Build() (*Region, error) {
	r := &Region{
		nodes:    make(map[kernel.Location]*Node, len(b.nodes)),
		edges:    make(map[kernel.Location]map[kernel.Location]*Edge),
		names:    make(map[string]Component, len(b.names)),
		distance: b.distance,
	}

	for loc, spec := range b.nodes {
		n := &Node{
			region:   r,
			name:     spec.name,
			location: loc,
			kind:     spec.kind,
			foods:    slices.Clone(spec.foods),
		}
		r.nodes[loc] = n
		r.names[n.name] = n
		r.nodeList = append(r.nodeList, n)
	}

	for pair, spec := range b.edges {
		nodeA, nodeB := r.nodes[pair.a], r.nodes[pair.b]
		if nodeA == nil || nodeB == nil {
			return nil, fmt.Errorf("%w: edge %q connects %s to %s", ErrMissingNode, spec.name, pair.a, pair.b)
		}

		distance := b.distance.Distance(pair.a, pair.b)
		if distance < 0 || math.IsNaN(distance) {
			return nil, fmt.Errorf("%w: edge %q has distance %v", ErrNegativeDuration, spec.name, distance)
		}

		e := &Edge{
			region:    r,
			name:      spec.name,
			locationA: pair.a,
			locationB: pair.b,
			duration:  int64(math.Ceil(distance)),
		}
		if r.edges[pair.a] == nil {
			r.edges[pair.a] = make(map[kernel.Location]*Edge)
		}
		r.edges[pair.a][pair.b] = e
		r.names[e.name] = e
		r.edgeList = append(r.edgeList, e)

		nodeA.connections = append(nodeA.connections, pair.b)
		nodeB.connections = append(nodeB.connections, pair.a)
	}

	slices.SortFunc(r.nodeList, (*Node).Compare)
	slices.SortFunc(r.edgeList, (*Edge).Compare)
	for _, n := range r.nodeList {
		slices.SortFunc(n.connections, kernel.Location.Compare)
	}

	return r, nil
}

func (b *Builder) addNode(spec nodeSpec) error {
	if err := b.CheckNode(spec.name, spec.location); err != nil {
		return err
	}
	b.nodes[spec.location] = spec
	b.names[spec.name] = struct{}{}
	return nil
}
