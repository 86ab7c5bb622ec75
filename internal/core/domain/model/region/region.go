package region

import (
	"slices"

	"delivery-sim/internal/core/domain/model/kernel"

	"github.com/samber/lo"
)

// Region is the immutable road graph produced by Builder.Build.
// Lookups by location, location pair and name are constant time. All slices returned
// by Region are fresh copies ordered by location, so a Region can be shared freely
// between goroutines.
type Region struct {
	nodes    map[kernel.Location]*Node
	edges    map[kernel.Location]map[kernel.Location]*Edge
	names    map[string]Component
	nodeList []*Node
	edgeList []*Edge
	distance kernel.DistanceCalculator
}

// Node returns the node at location, or nil if there is none.
func (r *Region) Node(location kernel.Location) *Node {
	return r.nodes[location]
}

// Edge returns the edge connecting a and b in either order, or nil if there is none.
func (r *Region) Edge(a kernel.Location, b kernel.Location) *Edge {
	a, b = kernel.SortLocations(a, b)
	return r.edges[a][b]
}

// Component returns the node or edge with the given name.
func (r *Region) Component(name string) (Component, bool) {
	c, ok := r.names[name]
	return c, ok
}

// Nodes returns every node ordered by location.
func (r *Region) Nodes() []*Node {
	return slices.Clone(r.nodeList)
}

// Edges returns every edge ordered by its endpoints.
func (r *Region) Edges() []*Edge {
	return slices.Clone(r.edgeList)
}

// Neighborhoods returns the delivery destinations ordered by location.
func (r *Region) Neighborhoods() []*Node {
	return r.nodesOfKind(KindNeighborhood)
}

// Restaurants returns the order origins ordered by location.
func (r *Region) Restaurants() []*Node {
	return r.nodesOfKind(KindRestaurant)
}

// DistanceCalculator returns the metric the edge durations were computed with.
func (r *Region) DistanceCalculator() kernel.DistanceCalculator {
	return r.distance
}

func (r *Region) nodesOfKind(kind Kind) []*Node {
	return lo.Filter(r.nodeList, func(n *Node, _ int) bool {
		return n.kind == kind
	})
}
