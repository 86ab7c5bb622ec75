package region

import (
	"fmt"
	"slices"

	"delivery-sim/internal/core/domain/model/kernel"
)

// Node is a resting point of the road graph.
//
// A node has one of three kinds:
//   - KindNode: a plain junction
//   - KindNeighborhood: a valid delivery destination
//   - KindRestaurant: an order origin that carries a menu of available food
//
// Nodes are created by Builder.Build and never change afterwards.
type Node struct {
	region      *Region
	name        string
	location    kernel.Location
	kind        Kind
	foods       []string
	connections []kernel.Location
}

// Name returns the unique component name.
func (n *Node) Name() string {
	return n.name
}

// Location returns the unique grid position of the node.
func (n *Node) Location() kernel.Location {
	return n.location
}

// Kind returns KindNode, KindNeighborhood or KindRestaurant.
func (n *Node) Kind() Kind {
	return n.kind
}

// Key returns the stable identity of the node.
func (n *Node) Key() Key {
	return Key{Name: n.name, A: n.location, B: n.location}
}

// Region returns the graph the node belongs to.
func (n *Node) Region() *Region {
	return n.region
}

// IsNeighborhood reports whether orders can be delivered here.
func (n *Node) IsNeighborhood() bool {
	return n.kind == KindNeighborhood
}

// IsRestaurant reports whether vehicles can load orders here.
func (n *Node) IsRestaurant() bool {
	return n.kind == KindRestaurant
}

// AvailableFood returns a copy of the restaurant menu. It is empty for other kinds.
func (n *Node) AvailableFood() []string {
	return slices.Clone(n.foods)
}

// Serves reports whether food is on the menu.
func (n *Node) Serves(food string) bool {
	return slices.Contains(n.foods, food)
}

// Connections returns the locations of adjacent nodes in ascending order.
func (n *Node) Connections() []kernel.Location {
	return slices.Clone(n.connections)
}

// Edge returns the edge between n and other, or nil if they are not adjacent.
func (n *Node) Edge(other *Node) *Edge {
	if other == nil {
		return nil
	}
	return n.region.Edge(n.location, other.location)
}

// AdjacentNodes returns the neighbours of n ordered by location.
func (n *Node) AdjacentNodes() []*Node {
	nodes := make([]*Node, 0, len(n.connections))
	for _, loc := range n.connections {
		nodes = append(nodes, n.region.Node(loc))
	}
	return nodes
}

// AdjacentEdges returns the edges incident to n ordered by the neighbour location.
func (n *Node) AdjacentEdges() []*Edge {
	edges := make([]*Edge, 0, len(n.connections))
	for _, loc := range n.connections {
		edges = append(edges, n.region.Edge(n.location, loc))
	}
	return edges
}

// Compare orders nodes by location.
func (n *Node) Compare(other *Node) int {
	return n.location.Compare(other.location)
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(name=%q, location=%s)", n.kind, n.name, n.location)
}
