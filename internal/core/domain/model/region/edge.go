package region

import (
	"fmt"

	"delivery-sim/internal/core/domain/model/kernel"
)

// Edge is a weighted, undirected connection between two nodes.
// Its endpoints are normalized so that LocationA is not greater than LocationB, and its
// Duration is the ceiling of the distance between them under the region's metric.
type Edge struct {
	region    *Region
	name      string
	locationA kernel.Location
	locationB kernel.Location
	duration  int64
}

// Name returns the name given to the edge when the region was built.
func (e *Edge) Name() string {
	return e.name
}

// Kind is always KindEdge.
func (e *Edge) Kind() Kind {
	return KindEdge
}

// Key identifies the edge by name and both endpoints.
func (e *Edge) Key() Key {
	return Key{Name: e.name, A: e.locationA, B: e.locationB}
}

// Region returns the region the edge belongs to.
func (e *Edge) Region() *Region {
	return e.region
}

// LocationA returns the smaller endpoint.
func (e *Edge) LocationA() kernel.Location {
	return e.locationA
}

// LocationB returns the greater endpoint.
func (e *Edge) LocationB() kernel.Location {
	return e.locationB
}

// NodeA returns the node at LocationA.
func (e *Edge) NodeA() *Node {
	return e.region.Node(e.locationA)
}

// NodeB returns the node at LocationB.
func (e *Edge) NodeB() *Node {
	return e.region.Node(e.locationB)
}

// Duration returns the number of ticks needed to cross the edge.
func (e *Edge) Duration() int64 {
	return e.duration
}

// Other returns the endpoint opposite to node, or nil if node is not an endpoint.
func (e *Edge) Other(node *Node) *Node {
	switch {
	case node == nil:
		return nil
	case node.location == e.locationA:
		return e.NodeB()
	case node.location == e.locationB:
		return e.NodeA()
	default:
		return nil
	}
}

// Compare orders edges by LocationA, then LocationB.
func (e *Edge) Compare(other *Edge) int {
	if c := e.locationA.Compare(other.locationA); c != 0 {
		return c
	}
	return e.locationB.Compare(other.locationB)
}

func (e *Edge) String() string {
	return fmt.Sprintf("Edge(name=%q, a=%s, b=%s, duration=%d)", e.name, e.locationA, e.locationB, e.duration)
}
