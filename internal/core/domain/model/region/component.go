package region

import (
	"fmt"

	"delivery-sim/internal/core/domain/model/kernel"
)

// Kind is the closed set of component variants in a road graph.
// Code that dispatches on components switches over Kind and treats any other
// value as a programming error.
type Kind int

const (
	// KindUnknown is the zero value and never describes a real component.
	KindUnknown Kind = iota

	// KindNode is a plain resting point.
	KindNode

	// KindNeighborhood is a node that accepts order deliveries.
	KindNeighborhood

	// KindRestaurant is a node that prepares orders and loads vehicles.
	KindRestaurant

	// KindEdge connects two nodes.
	KindEdge
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindUnknown:      "Unknown",
		KindNode:         "Node",
		KindNeighborhood: "Neighborhood",
		KindRestaurant:   "Restaurant",
		KindEdge:         "Edge",
	}
}

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	if s, ok := getKindStrings()[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsNode reports whether the kind is one of the node variants.
func (k Kind) IsNode() bool {
	return k == KindNode || k == KindNeighborhood || k == KindRestaurant
}

// Key is the stable identity of a component: its name and location.
// Nodes use their location for both A and B; edges use their normalized endpoints.
type Key struct {
	Name string
	A    kernel.Location
	B    kernel.Location
}

func (k Key) String() string {
	if k.A == k.B {
		return fmt.Sprintf("%s@%s", k.Name, k.A)
	}
	return fmt.Sprintf("%s@%s-%s", k.Name, k.A, k.B)
}

// Component is a node or an edge of a Region.
type Component interface {
	Name() string
	Kind() Kind
	Key() Key
	Region() *Region
}
