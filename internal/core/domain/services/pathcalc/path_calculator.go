// Package pathcalc finds shortest routes through a region.Region.
//
// Routes are measured by the summed duration of their edges. Dijkstra computes them
// from scratch; Cached memoizes the per-destination result of any other calculator.
package pathcalc

import (
	"errors"

	"delivery-sim/internal/core/domain/model/region"
)

var (
	// ErrNoPath is returned when the destination cannot be reached from the start.
	ErrNoPath = errors.New("no path between nodes")

	// ErrForeignNode is returned when start and end belong to different regions.
	ErrForeignNode = errors.New("nodes belong to different regions")
)

// PathCalculator computes shortest routes between nodes of one region.
//
// A route is the ordered sequence of nodes a vehicle visits after leaving start:
// start itself is excluded and end is the last element. A route from a node to
// itself is empty.
type PathCalculator interface {
	// Path returns the route from start to end.
	Path(start *region.Node, end *region.Node) ([]*region.Node, error)

	// AllPathsTo returns the route to end from every node that can reach it,
	// keyed by the start node's identity.
	AllPathsTo(end *region.Node) (map[region.Key][]*region.Node, error)
}

// Duration sums the edge durations along route, starting at start.
func Duration(start *region.Node, route []*region.Node) (int64, error) {
	var total int64
	current := start
	for _, next := range route {
		edge := current.Edge(next)
		if edge == nil {
			return 0, ErrNoPath
		}
		total += edge.Duration()
		current = next
	}
	return total, nil
}
