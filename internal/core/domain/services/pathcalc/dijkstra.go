package pathcalc

import (
	"cmp"
	"container/heap"
	"fmt"

	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/pkg/errs"
)

// Dijkstra is a stateless PathCalculator running single-source Dijkstra backwards
// from the destination.
//
// Outdated queue entries are skipped with a visited set instead of a decrease-key
// operation, so the queue may hold several entries for one node.
type Dijkstra struct{}

// NewDijkstra returns a ready to use calculator.
func NewDijkstra() *Dijkstra {
	return &Dijkstra{}
}

// Path returns the shortest route from start (exclusive) to end (inclusive).
func (d *Dijkstra) Path(start *region.Node, end *region.Node) ([]*region.Node, error) {
	if err := checkPair(start, end); err != nil {
		return nil, err
	}
	if start == end {
		return []*region.Node{}, nil
	}

	paths, err := d.AllPathsTo(end)
	if err != nil {
		return nil, err
	}

	path, ok := paths[start.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s to %s", ErrNoPath, start.Name(), end.Name())
	}
	return path, nil
}

// AllPathsTo returns the shortest route to end from every node that can reach it.
// Unreachable nodes are absent from the result.
func (d *Dijkstra) AllPathsTo(end *region.Node) (map[region.Key][]*region.Node, error) {
	if end == nil {
		return nil, errs.NewValueIsRequiredError("end")
	}

	nodes := end.Region().Nodes()
	dist := make(map[region.Key]distance, len(nodes))
	for _, n := range nodes {
		dist[n.Key()] = infinity
	}
	next := make(map[region.Key]*region.Node, len(nodes))
	visited := make(map[region.Key]bool, len(nodes))

	dist[end.Key()] = finite(0)
	pq := &queue{{node: end, dist: finite(0)}}

	for pq.Len() > 0 {
		current := heap.Pop(pq).(entry) //nolint:forcetypeassert // queue only holds entries
		key := current.node.Key()
		if visited[key] {
			continue
		}
		if current.dist.infinite {
			break
		}
		visited[key] = true

		for _, edge := range current.node.AdjacentEdges() {
			neighbour := edge.Other(current.node)
			nKey := neighbour.Key()
			if visited[nKey] {
				continue
			}
			candidate := current.dist.plus(edge.Duration())
			if candidate.compare(dist[nKey]) < 0 {
				dist[nKey] = candidate
				next[nKey] = current.node
				heap.Push(pq, entry{node: neighbour, dist: candidate})
			}
		}
	}

	paths := make(map[region.Key][]*region.Node, len(visited))
	for _, n := range nodes {
		if !visited[n.Key()] {
			continue
		}
		path := make([]*region.Node, 0)
		for cur := n; cur != end; {
			cur = next[cur.Key()]
			path = append(path, cur)
		}
		paths[n.Key()] = path
	}
	return paths, nil
}

func checkPair(start *region.Node, end *region.Node) error {
	if start == nil {
		return errs.NewValueIsRequiredError("start")
	}
	if end == nil {
		return errs.NewValueIsRequiredError("end")
	}
	if start.Region() != end.Region() {
		return ErrForeignNode
	}
	return nil
}

// distance is a path cost where infinite values are equal to each other and
// greater than every finite value.
type distance struct {
	value    int64
	infinite bool
}

var infinity = distance{infinite: true}

func finite(v int64) distance {
	return distance{value: v}
}

func (d distance) plus(v int64) distance {
	if d.infinite {
		return infinity
	}
	return finite(d.value + v)
}

func (d distance) compare(other distance) int {
	switch {
	case d.infinite && other.infinite:
		return 0
	case d.infinite:
		return 1
	case other.infinite:
		return -1
	default:
		return cmp.Compare(d.value, other.value)
	}
}

type entry struct {
	node *region.Node
	dist distance
}

// queue is a min-heap ordered by distance, ties broken by location.
type queue []entry

func (q queue) Len() int { return len(q) }

func (q queue) Less(i, j int) bool {
	if c := q[i].dist.compare(q[j].dist); c != 0 {
		return c < 0
	}
	return q[i].node.Compare(q[j].node) < 0
}

func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) {
	*q = append(*q, x.(entry)) //nolint:forcetypeassert // heap.Push only passes entries
}

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
