package pathcalc

import (
	"fmt"
	"slices"

	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/pkg/errs"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/samber/lo"
)

// DefaultCacheSize is the number of destinations a Cached calculator keeps by default.
const DefaultCacheSize = 1024

// Cached decorates another PathCalculator with a least-recently-used cache of
// AllPathsTo results keyed by destination.
//
// Callers always receive copies, so mutating a returned route never changes what
// later calls observe. Cached is safe for concurrent use if its delegate is.
type Cached struct {
	delegate PathCalculator
	size     int
	cache    *lru.Cache[region.Key, map[region.Key][]*region.Node]
}

// NewCached wraps delegate with a cache holding up to size destinations.
//
// Parameters:
//   - delegate: The calculator that computes missing entries
//   - size: Cache capacity (must be positive)
//
// Returns:
//   - *Cached: The decorator
//   - error: ValueIsRequiredError or ValueIsOutOfRangeError for invalid arguments
func NewCached(delegate PathCalculator, size int) (*Cached, error) {
	if delegate == nil {
		return nil, errs.NewValueIsRequiredError("delegate")
	}
	if size <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("size", size, 1, "+inf")
	}

	cache, err := lru.New[region.Key, map[region.Key][]*region.Node](size)
	if err != nil {
		return nil, fmt.Errorf("create path cache: %w", err)
	}

	return &Cached{delegate: delegate, size: size, cache: cache}, nil
}

// Delegate returns the wrapped calculator.
func (c *Cached) Delegate() PathCalculator {
	return c.delegate
}

// Size returns the cache capacity.
func (c *Cached) Size() int {
	return c.size
}

// Path returns the cached route from start to end, computing all routes to end on a miss.
func (c *Cached) Path(start *region.Node, end *region.Node) ([]*region.Node, error) {
	if err := checkPair(start, end); err != nil {
		return nil, err
	}
	if start == end {
		return []*region.Node{}, nil
	}

	paths, err := c.lookup(end)
	if err != nil {
		return nil, err
	}

	path, ok := paths[start.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s to %s", ErrNoPath, start.Name(), end.Name())
	}
	return slices.Clone(path), nil
}

// AllPathsTo returns a copy of the cached routes to end.
func (c *Cached) AllPathsTo(end *region.Node) (map[region.Key][]*region.Node, error) {
	if end == nil {
		return nil, errs.NewValueIsRequiredError("end")
	}

	paths, err := c.lookup(end)
	if err != nil {
		return nil, err
	}

	return lo.MapValues(paths, func(path []*region.Node, _ region.Key) []*region.Node {
		return slices.Clone(path)
	}), nil
}

func (c *Cached) lookup(end *region.Node) (map[region.Key][]*region.Node, error) {
	if paths, ok := c.cache.Get(end.Key()); ok {
		return paths, nil
	}

	paths, err := c.delegate.AllPathsTo(end)
	if err != nil {
		return nil, err
	}
	c.cache.Add(end.Key(), paths)
	return paths, nil
}
