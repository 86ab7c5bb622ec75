// Package scenario reads and writes YAML scenario files.
//
// A scenario describes one problem archetype: the road graph, the fleet, the
// order generator, the raters and the length of a run. Documents are decoded
// strictly, so a misspelled key is an error rather than a silently ignored field.
//
// Example:
//
//	name: friday-evening
//	length: 500
//	distance: euclidean
//	path_cache:
//	  size: 256
//	nodes:
//	  - {kind: restaurant, preset: Java Hut, x: 0, y: 0}
//	  - {kind: neighborhood, name: Uptown, x: 3, y: 4}
//	edges:
//	  - {from: Java Hut, to: Uptown}
//	vehicles:
//	  - {restaurant: Java Hut, capacity: 1, count: 2}
//	generator:
//	  kind: friday
//	  friday: {order_count: 100, last_tick: 480, seed: 7}
//	raters:
//	  amount_delivered: {}
//	  in_time: {ignored_ticks_off: 5, max_ticks_off: 25}
package scenario

// Node kinds accepted in documents.
const (
	KindNode         = "node"
	KindNeighborhood = "neighborhood"
	KindRestaurant   = "restaurant"
)

// Document is the YAML form of a problem archetype.
type Document struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Length      int64         `yaml:"length"`
	Distance    string        `yaml:"distance,omitempty"`
	PathCache   *PathCacheDoc `yaml:"path_cache,omitempty"`
	Nodes       []NodeDoc     `yaml:"nodes"`
	Edges       []EdgeDoc     `yaml:"edges"`
	Vehicles    []VehicleDoc  `yaml:"vehicles"`
	Generator   GeneratorDoc  `yaml:"generator"`
	Raters      RatersDoc     `yaml:"raters"`
}

// PathCacheDoc enables the least-recently-used route cache.
type PathCacheDoc struct {
	Size int `yaml:"size"`
}

// NodeDoc is a node of the road graph. Restaurants either name a preset, which
// also provides the node name, or list their foods.
type NodeDoc struct {
	Name   string   `yaml:"name,omitempty"`
	Kind   string   `yaml:"kind"`
	X      int      `yaml:"x"`
	Y      int      `yaml:"y"`
	Preset string   `yaml:"preset,omitempty"`
	Foods  []string `yaml:"foods,omitempty"`
}

// EdgeDoc connects two nodes by name. The name defaults to "<from> - <to>".
type EdgeDoc struct {
	Name string `yaml:"name,omitempty"`
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// VehicleDoc adds Count vehicles (default 1) starting at a restaurant.
type VehicleDoc struct {
	Restaurant string  `yaml:"restaurant"`
	Capacity   float64 `yaml:"capacity"`
	Count      int     `yaml:"count,omitempty"`
}

// GeneratorDoc selects the order generator by kind.
type GeneratorDoc struct {
	Kind   string     `yaml:"kind"`
	Friday *FridayDoc `yaml:"friday,omitempty"`
}

// FridayDoc overrides fields of generator.DefaultFridayConfig.
type FridayDoc struct {
	OrderCount        *int     `yaml:"order_count,omitempty"`
	DeliveryInterval  *int64   `yaml:"delivery_interval,omitempty"`
	MaxWeight         *float64 `yaml:"max_weight,omitempty"`
	StandardDeviation *float64 `yaml:"standard_deviation,omitempty"`
	LastTick          *int64   `yaml:"last_tick,omitempty"`
	Seed              *int64   `yaml:"seed,omitempty"`
}

// RatersDoc enables raters. An empty mapping enables a rater with its defaults.
type RatersDoc struct {
	AmountDelivered *FactorDoc `yaml:"amount_delivered,omitempty"`
	InTime          *InTimeDoc `yaml:"in_time,omitempty"`
	TravelDistance  *FactorDoc `yaml:"travel_distance,omitempty"`
}

type FactorDoc struct {
	Factor *float64 `yaml:"factor,omitempty"`
}

type InTimeDoc struct {
	IgnoredTicksOff *int64 `yaml:"ignored_ticks_off,omitempty"`
	MaxTicksOff     *int64 `yaml:"max_ticks_off,omitempty"`
}
