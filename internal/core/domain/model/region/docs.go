// Package region models the road graph that delivery vehicles travel on.
//
// A Region is built once with a Builder and is immutable afterwards. It consists of:
//   - Nodes: resting points, specialized as plain nodes, Neighborhoods (delivery
//     destinations) and Restaurants (order origins with a menu)
//   - Edges: undirected connections whose duration in ticks is the rounded-up distance
//     between the endpoints under the configured kernel.DistanceCalculator
//
// Component variants form a closed set described by Kind. Every component has a stable
// Key (name and location) that other packages use to index per-component state.
package region
