// Package order provides the ConfirmedOrder entity: an accepted order placed at a
// restaurant that should reach a destination within a tick window.
//
// The package includes:
//   - ConfirmedOrder: identity, destination, restaurant, window, foods, weight and delivery tick
//   - Status: the Confirmed -> Loaded -> Delivered state machine
//
// Key business rules:
//   - The restaurant must be a restaurant node serving every ordered food
//   - Weight is never negative
//   - The actual delivery tick is written exactly once
//   - Order ids come from a process-wide sequence and are unique within a process
package order
