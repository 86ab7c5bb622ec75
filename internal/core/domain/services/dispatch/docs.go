// Package dispatch provides the delivery services that steer vehicles through a
// simulation. A delivery service receives confirmed orders, advances the
// fleet.Manager one tick at a time and decides which vehicle loads which order
// and where it drives next.
//
// The package includes:
//   - DeliveryService: The contract every strategy implements
//   - OrderDispatcher: Picks the vehicle that should carry an order
//   - Basic: Nearest-first delivery tours starting and ending at home restaurants
//   - Bogo: A seeded random walk, useful as a baseline
//   - Factory: Creates a fresh service per simulation run
//
// Orders handed to Deliver may arrive from any goroutine. Everything else runs
// on the simulation goroutine.
package dispatch
