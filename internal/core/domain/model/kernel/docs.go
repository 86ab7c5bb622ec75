// Package kernel provides the value objects shared by every part of the simulation.
//
// The package includes:
//   - Location: an integer grid point with a total order (x, then y)
//   - DistanceCalculator: pluggable metrics (Euclidean, Manhattan, Chessboard, custom)
//   - TickInterval: a validated closed window of simulation ticks
//   - UUID: identifiers for persisted aggregates
//
// All values are immutable and safe to share between goroutines.
package kernel
