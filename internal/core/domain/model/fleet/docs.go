// Package fleet runs vehicles over a region.Region one tick at a time.
//
// Every node and edge of the region is wrapped by an Occupied value that tracks
// which vehicles currently reside on it, when they arrived and where they came
// from. Vehicles only ever move through these wrappers, alternating strictly
// between nodes and edges:
//
//	Node ──advance──> Edge ──(arrived + duration <= tick)──> Node
//
// The Manager owns the wrappers, the vehicles and the event.Bus. Manager.Tick
// spawns vehicles waiting to enter the simulation, advances every resident
// vehicle at most one hop and returns the events of the tick.
//
// Vehicles follow a FIFO queue of Paths. A Path is a node sequence (start
// excluded) with an optional ArrivalFunc that runs once the vehicle has reached
// the final node. Paths without a callback chain directly into the next one.
//
// Restaurants load orders onto vehicles and neighborhoods deliver them; both
// require the vehicle to be present at the wrapper.
//
// The package is not safe for concurrent use. Only the event.Bus may be read
// from other goroutines while the simulation ticks.
package fleet
