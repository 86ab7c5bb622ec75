package fleet

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalTransition is returned when a vehicle would move node to node or edge to edge.
	ErrIllegalTransition = errors.New("illegal occupied transition")

	// ErrVehicleNotInPrevious is returned when a vehicle is missing from the wrapper it claims to leave.
	ErrVehicleNotInPrevious = errors.New("vehicle was not found in previous component")

	// ErrUnsupportedComponentKind is returned for components outside the known kinds.
	ErrUnsupportedComponentKind = errors.New("unsupported component kind")

	// ErrVehicleNotPresent is returned when loading or delivering for a vehicle located elsewhere.
	ErrVehicleNotPresent = errors.New("vehicle is not located on this node")

	// ErrMoveToOwnNode is returned when an idle vehicle is sent to the node it rests on.
	ErrMoveToOwnNode = errors.New("vehicle cannot move to own node")

	// ErrWrongRestaurant is returned when an order is loaded at a restaurant it was not placed at.
	ErrWrongRestaurant = errors.New("order was placed at another restaurant")

	// ErrNotAdjacent is returned when a queued path contains consecutive nodes without an edge.
	ErrNotAdjacent = errors.New("nodes are not connected by an edge")

	// ErrVehicleOverloaded is the sentinel wrapped by VehicleOverloadedError.
	ErrVehicleOverloaded = errors.New("vehicle is overloaded")
)

// VehicleOverloadedError reports an order that does not fit into a vehicle.
type VehicleOverloadedError struct {
	VehicleID        int
	Capacity         float64
	RequiredCapacity float64
}

func NewVehicleOverloadedError(vehicleID int, capacity float64, required float64) *VehicleOverloadedError {
	return &VehicleOverloadedError{
		VehicleID:        vehicleID,
		Capacity:         capacity,
		RequiredCapacity: required,
	}
}

func (e *VehicleOverloadedError) Error() string {
	return fmt.Sprintf("%s: vehicle with id %d, maximum capacity %g, necessary capacity %g",
		ErrVehicleOverloaded, e.VehicleID, e.Capacity, e.RequiredCapacity)
}

func (e *VehicleOverloadedError) Unwrap() error {
	return ErrVehicleOverloaded
}
