package order

import (
	"fmt"

	"delivery-sim/internal/pkg/errs"
)

// Status represents the lifecycle state of a confirmed order.
//
// State transitions:
//
//	Confirmed ──> Loaded ──> Delivered
//	    │  ^         │
//	    │  └─────────┘ (unloaded)
//	    └──────────────────> Delivered
//
// Delivery straight from Confirmed is allowed for services that hand over an
// order without carrying it.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Confirmed is the initial status of an accepted order waiting at its restaurant.
	Confirmed

	// Loaded indicates the order is carried by a vehicle.
	Loaded

	// Delivered is the final state. No further transitions are allowed.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Confirmed: "Confirmed",
		Loaded:    "Loaded",
		Delivered: "Delivered",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Confirmed: "Confirmed",
		Loaded:    "Loaded",
		Delivered: "Delivered",
	}
}

// Validate checks if the Status value is one of Confirmed, Loaded or Delivered.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Load transitions Confirmed to Loaded.
func (s Status) Load() (Status, error) {
	if s != Confirmed {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to load", s.String()),
		)
	}
	return Loaded, nil
}

// Unload transitions Loaded back to Confirmed.
func (s Status) Unload() (Status, error) {
	if s != Loaded {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to unload", s.String()),
		)
	}
	return Confirmed, nil
}

// Deliver transitions Confirmed or Loaded to Delivered.
func (s Status) Deliver() (Status, error) {
	if s != Confirmed && s != Loaded {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", s.String()),
		)
	}
	return Delivered, nil
}
