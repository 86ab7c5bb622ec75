package kernel

import (
	"errors"
	"fmt"

	"delivery-sim/internal/pkg/errs"
	"delivery-sim/internal/pkg/guard"
)

// ErrTickIntervalIsNotConstructed is returned when a zero TickInterval is used.
var ErrTickIntervalIsNotConstructed = errs.NewValueIsRequiredError(
	"tick interval must be created via NewTickInterval constructor")

// TickInterval is a closed range of simulation ticks [start, end].
// It describes the window in which an order is expected to be delivered.
//
// Invariants:
//   - start >= 0
//   - end >= start
//
// Example:
//
//	window, err := kernel.NewTickInterval(10, 15)
//	if err != nil {
//	    return err
//	}
//	window.Contains(12) // true
//	window.Duration()   // 5
type TickInterval struct {
	start int64
	end   int64
	guard guard.ConstructorGuard
}

// NewTickInterval creates a validated tick window.
//
// Parameters:
//   - start: First tick of the window (must be non-negative)
//   - end: Last tick of the window (must not be before start)
//
// Returns:
//   - TickInterval: The window
//   - error: ValueIsOutOfRangeError if a bound is invalid
func NewTickInterval(start int64, end int64) (TickInterval, error) {
	interval := TickInterval{guard: guard.NewConstructorGuard()}
	if err := errors.Join(interval.setStart(start), interval.setEnd(start, end)); err != nil {
		return TickInterval{}, err
	}
	return interval, nil
}

// Validate reports whether the interval was built with NewTickInterval.
func (t TickInterval) Validate() error {
	return t.guard.Validate(ErrTickIntervalIsNotConstructed)
}

// Start returns the first tick of the window.
func (t TickInterval) Start() int64 {
	return t.start
}

// End returns the last tick of the window.
func (t TickInterval) End() int64 {
	return t.end
}

// Duration returns end - start.
func (t TickInterval) Duration() int64 {
	return t.end - t.start
}

// Contains reports whether tick lies inside the window, bounds included.
func (t TickInterval) Contains(tick int64) bool {
	return tick >= t.start && tick <= t.end
}

// Offset returns how many ticks lie between tick and the window.
// It is zero for ticks inside the window.
func (t TickInterval) Offset(tick int64) int64 {
	switch {
	case tick < t.start:
		return t.start - tick
	case tick > t.end:
		return tick - t.end
	default:
		return 0
	}
}

func (t TickInterval) String() string {
	return fmt.Sprintf("[%d,%d]", t.start, t.end)
}

func (t *TickInterval) setStart(start int64) error {
	if start < 0 {
		return errs.NewValueIsOutOfRangeError("start", start, 0, "+inf")
	}
	t.start = start
	return nil
}

func (t *TickInterval) setEnd(start int64, end int64) error {
	if end < start {
		return errs.NewValueIsOutOfRangeError("end", end, start, "+inf")
	}
	t.end = end
	return nil
}
