package kernel

import (
	"cmp"
	"fmt"
)

// Location is a point on the integer road grid.
// Location is an immutable value object; every pair of integers is a valid location,
// so the zero value (0,0) is usable as is.
//
// Locations are totally ordered: first by X, then by Y. The order is used to normalize
// edge endpoints and to iterate graph components deterministically.
//
// Example:
//
//	a := kernel.NewLocation(1, 2)
//	b := kernel.NewLocation(1, 3)
//	a.Less(b)      // true
//	fmt.Println(a) // (1,2)
type Location struct {
	x int
	y int
}

// NewLocation creates a Location from its coordinates.
//
// Parameters:
//   - x: The X coordinate
//   - y: The Y coordinate
//
// Returns:
//   - Location: The location value
func NewLocation(x int, y int) Location {
	return Location{x: x, y: y}
}

// X returns the X coordinate.
func (l Location) X() int {
	return l.x
}

// Y returns the Y coordinate.
func (l Location) Y() int {
	return l.y
}

// Compare orders two locations by X, then by Y.
//
// Returns:
//   - -1 if l sorts before other
//   - 0 if both locations are equal
//   - +1 if l sorts after other
func (l Location) Compare(other Location) int {
	if c := cmp.Compare(l.x, other.x); c != 0 {
		return c
	}
	return cmp.Compare(l.y, other.y)
}

// Less reports whether l sorts strictly before other.
func (l Location) Less(other Location) bool {
	return l.Compare(other) < 0
}

// IsEqual reports whether both coordinates match.
func (l Location) IsEqual(other Location) bool {
	return l == other
}

// Add returns the component-wise sum of two locations.
func (l Location) Add(other Location) Location {
	return Location{x: l.x + other.x, y: l.y + other.y}
}

// Subtract returns the component-wise difference of two locations.
func (l Location) Subtract(other Location) Location {
	return Location{x: l.x - other.x, y: l.y - other.y}
}

// String implements fmt.Stringer in the form "(x,y)".
func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.x, l.y)
}

// SortLocations orders a pair so that the first result is not greater than the second.
func SortLocations(a Location, b Location) (Location, Location) {
	if b.Less(a) {
		return b, a
	}
	return a, b
}
