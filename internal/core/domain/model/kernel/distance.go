package kernel

import (
	"fmt"
	"math"

	"delivery-sim/internal/pkg/errs"
)

// Names of the built-in distance metrics.
const (
	EuclideanDistanceName  = "euclidean"
	ManhattanDistanceName  = "manhattan"
	ChessboardDistanceName = "chessboard"
)

// DistanceCalculator measures the distance between two locations.
// Name identifies the metric so that regions built with it can be exported and rebuilt.
type DistanceCalculator interface {
	Distance(a Location, b Location) float64
	Name() string
}

// EuclideanDistance is the straight-line metric sqrt(dx² + dy²).
type EuclideanDistance struct{}

func (EuclideanDistance) Distance(a Location, b Location) float64 {
	dx := float64(a.x - b.x)
	dy := float64(a.y - b.y)
	return math.Sqrt(dx*dx + dy*dy)
}

func (EuclideanDistance) Name() string { return EuclideanDistanceName }

// ManhattanDistance is the grid metric |dx| + |dy|.
type ManhattanDistance struct{}

func (ManhattanDistance) Distance(a Location, b Location) float64 {
	return float64(abs(a.x-b.x) + abs(a.y-b.y))
}

func (ManhattanDistance) Name() string { return ManhattanDistanceName }

// ChessboardDistance is the king-move metric max(|dx|, |dy|).
type ChessboardDistance struct{}

func (ChessboardDistance) Distance(a Location, b Location) float64 {
	return float64(max(abs(a.x-b.x), abs(a.y-b.y)))
}

func (ChessboardDistance) Name() string { return ChessboardDistanceName }

// DistanceFunc adapts a plain function to DistanceCalculator under a custom name.
type DistanceFunc struct {
	name string
	fn   func(a Location, b Location) float64
}

// NewDistanceFunc wraps fn as a named DistanceCalculator.
func NewDistanceFunc(name string, fn func(a Location, b Location) float64) (DistanceFunc, error) {
	if name == "" {
		return DistanceFunc{}, errs.NewValueIsRequiredError("name")
	}
	if fn == nil {
		return DistanceFunc{}, errs.NewValueIsRequiredError("fn")
	}
	return DistanceFunc{name: name, fn: fn}, nil
}

func (d DistanceFunc) Distance(a Location, b Location) float64 {
	return d.fn(a, b)
}

func (d DistanceFunc) Name() string { return d.name }

// DistanceCalculatorByName resolves one of the built-in metrics.
func DistanceCalculatorByName(name string) (DistanceCalculator, error) {
	switch name {
	case EuclideanDistanceName:
		return EuclideanDistance{}, nil
	case ManhattanDistanceName:
		return ManhattanDistance{}, nil
	case ChessboardDistanceName:
		return ChessboardDistance{}, nil
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("distance", fmt.Errorf("unknown metric %q", name))
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
