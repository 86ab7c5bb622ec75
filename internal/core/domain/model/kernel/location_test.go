package kernel_test

import (
	"slices"
	"testing"

	"delivery-sim/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
)

func TestLocation_Compare(t *testing.T) {
	tests := []struct {
		name     string
		a        kernel.Location
		b        kernel.Location
		expected int
	}{
		{"smaller x sorts first", kernel.NewLocation(0, 9), kernel.NewLocation(1, 0), -1},
		{"equal x compares y", kernel.NewLocation(2, 1), kernel.NewLocation(2, 3), -1},
		{"greater y sorts last", kernel.NewLocation(2, 4), kernel.NewLocation(2, 3), 1},
		{"equal locations", kernel.NewLocation(-3, 7), kernel.NewLocation(-3, 7), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Compare(tt.b))
			assert.Equal(t, -tt.expected, tt.b.Compare(tt.a))
		})
	}
}

func TestLocation_Ordering(t *testing.T) {
	t.Run("should sort by x then y", func(t *testing.T) {
		// Given
		locations := []kernel.Location{
			kernel.NewLocation(1, 1),
			kernel.NewLocation(0, 5),
			kernel.NewLocation(1, 0),
			kernel.NewLocation(-1, 2),
		}

		// When
		slices.SortFunc(locations, kernel.Location.Compare)

		// Then
		assert.Equal(t, []kernel.Location{
			kernel.NewLocation(-1, 2),
			kernel.NewLocation(0, 5),
			kernel.NewLocation(1, 0),
			kernel.NewLocation(1, 1),
		}, locations)
	})

	t.Run("should normalize pairs", func(t *testing.T) {
		a, b := kernel.SortLocations(kernel.NewLocation(3, 0), kernel.NewLocation(1, 4))

		assert.Equal(t, kernel.NewLocation(1, 4), a)
		assert.Equal(t, kernel.NewLocation(3, 0), b)
	})
}

func TestLocation_Arithmetic(t *testing.T) {
	a := kernel.NewLocation(3, 4)
	b := kernel.NewLocation(1, -2)

	assert.Equal(t, kernel.NewLocation(4, 2), a.Add(b))
	assert.Equal(t, kernel.NewLocation(2, 6), a.Subtract(b))
	assert.Equal(t, 3, a.X())
	assert.Equal(t, 4, a.Y())
	assert.True(t, a.IsEqual(kernel.NewLocation(3, 4)))
	assert.Equal(t, "(3,4)", a.String())
}
