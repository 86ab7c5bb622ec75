package region_test

import (
	"testing"

	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loc(x, y int) kernel.Location {
	return kernel.NewLocation(x, y)
}

func TestBuilder_AddNode(t *testing.T) {
	t.Run("should reject duplicate names across kinds", func(t *testing.T) {
		// Given
		b := region.NewBuilder()
		require.NoError(t, b.AddNode("A", loc(0, 0)))

		// When
		err := b.AddNeighborhood("A", loc(1, 1))

		// Then
		require.ErrorIs(t, err, region.ErrDuplicateName)
		assert.Contains(t, err.Error(), "'A'")
	})

	t.Run("should reject a second node at the same location", func(t *testing.T) {
		b := region.NewBuilder()
		require.NoError(t, b.AddNode("A", loc(0, 0)))

		err := b.AddRestaurant("B", loc(0, 0), []string{"Rigatoni"})

		require.ErrorIs(t, err, region.ErrDuplicateNode)
	})

	t.Run("should require a name", func(t *testing.T) {
		b := region.NewBuilder()

		err := b.AddNode("", loc(0, 0))

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should share the namespace with edges", func(t *testing.T) {
		b := region.NewBuilder()
		require.NoError(t, b.AddNode("A", loc(0, 0)))
		require.NoError(t, b.AddNode("B", loc(1, 0)))
		require.NoError(t, b.AddEdge("AB", loc(0, 0), loc(1, 0)))

		err := b.AddNode("AB", loc(5, 5))

		require.ErrorIs(t, err, region.ErrDuplicateName)
	})
}

func TestBuilder_AddEdge(t *testing.T) {
	newBuilder := func(t *testing.T) *region.Builder {
		b := region.NewBuilder()
		require.NoError(t, b.AddNode("A", loc(0, 0)))
		require.NoError(t, b.AddNode("B", loc(3, 4)))
		return b
	}

	t.Run("should fail when an endpoint is missing", func(t *testing.T) {
		b := newBuilder(t)

		err := b.AddEdge("AX", loc(0, 0), loc(9, 9))

		require.ErrorIs(t, err, region.ErrMissingNode)
	})

	t.Run("should reject the same pair in reverse order", func(t *testing.T) {
		b := newBuilder(t)
		require.NoError(t, b.AddEdge("AB", loc(0, 0), loc(3, 4)))

		err := b.AddEdge("BA", loc(3, 4), loc(0, 0))

		require.ErrorIs(t, err, region.ErrDuplicateEdge)
		assert.Contains(t, err.Error(), "(0,0) to (3,4)")
	})

	t.Run("should reject a loop", func(t *testing.T) {
		b := newBuilder(t)

		err := b.AddEdge("AA", loc(0, 0), loc(0, 0))

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestBuilder_RemoveComponent(t *testing.T) {
	t.Run("should fail for unknown names", func(t *testing.T) {
		b := region.NewBuilder()

		err := b.RemoveComponent("ghost")

		require.ErrorIs(t, err, region.ErrComponentNotFound)
	})

	t.Run("should free the name and the location", func(t *testing.T) {
		b := region.NewBuilder()
		require.NoError(t, b.AddNode("A", loc(0, 0)))

		require.NoError(t, b.RemoveComponent("A"))

		require.NoError(t, b.AddNode("A", loc(0, 0)))
	})

	t.Run("should break the build when a connected node is removed", func(t *testing.T) {
		b := region.NewBuilder()
		require.NoError(t, b.AddNode("A", loc(0, 0)))
		require.NoError(t, b.AddNode("B", loc(1, 0)))
		require.NoError(t, b.AddEdge("AB", loc(0, 0), loc(1, 0)))
		require.NoError(t, b.RemoveComponent("B"))

		_, err := b.Build()
		require.ErrorIs(t, err, region.ErrMissingNode)

		require.NoError(t, b.RemoveComponent("AB"))
		_, err = b.Build()
		require.NoError(t, err)
	})
}

func TestBuilder_Build(t *testing.T) {
	t.Run("should compute durations as rounded up distances", func(t *testing.T) {
		// Given
		b := region.NewBuilder()
		require.NoError(t, b.AddNode("A", loc(0, 0)))
		require.NoError(t, b.AddNode("B", loc(1, 1)))
		require.NoError(t, b.AddNode("C", loc(3, 4)))
		require.NoError(t, b.AddEdge("AB", loc(0, 0), loc(1, 1)))
		require.NoError(t, b.AddEdge("AC", loc(3, 4), loc(0, 0)))

		// When
		r, err := b.Build()
		require.NoError(t, err)

		// Then
		assert.Equal(t, int64(2), r.Edge(loc(0, 0), loc(1, 1)).Duration())
		assert.Equal(t, int64(5), r.Edge(loc(0, 0), loc(3, 4)).Duration())
	})

	t.Run("should use the configured metric", func(t *testing.T) {
		b := region.NewBuilder()
		require.NoError(t, b.SetDistanceCalculator(kernel.ManhattanDistance{}))
		require.NoError(t, b.AddNode("A", loc(0, 0)))
		require.NoError(t, b.AddNode("C", loc(3, 4)))
		require.NoError(t, b.AddEdge("AC", loc(0, 0), loc(3, 4)))

		r, err := b.Build()
		require.NoError(t, err)

		assert.Equal(t, int64(7), r.Edge(loc(0, 0), loc(3, 4)).Duration())
		assert.Equal(t, kernel.ManhattanDistanceName, r.DistanceCalculator().Name())
	})

	t.Run("should reject a nil metric", func(t *testing.T) {
		b := region.NewBuilder()

		require.ErrorIs(t, b.SetDistanceCalculator(nil), errs.ErrValueIsRequired)
	})

	t.Run("should reject metrics producing negative distances", func(t *testing.T) {
		negative, err := kernel.NewDistanceFunc("negative", func(_, _ kernel.Location) float64 { return -1 })
		require.NoError(t, err)
		b := region.NewBuilder()
		require.NoError(t, b.SetDistanceCalculator(negative))
		require.NoError(t, b.AddNode("A", loc(0, 0)))
		require.NoError(t, b.AddNode("B", loc(1, 0)))
		require.NoError(t, b.AddEdge("AB", loc(0, 0), loc(1, 0)))

		_, err = b.Build()

		require.ErrorIs(t, err, region.ErrNegativeDuration)
	})
}
