package fleet

import (
	"testing"

	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/core/domain/services/pathcalc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangleManager(t *testing.T) (*Manager, *region.Region) {
	t.Helper()

	b := region.NewBuilder()
	require.NoError(t, b.AddRestaurantPreset(kernel.NewLocation(0, 0), region.MiddleFop))
	require.NoError(t, b.AddNode("A", kernel.NewLocation(1, 0)))
	require.NoError(t, b.AddNode("B", kernel.NewLocation(0, 1)))
	require.NoError(t, b.AddEdge("RA", kernel.NewLocation(0, 0), kernel.NewLocation(1, 0)))
	require.NoError(t, b.AddEdge("RB", kernel.NewLocation(0, 0), kernel.NewLocation(0, 1)))
	r, err := b.Build()
	require.NoError(t, err)

	mb := NewBuilder().SetRegion(r).SetPathCalculator(pathcalc.NewDijkstra())
	require.NoError(t, mb.AddVehicle(kernel.NewLocation(0, 0), 1))
	m, err := mb.Build()
	require.NoError(t, err)
	_, err = m.Tick(0)
	require.NoError(t, err)
	return m, r
}

func TestOccupied_addVehicle(t *testing.T) {
	t.Run("should reject node to node transitions", func(t *testing.T) {
		m, r := triangleManager(t)
		v := m.vehicles[0]
		target, err := m.occupiedNode(r.Node(kernel.NewLocation(1, 0)))
		require.NoError(t, err)

		err = target.addVehicle(v, 1)

		require.ErrorIs(t, err, ErrIllegalTransition)
		assert.True(t, v.start.Contains(v))
	})

	t.Run("should reject edge to edge transitions", func(t *testing.T) {
		m, r := triangleManager(t)
		v := m.vehicles[0]
		first, err := m.occupiedEdge(r.Edge(kernel.NewLocation(0, 0), kernel.NewLocation(1, 0)))
		require.NoError(t, err)
		second, err := m.occupiedEdge(r.Edge(kernel.NewLocation(0, 0), kernel.NewLocation(0, 1)))
		require.NoError(t, err)
		require.NoError(t, first.addVehicle(v, 1))

		err = second.addVehicle(v, 2)

		require.ErrorIs(t, err, ErrIllegalTransition)
		assert.True(t, first.Contains(v))
		assert.False(t, second.Contains(v))
	})

	t.Run("should fail when the vehicle is missing from its previous wrapper", func(t *testing.T) {
		m, r := triangleManager(t)
		v := m.vehicles[0]
		delete(v.start.vehicles, v.id)
		edge, err := m.occupiedEdge(r.Edge(kernel.NewLocation(0, 0), kernel.NewLocation(1, 0)))
		require.NoError(t, err)

		err = edge.addVehicle(v, 1)

		require.ErrorIs(t, err, ErrVehicleNotInPrevious)
	})

	t.Run("should ignore re-adding a resident", func(t *testing.T) {
		m, _ := triangleManager(t)
		v := m.vehicles[0]

		require.NoError(t, v.start.addVehicle(v, 3))
		arrived, ok := v.start.ArrivalTick(v)
		assert.True(t, ok)
		assert.Equal(t, int64(0), arrived)
	})
}
