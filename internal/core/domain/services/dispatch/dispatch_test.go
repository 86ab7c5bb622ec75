package dispatch_test

import (
	"testing"

	"delivery-sim/internal/core/domain/model/event"
	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/model/order"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/core/domain/services/pathcalc"

	"github.com/stretchr/testify/require"
)

var (
	locR  = kernel.NewLocation(0, 0)
	locA  = kernel.NewLocation(1, 0)
	locN1 = kernel.NewLocation(2, 0)
	locN2 = kernel.NewLocation(0, 1)
)

// town builds N2–R–A–N1, every edge of duration 1, with Java Hut at R.
func town(t *testing.T) *region.Region {
	t.Helper()

	b := region.NewBuilder()
	require.NoError(t, b.AddRestaurantPreset(locR, region.JavaHut))
	require.NoError(t, b.AddNode("A", locA))
	require.NoError(t, b.AddNeighborhood("N1", locN1))
	require.NoError(t, b.AddNeighborhood("N2", locN2))
	require.NoError(t, b.AddEdge("R-A", locR, locA))
	require.NoError(t, b.AddEdge("A-N1", locA, locN1))
	require.NoError(t, b.AddEdge("R-N2", locR, locN2))
	r, err := b.Build()
	require.NoError(t, err)
	return r
}

func fleetOf(t *testing.T, r *region.Region, home kernel.Location, capacities ...float64) *fleet.Manager {
	t.Helper()

	b := fleet.NewBuilder().SetRegion(r).SetPathCalculator(pathcalc.NewDijkstra())
	for _, c := range capacities {
		require.NoError(t, b.AddVehicle(home, c))
	}
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

func newOrder(t *testing.T, restaurant *region.Node, destination kernel.Location, weight float64, deadline int64) *order.ConfirmedOrder {
	t.Helper()

	window, err := kernel.NewTickInterval(0, deadline)
	require.NoError(t, err)
	o, err := order.NewConfirmedOrder(destination, restaurant, window, nil, weight)
	require.NoError(t, err)
	return o
}

// runTicks ticks s from..to (exclusive) and returns every event.
func runTicks(t *testing.T, tick func(int64) ([]event.Event, error), from, to int64) []event.Event {
	t.Helper()

	var all []event.Event
	for i := from; i < to; i++ {
		events, err := tick(i)
		require.NoError(t, err)
		all = append(all, events...)
	}
	return all
}
