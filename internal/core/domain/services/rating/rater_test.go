package rating_test

import (
	"bytes"
	"log/slog"
	"testing"

	"delivery-sim/internal/core/domain/model/event"
	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/core/domain/model/kernel"
	"delivery-sim/internal/core/domain/model/order"
	"delivery-sim/internal/core/domain/model/region"
	"delivery-sim/internal/core/domain/services/pathcalc"
	"delivery-sim/internal/core/domain/services/rating"
	"delivery-sim/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	locNe = kernel.NewLocation(0, 0)
	locR  = kernel.NewLocation(1, 1)
	locNo = kernel.NewLocation(2, 2)
)

type fixture struct {
	region       *region.Region
	manager      *fleet.Manager
	restaurant   *region.Node
	neighborhood *region.Node
	node         *region.Node
}

// newFixture builds Ne–R(10) and R–No(1).
func newFixture(t *testing.T) fixture {
	t.Helper()

	durations := map[[2]kernel.Location]float64{
		{locNe, locR}: 10,
		{locR, locNo}: 1,
	}
	metric, err := kernel.NewDistanceFunc("table", func(a, b kernel.Location) float64 {
		a, b = kernel.SortLocations(a, b)
		return durations[[2]kernel.Location{a, b}]
	})
	require.NoError(t, err)

	b := region.NewBuilder()
	require.NoError(t, b.SetDistanceCalculator(metric))
	require.NoError(t, b.AddRestaurant("R", locR, []string{"food"}))
	require.NoError(t, b.AddNeighborhood("Ne", locNe))
	require.NoError(t, b.AddNode("No", locNo))
	require.NoError(t, b.AddEdge("ENeR", locNe, locR))
	require.NoError(t, b.AddEdge("ENoR", locR, locNo))
	r, err := b.Build()
	require.NoError(t, err)

	m, err := fleet.NewBuilder().SetRegion(r).SetPathCalculator(pathcalc.NewDijkstra()).Build()
	require.NoError(t, err)

	return fixture{
		region:       r,
		manager:      m,
		restaurant:   r.Node(locR),
		neighborhood: r.Node(locNe),
		node:         r.Node(locNo),
	}
}

func (f fixture) order(t *testing.T, start, end int64) *order.ConfirmedOrder {
	t.Helper()

	window, err := kernel.NewTickInterval(start, end)
	require.NoError(t, err)
	o, err := order.NewConfirmedOrder(locNe, f.restaurant, window, []string{"food"}, 1)
	require.NoError(t, err)
	return o
}

func (f fixture) received(tick int64, orders ...*order.ConfirmedOrder) []event.Event {
	events := make([]event.Event, 0, len(orders))
	for _, o := range orders {
		events = append(events, event.NewOrderReceivedEvent(tick, o))
	}
	return events
}

func (f fixture) delivered(t *testing.T, tick int64, orders ...*order.ConfirmedOrder) []event.Event {
	t.Helper()

	events := make([]event.Event, 0, len(orders))
	for _, o := range orders {
		require.NoError(t, o.SetActualDeliveryTick(tick))
		events = append(events, event.NewDeliverOrderEvent(tick, 1, f.neighborhood, o))
	}
	return events
}

func TestCriterion(t *testing.T) {
	t.Run("should resolve keys", func(t *testing.T) {
		for _, c := range rating.Criteria() {
			got, err := rating.CriterionByKey(c.Key())
			require.NoError(t, err)
			assert.Equal(t, c, got)
		}
		_, err := rating.CriterionByKey("speed")
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should have readable names", func(t *testing.T) {
		assert.Equal(t, "In Time", rating.InTime.String())
		assert.Equal(t, "Amount Delivered", rating.AmountDelivered.String())
		assert.Equal(t, "Travel Distance", rating.TravelDistance.String())
		assert.Equal(t, "Criterion(9)", rating.Criterion(9).String())
	})
}

func TestAmountDeliveredRater(t *testing.T) {
	cases := []struct {
		name      string
		factor    float64
		received  int
		delivered int
		expected  float64
	}{
		{name: "should score zero without orders", factor: 0.99, expected: 0},
		{name: "should score one when everything was delivered", factor: 0.99, received: 4, delivered: 4, expected: 1},
		{name: "should punish losses relative to the factor", factor: 0.5, received: 4, delivered: 3, expected: 0.5},
		{name: "should not drop below zero", factor: 0.99, received: 4, delivered: 3, expected: 0},
		{name: "should score zero when nothing was delivered", factor: 0, received: 4, expected: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Given
			f := newFixture(t)
			factory, err := rating.NewAmountDeliveredFactory(tc.factor)
			require.NoError(t, err)
			r, err := factory.Create(f.manager)
			require.NoError(t, err)
			orders := make([]*order.ConfirmedOrder, tc.received)
			for i := range orders {
				orders[i] = f.order(t, 0, 5)
			}

			// When
			r.OnTick(f.received(0, orders...), 0)
			r.OnTick(f.delivered(t, 3, orders[:tc.delivered]...), 3)

			// Then
			assert.InDelta(t, tc.expected, r.Score(), 1e-9)
			assert.Equal(t, rating.AmountDelivered, r.Criterion())
		})
	}

	t.Run("should reject factors outside the unit interval", func(t *testing.T) {
		_, err := rating.NewAmountDeliveredFactory(1.5)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		_, err = rating.NewAmountDeliveredFactory(-0.1)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestInTimeRater(t *testing.T) {
	newRater := func(t *testing.T, f fixture, ignored, maxOff int64) rating.Rater {
		t.Helper()
		factory, err := rating.NewInTimeFactory(ignored, maxOff)
		require.NoError(t, err)
		r, err := factory.Create(f.manager)
		require.NoError(t, err)
		return r
	}

	t.Run("should score early deliveries", func(t *testing.T) {
		cases := []struct {
			ignored, maxOff int64
			expected        float64
		}{
			{ignored: 0, maxOff: 1, expected: 0},
			{ignored: 20, maxOff: 1, expected: 1},
			{ignored: 3, maxOff: 100, expected: 0.9675},
		}
		for _, tc := range cases {
			// Given
			f := newFixture(t)
			r := newRater(t, f, tc.ignored, tc.maxOff)
			o1, o2 := f.order(t, 10, 15), f.order(t, 11, 16)
			o3, o4 := f.order(t, 12, 17), f.order(t, 13, 18)

			// When
			r.OnTick(f.received(0, o1, o2), 0)
			r.OnTick(append(f.received(1, o3, o4), f.delivered(t, 1, o1, o2)...), 1)
			r.OnTick(f.delivered(t, 10, o3, o4), 10)

			// Then
			assert.InDelta(t, tc.expected, r.Score(), 1e-9, "ignored=%d max=%d", tc.ignored, tc.maxOff)
		}
	})

	t.Run("should count undelivered orders as maximally late", func(t *testing.T) {
		// Given
		f := newFixture(t)
		r := newRater(t, f, 2, 6)
		o1, o2, o3 := f.order(t, 0, 4), f.order(t, 5, 10), f.order(t, 10, 16)
		o4, o5, o6 := f.order(t, 15, 20), f.order(t, 20, 25), f.order(t, 25, 30)

		// When
		r.OnTick(f.received(0, o1, o2, o3), 0)
		r.OnTick(f.delivered(t, 1, o3), 1)
		r.OnTick(append(f.received(4, o4, o5), f.delivered(t, 4, o1, o2)...), 4)
		r.OnTick(append(f.received(27, o6), f.delivered(t, 27, o4, o5)...), 27)

		// Then
		assert.InDelta(t, 0.52777, r.Score(), 1e-3)
	})

	t.Run("should score zero without orders", func(t *testing.T) {
		f := newFixture(t)
		r := newRater(t, f, 0, 1)

		r.OnTick(nil, 0)

		assert.Zero(t, r.Score())
		assert.Equal(t, rating.InTime, r.Criterion())
	})

	t.Run("should validate the tolerances", func(t *testing.T) {
		_, err := rating.NewInTimeFactory(-1, 0)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestTravelDistanceRater(t *testing.T) {
	play := func(t *testing.T, f fixture, r rating.Rater) {
		t.Helper()

		o1, o2 := f.order(t, 0, 5), f.order(t, 1, 6)
		o3, o4 := f.order(t, 2, 7), f.order(t, 3, 8)
		enr := f.region.Edge(locNe, locR)
		enor := f.region.Edge(locR, locNo)

		r.OnTick(append(f.received(0, o1, o2), event.NewArrivedAtRestaurantEvent(0, 1, f.restaurant, enr)), 0)
		r.OnTick(append(f.received(1, o3, o4), f.delivered(t, 1, o1, o2)...), 1)
		r.OnTick([]event.Event{event.NewArrivedAtNodeEvent(2, 1, f.node, enor)}, 2)
		r.OnTick([]event.Event{event.NewArrivedAtRestaurantEvent(3, 1, f.restaurant, enor)}, 3)
		r.OnTick(f.delivered(t, 20, o3), 20)
	}

	cases := []struct {
		factor   float64
		expected float64
	}{
		{factor: 0.75, expected: 0.7333},
		{factor: 0.95, expected: 0.7894},
	}
	for _, tc := range cases {
		t.Run("should compare travelled ticks with round trips", func(t *testing.T) {
			// Given
			f := newFixture(t)
			factory, err := rating.NewTravelDistanceFactory(tc.factor, nil)
			require.NoError(t, err)
			r, err := factory.Create(f.manager)
			require.NoError(t, err)

			// When
			play(t, f, r)

			// Then
			assert.InDelta(t, tc.expected, r.Score(), 1e-3, "factor=%v", tc.factor)
		})
	}

	t.Run("should score zero when nothing was delivered", func(t *testing.T) {
		f := newFixture(t)
		r, err := rating.TravelDistanceFactory{Factor: 0.5}.Create(f.manager)
		require.NoError(t, err)

		r.OnTick([]event.Event{event.NewArrivedAtNodeEvent(2, 1, f.node, f.region.Edge(locR, locNo))}, 2)

		assert.Zero(t, r.Score())
		assert.Equal(t, rating.TravelDistance, r.Criterion())
	})

	t.Run("should require a manager", func(t *testing.T) {
		_, err := rating.TravelDistanceFactory{Factor: 0.5}.Create(nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should log unroutable deliveries to the factory logger", func(t *testing.T) {
		// Given a neighborhood without edges
		isle := kernel.NewLocation(9, 9)
		b := region.NewBuilder()
		require.NoError(t, b.AddRestaurant("R", locR, []string{"food"}))
		require.NoError(t, b.AddNeighborhood("Ne", locNe))
		require.NoError(t, b.AddNeighborhood("Isle", isle))
		require.NoError(t, b.AddEdge("ENeR", locNe, locR))
		r, err := b.Build()
		require.NoError(t, err)
		m, err := fleet.NewBuilder().SetRegion(r).SetPathCalculator(pathcalc.NewDijkstra()).Build()
		require.NoError(t, err)

		var logs bytes.Buffer
		factory, err := rating.NewTravelDistanceFactory(0.5, slog.New(slog.NewTextHandler(&logs, nil)))
		require.NoError(t, err)
		rater, err := factory.Create(m)
		require.NoError(t, err)

		window, err := kernel.NewTickInterval(0, 10)
		require.NoError(t, err)
		o, err := order.NewConfirmedOrder(isle, r.Node(locR), window, []string{"food"}, 1)
		require.NoError(t, err)

		// When
		rater.OnTick([]event.Event{event.NewDeliverOrderEvent(5, 1, r.Node(isle), o)}, 5)

		// Then
		assert.Contains(t, logs.String(), "no route for delivered order")
		assert.Contains(t, logs.String(), "component=travel-distance-rater")
		assert.Zero(t, rater.Score())
	})
}
