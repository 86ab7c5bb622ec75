package rating

import (
	"delivery-sim/internal/core/domain/model/event"
	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/pkg/errs"
)

// DefaultAmountDeliveredFactor tolerates one percent of lost orders.
const DefaultAmountDeliveredFactor = 0.99

// AmountDeliveredRater judges how many of the received orders were delivered.
//
// The score is max(0, 1 - undelivered / (received * (1 - factor))). A factor close to
// 1 punishes every lost order hard. Without received orders the score is 0.
type AmountDeliveredRater struct {
	factor    float64
	received  int
	delivered int
}

func (r *AmountDeliveredRater) OnTick(events []event.Event, _ int64) {
	r.received += len(event.Filter[*event.OrderReceivedEvent](events))
	r.delivered += len(event.Filter[*event.DeliverOrderEvent](events))
}

func (r *AmountDeliveredRater) Score() float64 {
	if r.received == 0 {
		return 0
	}
	undelivered := float64(r.received - r.delivered)
	if undelivered <= 0 {
		return 1
	}
	return max(0, 1-undelivered/(float64(r.received)*(1-r.factor)))
}

func (r *AmountDeliveredRater) Criterion() Criterion {
	return AmountDelivered
}

// AmountDeliveredFactory creates AmountDeliveredRater values.
type AmountDeliveredFactory struct {
	Factor float64
}

// NewAmountDeliveredFactory validates factor, which must lie in [0, 1].
func NewAmountDeliveredFactory(factor float64) (AmountDeliveredFactory, error) {
	if factor < 0 || factor > 1 {
		return AmountDeliveredFactory{}, errs.NewValueIsOutOfRangeError("factor", factor, 0, 1)
	}
	return AmountDeliveredFactory{Factor: factor}, nil
}

func (f AmountDeliveredFactory) Create(*fleet.Manager) (Rater, error) {
	return &AmountDeliveredRater{factor: f.Factor}, nil
}

func (AmountDeliveredFactory) Criterion() Criterion {
	return AmountDelivered
}
