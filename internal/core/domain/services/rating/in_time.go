package rating

import (
	"errors"

	"delivery-sim/internal/core/domain/model/event"
	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/pkg/errs"
)

const (
	DefaultIgnoredTicksOff = 5
	DefaultMaxTicksOff     = 25
)

// InTimeRater judges how close deliveries were to their delivery windows.
//
// A delivered order costs the ticks between its delivery and its window minus
// ignoredTicksOff, clamped to [0, maxTicksOff]. An order that was received but never
// delivered costs maxTicksOff. The score is 1 - cost / (received * maxTicksOff), or
// 0 without received orders.
type InTimeRater struct {
	ignoredTicksOff int64
	maxTicksOff     int64
	received        int
	delivered       int
	cost            int64
}

func (r *InTimeRater) OnTick(events []event.Event, _ int64) {
	r.received += len(event.Filter[*event.OrderReceivedEvent](events))
	for _, e := range event.Filter[*event.DeliverOrderEvent](events) {
		off := e.Order().DeliveryInterval().Offset(e.Tick()) - r.ignoredTicksOff
		r.cost += min(max(0, off), r.maxTicksOff)
		r.delivered++
	}
}

func (r *InTimeRater) Score() float64 {
	if r.received == 0 {
		return 0
	}
	undelivered := int64(max(0, r.received-r.delivered))
	worst := float64(int64(r.received) * r.maxTicksOff)
	return 1 - float64(r.cost+undelivered*r.maxTicksOff)/worst
}

func (r *InTimeRater) Criterion() Criterion {
	return InTime
}

// InTimeFactory creates InTimeRater values.
type InTimeFactory struct {
	IgnoredTicksOff int64
	MaxTicksOff     int64
}

// NewInTimeFactory validates the tolerances. ignoredTicksOff must not be negative and
// maxTicksOff must be positive.
func NewInTimeFactory(ignoredTicksOff int64, maxTicksOff int64) (InTimeFactory, error) {
	var errIgnored, errMax error
	if ignoredTicksOff < 0 {
		errIgnored = errs.NewValueIsOutOfRangeError("ignored ticks off", ignoredTicksOff, 0, "+inf")
	}
	if maxTicksOff <= 0 {
		errMax = errs.NewValueIsOutOfRangeError("max ticks off", maxTicksOff, 1, "+inf")
	}
	if err := errors.Join(errIgnored, errMax); err != nil {
		return InTimeFactory{}, err
	}
	return InTimeFactory{IgnoredTicksOff: ignoredTicksOff, MaxTicksOff: maxTicksOff}, nil
}

func (f InTimeFactory) Create(*fleet.Manager) (Rater, error) {
	return &InTimeRater{ignoredTicksOff: f.IgnoredTicksOff, maxTicksOff: f.MaxTicksOff}, nil
}

func (InTimeFactory) Criterion() Criterion {
	return InTime
}
