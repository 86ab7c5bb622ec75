// Package rating scores a finished simulation run.
//
// A Rater listens to the events of every tick and turns them into a score between
// 0 (worst) and 1 (best) for one Criterion.
package rating

import (
	"fmt"

	"delivery-sim/internal/core/domain/model/event"
	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/pkg/errs"
)

// Criterion names what a rater judges.
type Criterion int

const (
	InTime Criterion = iota
	AmountDelivered
	TravelDistance
)

func getCriterionStrings() map[Criterion]string {
	return map[Criterion]string{
		InTime:          "In Time",
		AmountDelivered: "Amount Delivered",
		TravelDistance:  "Travel Distance",
	}
}

func (c Criterion) String() string {
	if s, ok := getCriterionStrings()[c]; ok {
		return s
	}
	return fmt.Sprintf("Criterion(%d)", int(c))
}

// Key returns the identifier used in scenario files and persisted results.
func (c Criterion) Key() string {
	switch c {
	case InTime:
		return "in_time"
	case AmountDelivered:
		return "amount_delivered"
	case TravelDistance:
		return "travel_distance"
	default:
		return ""
	}
}

// Criteria returns every criterion in declaration order.
func Criteria() []Criterion {
	return []Criterion{InTime, AmountDelivered, TravelDistance}
}

// CriterionByKey resolves the identifier returned by Key.
func CriterionByKey(key string) (Criterion, error) {
	for _, c := range Criteria() {
		if c.Key() == key {
			return c, nil
		}
	}
	return 0, errs.NewObjectNotFoundError("criterion", key)
}

// Listener receives the events of every simulated tick.
type Listener interface {
	OnTick(events []event.Event, tick int64)
}

// Rater is a listener that can be asked for its score at any time.
type Rater interface {
	Listener
	Score() float64
	Criterion() Criterion
}

// Factory creates a fresh rater for every simulation run.
type Factory interface {
	Create(manager *fleet.Manager) (Rater, error)
	Criterion() Criterion
}
