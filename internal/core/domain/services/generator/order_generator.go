// Package generator produces the orders a simulation receives tick by tick.
package generator

import (
	"delivery-sim/internal/core/domain/model/order"
)

// OrderGenerator yields the orders placed during a tick.
//
// Implementations are deterministic: asking twice for the same tick returns the
// same orders.
type OrderGenerator interface {
	GenerateOrders(tick int64) []*order.ConfirmedOrder
}

// Factory creates a fresh generator for every simulation run.
type Factory interface {
	Create() (OrderGenerator, error)
	Kind() string
}

const (
	KindEmpty  = "empty"
	KindFriday = "friday"
)
