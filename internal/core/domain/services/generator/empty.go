package generator

import "delivery-sim/internal/core/domain/model/order"

// EmptyGenerator never places an order.
type EmptyGenerator struct{}

func (EmptyGenerator) GenerateOrders(int64) []*order.ConfirmedOrder {
	return []*order.ConfirmedOrder{}
}

// EmptyFactory creates EmptyGenerator values.
type EmptyFactory struct{}

func (EmptyFactory) Create() (OrderGenerator, error) {
	return EmptyGenerator{}, nil
}

func (EmptyFactory) Kind() string {
	return KindEmpty
}
