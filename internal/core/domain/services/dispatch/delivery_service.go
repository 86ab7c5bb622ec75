package dispatch

import (
	"log/slog"
	"sync"

	"delivery-sim/internal/core/domain/model/event"
	"delivery-sim/internal/core/domain/model/fleet"
	"delivery-sim/internal/core/domain/model/order"
)

// DeliveryService delivers confirmed orders with the vehicles of a fleet.Manager.
type DeliveryService interface {
	// Deliver hands over new orders. They are received on the next Tick.
	Deliver(orders []*order.ConfirmedOrder)

	// Tick advances the simulation and returns the events of the tick.
	Tick(tick int64) ([]event.Event, error)

	Manager() *fleet.Manager

	// PendingOrders returns the received orders not loaded onto a vehicle yet.
	PendingOrders() []*order.ConfirmedOrder

	// Reset drops every order and resets the manager.
	Reset()
}

// inbox buffers orders between Deliver and the next Tick.
type inbox struct {
	manager *fleet.Manager
	logger  *slog.Logger

	mu          sync.Mutex
	unprocessed []*order.ConfirmedOrder
}

func (b *inbox) Deliver(orders []*order.ConfirmedOrder) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unprocessed = append(b.unprocessed, orders...)
}

func (b *inbox) Manager() *fleet.Manager {
	return b.manager
}

// receive takes the buffered orders and posts an OrderReceivedEvent for each, so
// they show up in the events of tick.
func (b *inbox) receive(tick int64) []*order.ConfirmedOrder {
	b.mu.Lock()
	orders := b.unprocessed
	b.unprocessed = nil
	b.mu.Unlock()

	for _, o := range orders {
		b.manager.EventBus().Post(event.NewOrderReceivedEvent(tick, o))
	}
	if len(orders) > 0 {
		b.logger.Debug("orders received", "count", len(orders), "tick", tick)
	}
	return orders
}

func (b *inbox) reset() {
	b.mu.Lock()
	b.unprocessed = nil
	b.mu.Unlock()
	b.manager.Reset()
}
