package event

import (
	"maps"
	"slices"
	"sync"
)

// Bus collects the events of the current tick and keeps a log of past ticks.
//
// Post may be called concurrently from several goroutines. PopEvents is exclusive
// with every other operation, so it never observes a partially written queue.
type Bus struct {
	mu      sync.RWMutex
	queueMu sync.Mutex
	queued  []Event
	log     map[int64][]Event
}

func NewBus() *Bus {
	return &Bus{log: make(map[int64][]Event)}
}

// Post queues events for the next PopEvents call.
func (b *Bus) Post(events ...Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	b.queueMu.Lock()
	b.queued = append(b.queued, events...)
	b.queueMu.Unlock()
}

// PopEvents moves the queued events into the log under tick and returns them.
// Popping the same tick twice appends to its log entry; the second call returns
// only what was posted in between.
func (b *Bus) PopEvents(tick int64) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	popped := b.queued
	b.queued = nil
	if popped == nil {
		popped = []Event{}
	}
	b.log[tick] = append(b.log[tick], popped...)
	return slices.Clone(popped)
}

// Queued returns a copy of the events posted since the last pop.
func (b *Bus) Queued() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(b.queued)
}

// EventsAt returns a copy of the logged events of tick.
func (b *Bus) EventsAt(tick int64) ([]Event, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	events, ok := b.log[tick]
	return slices.Clone(events), ok
}

// Log returns a copy of the whole log keyed by tick.
func (b *Bus) Log() map[int64][]Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := maps.Clone(b.log)
	for tick, events := range result {
		result[tick] = slices.Clone(events)
	}
	return result
}

// Clear drops the queued events. The log is kept.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.queued = nil
}

// Reset drops the queued events and the log.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.queued = nil
	b.log = make(map[int64][]Event)
}

// Filter returns the events of type T in their original order.
func Filter[T Event](events []Event) []T {
	result := make([]T, 0)
	for _, e := range events {
		if typed, ok := e.(T); ok {
			result = append(result, typed)
		}
	}
	return result
}
