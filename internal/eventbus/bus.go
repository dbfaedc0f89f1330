package eventbus

import (
	"sync"
	"time"
)

// Bus is a simple in-process pub/sub bus for run lifecycle observation.
// A nil *Bus is valid and drops every publish, so components can treat the
// bus as optional.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]Handler
	all      []Handler
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{
		handlers: make(map[Topic][]Handler),
	}
}

// Subscribe registers a handler for one topic.
func (b *Bus) Subscribe(topic Topic, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// SubscribeAll registers a handler for every topic.
func (b *Bus) SubscribeAll(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, handler)
}

// Publish delivers an event to the topic's subscribers and to wildcard
// subscribers, in registration order.
func (b *Bus) Publish(topic Topic, payload any) {
	if b == nil {
		return
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[topic])+len(b.all))
	handlers = append(handlers, b.handlers[topic]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	event := Event{
		Topic:     topic,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	for _, h := range handlers {
		h(event)
	}
}
