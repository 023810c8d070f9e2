package shared

import (
	"context"
	"sync"
)

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes a domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in.
	// An empty slice means the handler receives all events.
	EventTypes() []string
}

// EventPublisher publishes domain events
type EventPublisher interface {
	// Publish publishes one or more domain events
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber subscribes to domain events
type EventSubscriber interface {
	// Subscribe registers a handler for specific event types.
	// If no event types are provided, the handler receives all events.
	Subscribe(handler EventHandler, eventTypes ...string)
}

// EventBus combines publisher and subscriber capabilities
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// InMemoryEventBus is a synchronous in-process event bus. Handler errors are
// collected but never abort publishing the remaining handlers; the business
// operation that raised the events must not fail because a listener did.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers []registration
	onError  func(event DomainEvent, err error)
}

type registration struct {
	handler EventHandler
	types   map[string]struct{}
}

// NewInMemoryEventBus creates a new in-memory event bus. onError may be nil.
func NewInMemoryEventBus(onError func(event DomainEvent, err error)) *InMemoryEventBus {
	return &InMemoryEventBus{onError: onError}
}

// Subscribe registers a handler for the given event types
func (b *InMemoryEventBus) Subscribe(handler EventHandler, eventTypes ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	reg := registration{handler: handler}
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	if len(eventTypes) > 0 {
		reg.types = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			reg.types[t] = struct{}{}
		}
	}
	b.handlers = append(b.handlers, reg)
}

// Publish delivers the events to all matching handlers
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...DomainEvent) error {
	b.mu.RLock()
	regs := make([]registration, len(b.handlers))
	copy(regs, b.handlers)
	b.mu.RUnlock()

	for _, event := range events {
		for _, reg := range regs {
			if reg.types != nil {
				if _, ok := reg.types[event.EventType()]; !ok {
					continue
				}
			}
			if err := reg.handler.Handle(ctx, event); err != nil && b.onError != nil {
				b.onError(event, err)
			}
		}
	}
	return nil
}

var _ EventBus = (*InMemoryEventBus)(nil)

// NopPublisher discards all events. Useful for tests and tools.
type NopPublisher struct{}

// Publish discards the events
func (NopPublisher) Publish(context.Context, ...DomainEvent) error { return nil }

var _ EventPublisher = NopPublisher{}
