// Package events distributes domain events to registered observers.
package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Event is a domain event handed to observers.
type Event struct {
	// Type is the event type, e.g. "draft:created".
	Type string

	// Data is the typed payload (one of the *Event structs in messages.go).
	Data any

	Context context.Context
}

// NewEvent creates an Event with a typed payload.
func NewEvent[T any](ctx context.Context, eventType string, data T) Event {
	return Event{Type: eventType, Data: data, Context: ctx}
}

// DataAs extracts the payload as T.
func DataAs[T any](event Event) (T, bool) {
	typed, ok := event.Data.(T)
	return typed, ok
}

// Observer is notified of dispatched events.
type Observer interface {
	// OnEvent handles one event. Errors are logged by the dispatcher.
	OnEvent(event Event) error

	// GetName names the observer in logs.
	GetName() string

	// ShouldHandle filters which event types reach OnEvent.
	ShouldHandle(eventType string) bool
}

// EventDispatcher fans events out to observers. Safe for concurrent use.
type EventDispatcher struct {
	observers []Observer
	mu        sync.RWMutex
	wg        sync.WaitGroup
}

// NewEventDispatcher creates a new EventDispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		observers: make([]Observer, 0),
	}
}

// Register adds an observer.
func (d *EventDispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observers = append(d.observers, observer)
	log.Debug().Str("observer", observer.GetName()).Msg("observer registered")
}

// Unregister removes an observer.
func (d *EventDispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, obs := range d.observers {
		if obs == observer {
			d.observers[i] = d.observers[len(d.observers)-1]
			d.observers = d.observers[:len(d.observers)-1]
			log.Debug().Str("observer", observer.GetName()).Msg("observer unregistered")
			return
		}
	}
}

func (d *EventDispatcher) snapshot() []Observer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	return observers
}

func notify(observer Observer, event Event) {
	if err := observer.OnEvent(event); err != nil {
		log.Warn().
			Err(err).
			Str("observer", observer.GetName()).
			Str("event", event.Type).
			Msg("observer failed to handle event")
	}
}

// Dispatch notifies observers sequentially in registration order.
// A failing observer does not stop delivery to the rest.
func (d *EventDispatcher) Dispatch(event Event) {
	for _, observer := range d.snapshot() {
		if observer.ShouldHandle(event.Type) {
			notify(observer, event)
		}
	}
}

// DispatchAsync notifies each observer on its own goroutine.
// Wait blocks until those deliveries finish.
func (d *EventDispatcher) DispatchAsync(event Event) {
	for _, observer := range d.snapshot() {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		d.wg.Add(1)
		go func(obs Observer) {
			defer d.wg.Done()
			notify(obs, event)
		}(observer)
	}
}

// Wait blocks until every DispatchAsync delivery has returned.
func (d *EventDispatcher) Wait() {
	d.wg.Wait()
}

// ObserverCount returns the number of registered observers.
func (d *EventDispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// Clear removes all registered observers.
func (d *EventDispatcher) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = make([]Observer, 0)
}
