package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"windfall/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeWindowOpened   EventType = "window_opened"
	EventTypeWindowClosed   EventType = "window_closed"
	EventTypeWinnerSelected EventType = "winner_selected"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// WindowOpenedEvent represents a claim window that was just opened
type WindowOpenedEvent struct {
	EpochID   int64
	OpenedAt  time.Time
	ExpiresAt time.Time
	Duration  time.Duration
	Source    entities.EpochSource
}

func (e WindowOpenedEvent) Type() EventType {
	return EventTypeWindowOpened
}

// WindowClosedEvent represents a window that expired without being superseded
type WindowClosedEvent struct {
	EpochID        int64
	WinnerAssigned bool
}

func (e WindowClosedEvent) Type() EventType {
	return EventTypeWindowClosed
}

// WinnerSelectedEvent represents the claim that won its window epoch
type WinnerSelectedEvent struct {
	EpochID      int64
	ClaimID      int64
	Reference    string
	PayoutMethod string
	PayoutID     string
	Position     int64
}

func (e WinnerSelectedEvent) Type() EventType {
	return EventTypeWinnerSelected
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make([]Handler, 0)
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers. Handlers run
// asynchronously so a slow subscriber never blocks the submit path.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}
