package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType identifies the closed set of inbound platform events the bot
// reacts to. Handlers are registered once at startup against these kinds;
// there is no open-ended listener discovery.
type EventType string

const (
	EventTypeMessageCreated EventType = "message_created"
	EventTypeMemberJoined   EventType = "member_joined"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// MessageCreatedEvent carries a guild message the gateway delivered.
// Bot-authored messages and DMs are filtered out before emission.
type MessageCreatedEvent struct {
	GuildID   int64
	ChannelID int64
	UserID    int64
	Username  string
	GuildName string
	Content   string
}

func (e MessageCreatedEvent) Type() EventType {
	return EventTypeMessageCreated
}

// MemberJoinedEvent represents a member joining a guild
type MemberJoinedEvent struct {
	GuildID  int64
	UserID   int64
	Username string
}

func (e MemberJoinedEvent) Type() EventType {
	return EventTypeMemberJoined
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus dispatches inbound events to registered handlers. Each handler
// invocation runs in its own goroutine with panic recovery, so one failing
// handler never takes down the dispatch loop or its siblings.
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

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}
