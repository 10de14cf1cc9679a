package events

import "sync"

// EventType represents the type of event
type EventType string

// Define event types
const (
	EventRedraw            EventType = "REDRAW"
	EventMoveApplied       EventType = "MOVE_APPLIED"
	EventMoveHeld          EventType = "MOVE_HELD"
	EventReloaded          EventType = "RELOADED"
	EventOutOfTimeClaimed  EventType = "OUT_OF_TIME_CLAIMED"
	EventProtocolViolation EventType = "PROTOCOL_VIOLATION"
	EventTakebackOffers    EventType = "TAKEBACK_OFFERS"
	EventCrowd             EventType = "CROWD"
	EventNavigate          EventType = "NAVIGATE"
)

// allEvents is the subscription key of handlers registered with SubscribeAll
const allEvents EventType = "*"

// Event represents an event in the system
type Event struct {
	Type    EventType
	GameID  string // Optional, can be empty for non-game events
	Payload interface{}
}

// Handler is a function that processes events
type Handler func(event Event)

// Publisher is the central event publisher. Handlers run synchronously on the
// publishing goroutine, in subscription order.
type Publisher struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Handler
}

// NewPublisher creates a new event publisher
func NewPublisher() *Publisher {
	return &Publisher{
		subscribers: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (p *Publisher) Subscribe(eventType EventType, handler Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subscribers[eventType] = append(p.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for all event types
func (p *Publisher) SubscribeAll(handler Handler) {
	p.Subscribe(allEvents, handler)
}

// Publish broadcasts an event to its subscribers, then to "all events" handlers
func (p *Publisher) Publish(event Event) {
	p.mu.RLock()
	handlers := append([]Handler(nil), p.subscribers[event.Type]...)
	handlers = append(handlers, p.subscribers[allEvents]...)
	p.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
