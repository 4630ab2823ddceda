// pkg/event/event.go
package event

import (
	"sync"

	"github.com/taricsa/tiny-pilots-sub006/pkg/physics"
)

// Type represents the type of event
type Type string

// Flight event types
const (
	AirplaneAdded          Type = "airplane_added"
	AirplaneRemoved        Type = "airplane_removed"
	CollisionResolved      Type = "collision_resolved"
	WindChanged            Type = "wind_changed"
	GustTriggered          Type = "gust_triggered"
	WindTransitionStarted  Type = "wind_transition_started"
	WindTransitionFinished Type = "wind_transition_finished"
	EnvironmentChanged     Type = "environment_changed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription is a registered handler. Cancel removes it from the bus.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus dispatches events synchronously to subscribed handlers
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			// copy so in-flight Publish calls keep their snapshot
			remaining := make([]subscriber, 0, len(subs)-1)
			remaining = append(remaining, subs[:i]...)
			b.handlers[eventType] = append(remaining, subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers in subscription order
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// AirplaneEvent reports an airplane joining or leaving the simulation
type AirplaneEvent struct {
	BaseEvent
	AirplaneID uint64
	Archetype  string
	Fold       string
}

// NewAirplaneEvent creates a new airplane event
func NewAirplaneEvent(eventType Type, source interface{}, airplaneID uint64, archetype, fold string) *AirplaneEvent {
	return &AirplaneEvent{
		BaseEvent:  BaseEvent{EventType: eventType, Source: source},
		AirplaneID: airplaneID,
		Archetype:  archetype,
		Fold:       fold,
	}
}

// CollisionEvent carries a resolved collision for damage and scoring
type CollisionEvent struct {
	BaseEvent
	AirplaneID uint64
	Contact    physics.CollisionEvent
	Result     physics.CollisionResult
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(source interface{}, airplaneID uint64, contact physics.CollisionEvent, result physics.CollisionResult) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent:  BaseEvent{EventType: CollisionResolved, Source: source},
		AirplaneID: airplaneID,
		Contact:    contact,
		Result:     result,
	}
}

// WindEvent reports a change in the environment wind
type WindEvent struct {
	BaseEvent
	Previous physics.WindState
	Current  physics.WindState
}

// NewWindEvent creates a new wind event
func NewWindEvent(eventType Type, source interface{}, previous, current physics.WindState) *WindEvent {
	return &WindEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		Previous:  previous,
		Current:   current,
	}
}

// GustEvent reports a turbulence gust hitting an airplane
type GustEvent struct {
	BaseEvent
	AirplaneID uint64
	Force      physics.Vector2D
}

// NewGustEvent creates a new gust event
func NewGustEvent(source interface{}, airplaneID uint64, force physics.Vector2D) *GustEvent {
	return &GustEvent{
		BaseEvent:  BaseEvent{EventType: GustTriggered, Source: source},
		AirplaneID: airplaneID,
		Force:      force,
	}
}

// EnvironmentEvent reports an environment switch
type EnvironmentEvent struct {
	BaseEvent
	Name string
	Wind physics.WindState
}

// NewEnvironmentEvent creates a new environment event
func NewEnvironmentEvent(source interface{}, name string, wind physics.WindState) *EnvironmentEvent {
	return &EnvironmentEvent{
		BaseEvent: BaseEvent{EventType: EnvironmentChanged, Source: source},
		Name:      name,
		Wind:      wind,
	}
}
