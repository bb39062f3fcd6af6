// Package event notifies subscribers of committed roadmap changes
package event

import (
	"context"
	"slices"
	"sync"

	"learnmap/local-app/internal/log"
	"learnmap/local-app/internal/model"
)

// EventType represents the type of event
type EventType int

const (
	MilestoneAdded EventType = iota
	MilestoneUpdated
	MilestoneDeleted
	MilestoneMoved
	ResourceAdded
	ResourceUpdated
	ResourceDeleted
	RoadmapImported
	RoadmapReset
)

// String returns a readable name for the event type
func (t EventType) String() string {
	switch t {
	case MilestoneAdded:
		return "MilestoneAdded"
	case MilestoneUpdated:
		return "MilestoneUpdated"
	case MilestoneDeleted:
		return "MilestoneDeleted"
	case MilestoneMoved:
		return "MilestoneMoved"
	case ResourceAdded:
		return "ResourceAdded"
	case ResourceUpdated:
		return "ResourceUpdated"
	case ResourceDeleted:
		return "ResourceDeleted"
	case RoadmapImported:
		return "RoadmapImported"
	case RoadmapReset:
		return "RoadmapReset"
	default:
		return "Unknown"
	}
}

// Event carries the committed snapshot and the id of the entity that changed, if any
type Event struct {
	Type     EventType
	Snapshot model.Roadmap
	Subject  string
}

// EventHandler is a function type for event handlers
type EventHandler func(Event)

type subscription struct {
	id      int
	handler EventHandler
}

// EventManager manages event subscriptions and publications.
// Handlers run synchronously on the publishing goroutine, in subscription order.
type EventManager struct {
	subscribers map[EventType][]subscription
	wildcards   []subscription
	nextID      int
	mu          sync.RWMutex
	logger      *log.Logger
}

// NewEventManager creates a new EventManager instance
func NewEventManager(logger *log.Logger) *EventManager {
	return &EventManager{
		subscribers: make(map[EventType][]subscription),
		logger:      logger,
	}
}

// Subscribe adds a handler for one event type and returns a function removing it
func (em *EventManager) Subscribe(eventType EventType, handler EventHandler) func() {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.nextID++
	id := em.nextID
	em.subscribers[eventType] = append(em.subscribers[eventType], subscription{id: id, handler: handler})
	return func() { em.unsubscribe(id) }
}

// SubscribeAll adds a handler receiving every event type
func (em *EventManager) SubscribeAll(handler EventHandler) func() {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.nextID++
	id := em.nextID
	em.wildcards = append(em.wildcards, subscription{id: id, handler: handler})
	return func() { em.unsubscribe(id) }
}

func (em *EventManager) unsubscribe(id int) {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.wildcards = remove(em.wildcards, id)
	for t, subs := range em.subscribers {
		em.subscribers[t] = remove(subs, id)
	}
}

func remove(subs []subscription, id int) []subscription {
	out := subs[:0:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}

// Publish delivers an event to all subscribed handlers before returning
func (em *EventManager) Publish(e Event) {
	em.mu.RLock()
	handlers := make([]subscription, 0, len(em.subscribers[e.Type])+len(em.wildcards))
	handlers = append(handlers, em.subscribers[e.Type]...)
	handlers = append(handlers, em.wildcards...)
	em.mu.RUnlock()

	// order by subscription so typed and wildcard handlers interleave as registered
	slices.SortFunc(handlers, func(a, b subscription) int { return a.id - b.id })

	for _, s := range handlers {
		em.dispatch(s.handler, e)
	}
}

func (em *EventManager) dispatch(h EventHandler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			em.logger.Error(context.Background(), "Panic in event handler", log.Fields{
				"event": e.Type.String(),
				"panic": r,
			})
		}
	}()
	h(e)
}
