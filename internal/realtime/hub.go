package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Action is the kind of change carried by an Event.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event describes one row change on one table.
type Event struct {
	Table     string    `json:"table"`
	Action    Action    `json:"action"`
	ProjectID uuid.UUID `json:"project_id"`
	Payload   any       `json:"payload,omitempty"`
}

// Subscription is a registered listener. Events arrive on Events() until
// Unsubscribe; delivery is at-least-once while the subscriber keeps up, and
// events are dropped rather than blocking writers when its buffer is full.
type Subscription struct {
	id        int
	table     string    // "" matches every table
	projectID uuid.UUID // uuid.Nil matches every project
	ch        chan Event
}

// Events returns the subscription's delivery channel.
func (s *Subscription) Events() <-chan Event { return s.ch }

// Hub is an in-process change-notification fan-out. Services publish after
// every successful write; consumers (SSE streams, tests) subscribe per table
// and project.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*Subscription
}

func NewHub() *Hub {
	return &Hub{subs: map[int]*Subscription{}}
}

// Subscribe registers a listener for changes on table (empty for all) scoped
// to projectID (uuid.Nil for all).
func (h *Hub) Subscribe(table string, projectID uuid.UUID, buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 16
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	s := &Subscription{
		id:        h.nextID,
		table:     table,
		projectID: projectID,
		ch:        make(chan Event, buffer),
	}
	h.subs[s.id] = s
	return s
}

// Unsubscribe removes the listener and closes its channel.
func (h *Hub) Unsubscribe(s *Subscription) {
	if s == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s.id]; ok {
		delete(h.subs, s.id)
		close(s.ch)
	}
}

// Publish delivers the event to every matching subscription without blocking.
func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subs {
		if s.table != "" && s.table != e.Table {
			continue
		}
		if s.projectID != uuid.Nil && s.projectID != e.ProjectID {
			continue
		}
		select {
		case s.ch <- e:
		default:
			// slow consumer; it will re-fetch on next load
		}
	}
}
