package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

const (
	EntityRSVP  = "rsvp"
	EntityEvent = "event"

	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Message is a change notification for one row of one event.
type Message struct {
	Type    string `json:"type"`
	Entity  string `json:"entity"`
	Action  string `json:"action"`
	ID      int64  `json:"id"`
	EventID int64  `json:"event_id"`
	Data    any    `json:"data,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action string, eventID, id int64, data any) Message {
	return Message{
		Type:    fmt.Sprintf("%s_%s", entity, action),
		Entity:  entity,
		Action:  action,
		ID:      id,
		EventID: eventID,
		Data:    data,
	}
}

// Hub tracks dashboard connections per event and fans out changes to the
// subscribers of the affected event only.
type Hub struct {
	mu     sync.RWMutex
	events map[int64]map[*Client]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		events: make(map[int64]map[*Client]struct{}),
		logger: logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	subs, ok := h.events[c.eventID]
	if !ok {
		subs = make(map[*Client]struct{})
		h.events[c.eventID] = subs
	}
	subs[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if subs, ok := h.events[c.eventID]; ok {
		if _, ok := subs[c]; ok {
			delete(subs, c)
			close(c.send)
		}
		if len(subs) == 0 {
			delete(h.events, c.eventID)
		}
	}
	h.mu.Unlock()
}

// Broadcast sends msg to every subscriber of msg.EventID. Subscribers with
// a full buffer miss the message.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.events[msg.EventID] {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("dropped message for slow client", "event_id", msg.EventID, "type", msg.Type)
		}
	}
}

// ClientCount returns the number of connected clients across all events.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, subs := range h.events {
		n += len(subs)
	}
	return n
}

// Subscribers returns the number of clients watching one event.
func (h *Hub) Subscribers(eventID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.events[eventID])
}
