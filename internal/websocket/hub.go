package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Message is an event pushed to every connected page: alarm state, sound
// control, toasts and storage changes. Type is "<entity>_<action>".
type Message struct {
	Type   string         `json:"type"`
	Entity string         `json:"entity"`
	Action string         `json:"action"`
	ID     string         `json:"id,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// NewMessage builds a Message whose type is entity_action.
func NewMessage(entity, action, id string, extra map[string]any) Message {
	return Message{
		Type:   entity + "_" + action,
		Entity: entity,
		Action: action,
		ID:     id,
		Extra:  extra,
	}
}

// Hub fans messages out to the connected pages. A page that joins late is
// first sent whatever the greeter returns, so it catches up with an alarm
// that is already ringing.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	pages   map[*Client]struct{}
	greeter func() []Message
}

// NewHub returns an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		pages:  make(map[*Client]struct{}),
		logger: logger,
	}
}

// SetGreeter installs the function producing the catch-up messages for a
// newly registered page.
func (h *Hub) SetGreeter(fn func() []Message) {
	h.mu.Lock()
	h.greeter = fn
	h.mu.Unlock()
}

// Register attaches c and queues the greeting. Holding the write lock keeps
// broadcasts from overtaking the greeting.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.greeter != nil {
		for _, msg := range h.greeter() {
			data, err := json.Marshal(msg)
			if err != nil {
				h.logger.Error("marshal greeting", "type", msg.Type, "error", err)
				continue
			}
			c.enqueue(data)
		}
	}
	h.pages[c] = struct{}{}
}

// Unregister detaches c and closes its queue. Repeated calls are no-ops.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.pages[c]; ok {
		delete(h.pages, c)
		close(c.send)
	}
}

// Broadcast queues msg for every page and returns how many accepted it.
// Pages whose queue is full miss the message.
func (h *Hub) Broadcast(msg Message) int {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "type", msg.Type, "error", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.pages {
		if c.enqueue(data) {
			delivered++
		} else {
			h.logger.Debug("page queue full, dropping message", "type", msg.Type)
		}
	}
	return delivered
}

// ClientCount returns the number of connected pages.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.pages)
}
