package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event is a broadcast frame. Type names the state change, Data carries
// the entity payload.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
	// Error is set only on frames delivered to the originating client
	Error string `json:"error,omitempty"`
}

// Encode marshals the event for the wire. Marshal failures fall back to a
// bare type frame so the client still learns something happened.
func (e *Event) Encode() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return []byte(`{"type":"` + e.Type + `"}`)
	}
	return data
}

// Hub manages websocket clients and their room subscriptions. Rooms are
// keyed by group id; a client may sit in any number of rooms at once.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // clientID -> client
	rooms   map[string]map[string]*Client // roomID -> clientID -> client
	logger  *slog.Logger
}

// NewHub creates a new hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
		logger:  logger,
	}
}

// Register adds a connected client to the hub
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

// Unregister removes a client and drops it from every room. Safe to call
// more than once for the same client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	for roomID, members := range h.rooms {
		if _, ok := members[c.ID]; ok {
			delete(members, c.ID)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	c.closeSend()
}

// JoinRoom subscribes a client to a room
func (h *Hub) JoinRoom(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[string]*Client)
	}
	h.rooms[roomID][c.ID] = c
}

// LeaveRoom unsubscribes a client from a room. Leaving a room the client
// never joined is a no-op.
func (h *Hub) LeaveRoom(roomID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, c.ID)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

// BroadcastRoom sends an event to every client subscribed to a room
func (h *Hub) BroadcastRoom(roomID string, event *Event) {
	frame := event.Encode()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.rooms[roomID] {
		h.deliver(c, frame, event.Type)
	}
}

// BroadcastAll sends an event to every connected client
func (h *Hub) BroadcastAll(event *Event) {
	frame := event.Encode()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		h.deliver(c, frame, event.Type)
	}
}

// Send delivers an event to a single client
func (h *Hub) Send(c *Client, event *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliver(c, event.Encode(), event.Type)
}

// deliver pushes a frame onto the client's send channel, dropping it when
// the buffer is full. Callers hold at least a read lock.
func (h *Hub) deliver(c *Client, frame []byte, eventType string) {
	select {
	case c.send <- frame:
	default:
		h.logger.Warn("dropping frame for slow client",
			slog.String("client_id", c.ID),
			slog.String("event_type", eventType))
	}
}

// RoomSize returns the number of clients subscribed to a room
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
