package services

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/eosyam/scrum-game/internal/config"
	"github.com/eosyam/scrum-game/internal/models"
)

// Hub is the broadcast gateway: it tracks which connections are subscribed to
// which room channels and delivers room-scoped and connection-scoped frames.
// Deliveries flow through a single buffered channel consumed by Run, so
// messages queued for a room go out in the order they were produced.
type Hub struct {
	mu sync.RWMutex

	// Room channels: room name -> set of subscribed clients
	rooms map[string]map[*Client]bool

	// Connection id -> client
	clients map[string]*Client

	// Client -> room names it is subscribed to, for unregister cleanup
	memberships map[*Client]map[string]bool

	deliver chan *delivery

	metrics *Metrics
}

// delivery targets either a room channel (Room != "") or a single
// connection (ConnID != "").
type delivery struct {
	Room    string
	ConnID  string
	Message *models.OutMessage
}

func NewHub() *Hub {
	return &Hub{
		rooms:       make(map[string]map[*Client]bool),
		clients:     make(map[string]*Client),
		memberships: make(map[*Client]map[string]bool),
		deliver:     make(chan *delivery, config.HubBroadcastBufferSize),
		metrics:     NewMetrics(),
	}
}

// Run consumes the delivery queue. Call once, in its own goroutine.
func (h *Hub) Run() {
	for d := range h.deliver {
		if d.Room != "" {
			h.deliverToRoom(d.Room, d.Message)
		} else {
			h.deliverToConnection(d.ConnID, d.Message)
		}
	}
}

// Register adds a newly accepted connection. The client is not yet subscribed
// to any room; that happens on its first joinRoom event.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.ID()] = c
	h.memberships[c] = make(map[string]bool)
	h.metrics.IncrementConnections()

	log.Printf("websocket registered: conn=%s (total connections: %d)", c.ID(), len(h.clients))
}

// Unregister removes a connection from every room channel and closes it.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	for room := range h.memberships[c] {
		if set, ok := h.rooms[room]; ok {
			delete(set, c)
			// Clean up empty room channels. The room registry keeps its own
			// entry; only the broadcast channel set is dropped.
			if len(set) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	delete(h.memberships, c)
	delete(h.clients, c.ID())
	h.mu.Unlock()

	c.Close()
}

// Subscribe adds a connection to a room's broadcast channel.
func (h *Hub) Subscribe(connID, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
	h.memberships[c][room] = true
}

// BroadcastToRoom queues a frame for every connection subscribed to the room.
func (h *Hub) BroadcastToRoom(room string, msg *models.OutMessage) {
	h.deliver <- &delivery{Room: room, Message: msg}
}

// SendToConnection queues a frame for exactly one connection.
func (h *Hub) SendToConnection(connID string, msg *models.OutMessage) {
	h.deliver <- &delivery{ConnID: connID, Message: msg}
}

// GetMetrics returns a snapshot of the hub's counters.
func (h *Hub) GetMetrics() MetricsSnapshot {
	h.mu.RLock()
	conns := len(h.clients)
	rooms := len(h.rooms)
	h.mu.RUnlock()
	return h.metrics.Snapshot(conns, rooms)
}

// Metrics exposes the counter set for the read loop to record against.
func (h *Hub) Metrics() *Metrics {
	return h.metrics
}

func (h *Hub) deliverToRoom(room string, msg *models.OutMessage) {
	h.mu.RLock()
	set := h.rooms[room]
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("error marshaling message: %v", err)
		h.metrics.IncrementBroadcastErrors()
		return
	}

	for _, c := range clients {
		if c.Send(data) {
			h.metrics.IncrementMessagesSent()
		}
	}
}

func (h *Hub) deliverToConnection(connID string, msg *models.OutMessage) {
	h.mu.RLock()
	c := h.clients[connID]
	h.mu.RUnlock()

	if c == nil {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("error marshaling message: %v", err)
		h.metrics.IncrementBroadcastErrors()
		return
	}

	if c.Send(data) {
		h.metrics.IncrementMessagesSent()
	}
}
