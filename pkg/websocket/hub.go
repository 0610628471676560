package websocket

import (
	"encoding/json"
	"sync"

	"github.com/ridesync/ridesync/pkg/logger"
)

// Hub maintains active client connections and delivers ride lifecycle
// events to channels keyed by rider and driver id. Delivery is
// at-most-once: a client with a full send buffer misses the event.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *logger.Logger
}

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// NewHub creates a new WebSocket hub
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Client registered",
				logger.String("client_id", client.ID),
				logger.String("channel", client.Channel),
			)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Info("Client unregistered",
					logger.String("client_id", client.ID),
				)
			}
			h.mu.Unlock()
		}
	}
}

// Register registers a new client
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister unregisters a client
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish delivers an event to every client listening on the channel.
// Marshal or delivery failures are logged and swallowed; the caller
// never blocks on a slow consumer.
func (h *Hub) Publish(channel string, event interface{}) {
	data, err := json.Marshal(Message{Type: "ride_update", Data: event})
	if err != nil {
		h.logger.Error("Failed to marshal event", logger.Err(err), logger.String("channel", channel))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.Channel != channel && !client.IsSubscribed(channel) {
			continue
		}
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Client send buffer full, event dropped",
				logger.String("channel", channel),
				logger.String("client_id", client.ID),
			)
		}
	}
}

// ActiveConnections returns the number of active connections
func (h *Hub) ActiveConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
