// Package gateway fans dashboard view updates out to WebSocket clients.
package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"econdash/internal/dashboard"
	"econdash/internal/metrics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	EnableCompression: true,
}

// Hub manages WebSocket clients and pushes every view transition to all of
// them. Newly connected clients receive the latest view immediately.
type Hub struct {
	logger *slog.Logger
	prom   *metrics.Metrics

	mu      sync.RWMutex
	clients map[*Client]bool
	latest  []byte // last envelope sent, replayed to new clients
	seq     int64
}

// NewHub creates a Hub. prom may be nil.
func NewHub(logger *slog.Logger, prom *metrics.Metrics) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:  logger,
		prom:    prom,
		clients: make(map[*Client]bool),
	}
}

// Broadcast sends a view envelope to every connected client. Slow clients
// with a full send queue are skipped rather than blocking the caller.
func (h *Hub) Broadcast(v dashboard.View) {
	h.mu.Lock()
	h.seq++
	envelope, err := json.Marshal(map[string]interface{}{
		"type": "view",
		"view": v,
		"seq":  h.seq,
		"ts":   time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		h.mu.Unlock()
		h.logger.Error("marshal view envelope", "error", err)
		return
	}
	h.latest = envelope

	for client := range h.clients {
		select {
		case client.send <- envelope:
		default:
		}
	}
	h.mu.Unlock()
}

// HandleWS upgrades the connection and registers the client.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "error", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 16),
		hub:  h,
	}

	h.mu.Lock()
	h.clients[client] = true
	n := len(h.clients)
	if h.latest != nil {
		client.send <- h.latest
	}
	h.mu.Unlock()

	if h.prom != nil {
		h.prom.WSClients.Set(float64(n))
	}
	h.logger.Info("ws client connected", "total", n)

	go client.writePump()
	go client.readPump()
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	n := len(h.clients)
	close(c.send)
	h.mu.Unlock()

	if h.prom != nil {
		h.prom.WSClients.Set(float64(n))
	}
	h.logger.Info("ws client disconnected", "total", n)
}
