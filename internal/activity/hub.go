// Package activity pushes ledger changes to connected dashboards over
// WebSocket so the recent-activity ticker updates without polling.
package activity

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ledger/internal/core"
)

const writeWait = 10 * time.Second

// Message is one frame sent to clients.
type Message struct {
	Type          string            `json:"type"`
	TransactionID int64             `json:"transaction_id,omitempty"`
	Transaction   *core.Transaction `json:"transaction,omitempty"`
	Activities    []core.Activity   `json:"activities,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

// SnapshotFunc returns the activity feed sent to a client on connect.
type SnapshotFunc func(ctx context.Context) ([]core.Activity, error)

// Hub owns the set of connected clients. A single goroutine started by Run
// mutates the set; everything else talks to it through channels.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	upgrader   websocket.Upgrader
	snapshot   SnapshotFunc

	mu    sync.RWMutex
	count int
}

func NewHub(snapshot SnapshotFunc) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		snapshot:   snapshot,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Run serves register, unregister and broadcast requests until ctx ends,
// then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				c.Close()
				delete(h.clients, c)
			}
			h.setCount(0)
			return
		case c := <-h.register:
			h.clients[c] = true
			h.setCount(len(h.clients))
			slog.Debug("Activity client connected", "clients", len(h.clients))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.Close()
			}
			h.setCount(len(h.clients))
			slog.Debug("Activity client disconnected", "clients", len(h.clients))
		case msg := <-h.broadcast:
			for c := range h.clients {
				c.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					slog.Warn("Dropping activity client", "error", err)
					c.Close()
					delete(h.clients, c)
				}
			}
			h.setCount(len(h.clients))
		}
	}
}

// Publish queues msg for every client. It never blocks; when the queue is
// full the message is dropped.
func (h *Hub) Publish(msg Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal activity message", "error", err)
		return
	}
	select {
	case h.broadcast <- b:
	default:
		slog.Warn("Activity broadcast queue full, dropping message", "type", msg.Type)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}

// ServeHTTP upgrades the request, sends the current activity snapshot and
// keeps the connection registered until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "Failed to upgrade to WebSocket", "error", err)
		return
	}

	if h.snapshot != nil {
		if acts, err := h.snapshot(r.Context()); err == nil {
			initial, _ := json.Marshal(Message{Type: "snapshot", Activities: acts, Timestamp: time.Now().UTC()})
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.TextMessage, initial)
		} else {
			slog.WarnContext(r.Context(), "Failed to load activity snapshot", "error", err)
		}
	}

	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	go func() {
		for {
			// Client frames are ignored; reading detects disconnects.
			if _, _, err := conn.ReadMessage(); err != nil {
				select {
				case h.unregister <- conn:
				case <-h.done:
				}
				return
			}
		}
	}()
}
