// Package ws pushes live timeline views and notifications to browser
// clients over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

// Message types.
const (
	TypeTimeline     = "timeline"
	TypeNotification = "notification"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
)

// Envelope is the JSON frame sent to clients.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// NotificationMessage is the data of a notification frame.
type NotificationMessage struct {
	OperationID string    `json:"operationId"`
	Kind        string    `json:"kind"`
	TargetID    string    `json:"targetId"`
	Count       int       `json:"count"`
	Message     string    `json:"message"`
	EmittedAt   time.Time `json:"emittedAt"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected clients. Retained frames are replayed to clients
// when they connect.
type Hub struct {
	upgrader websocket.Upgrader
	log      *slog.Logger

	mu       sync.Mutex
	clients  map[*client]struct{}
	retained map[string][]byte
	closed   bool
}

// NewHub creates a Hub. A nil checkOrigin accepts same-origin requests only.
func NewHub(log *slog.Logger, checkOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log:      log.With("service", "ws"),
		clients:  make(map[*client]struct{}),
		retained: make(map[string][]byte),
	}
}

// ServeHTTP upgrades the request and starts the client's pumps.
// GET /ws
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WarnContext(r.Context(), "websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	for _, frame := range h.retained {
		c.send <- frame
	}
	n := len(h.clients)
	h.mu.Unlock()

	h.log.Debug("client connected", slog.String("remote", r.RemoteAddr), slog.Int("clients", n))

	go h.writePump(c)
	go h.readPump(c)
}

// Broadcast sends a frame to every client. Clients whose buffer is full are
// disconnected.
func (h *Hub) Broadcast(msgType string, data any) error {
	frame, err := encode(msgType, data)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(frame)
	return nil
}

// Retain broadcasts a frame and keeps it as the latest of its type.
func (h *Hub) Retain(msgType string, data any) error {
	frame, err := encode(msgType, data)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.retained[msgType] = frame
	h.broadcastLocked(frame)
	return nil
}

// Notify implements batch.Sink.
func (h *Hub) Notify(_ context.Context, n domain.Notification) error {
	return h.Broadcast(TypeNotification, NotificationMessage{
		OperationID: n.OperationID,
		Kind:        string(n.Kind),
		TargetID:    n.TargetID,
		Count:       n.Count,
		Message:     n.Message,
		EmittedAt:   n.EmittedAt,
	})
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.dropLocked(c)
	}
}

func (h *Hub) broadcastLocked(frame []byte) {
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			h.log.Warn("client too slow, disconnecting")
			h.dropLocked(c)
		}
	}
}

// dropLocked closes the send channel, which makes the write pump send a
// close frame and shut the connection.
func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	h.dropLocked(c)
	h.mu.Unlock()
}

// readPump discards client frames and keeps the read deadline moving with
// pongs. It unregisters the client when the connection ends.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("client read failed", slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func encode(msgType string, data any) ([]byte, error) {
	frame, err := json.Marshal(Envelope{Type: msgType, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s frame: %w", msgType, err)
	}
	return frame, nil
}
