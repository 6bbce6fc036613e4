package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hochfrequenz/orgchart/internal/orgservice"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	clientBuffer = 16
)

// Message types pushed to websocket clients
const (
	MessageSnapshot    = "tree.snapshot"
	MessageTreeChanged = "tree.changed"
)

// Message wraps every websocket message with a type discriminator
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans service change events out to connected websocket clients.
// Clients are read-only: anything they send is ignored.
type Hub struct {
	svc      *orgservice.Service
	log      logrus.FieldLogger
	upgrader websocket.Upgrader

	events      <-chan orgservice.Event
	unsubscribe func()

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates a hub subscribed to svc. Call Run to start forwarding.
func NewHub(svc *orgservice.Service, log logrus.FieldLogger) *Hub {
	events, unsubscribe := svc.Subscribe()
	return &Hub{
		svc: svc,
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		events:      events,
		unsubscribe: unsubscribe,
		clients:     make(map[*client]struct{}),
	}
}

// Run forwards events until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer h.unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-h.events:
			if !ok {
				return
			}
			h.Broadcast(Message{Type: MessageTreeChanged, Payload: ev})
		}
	}
}

// Broadcast sends msg to every client. Clients that can't keep up are dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("marshal websocket message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Warn("websocket client too slow, disconnecting")
			h.removeLocked(c)
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll disconnects every client
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// ServeWS upgrades the request and sends the current tree as the first message.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}

	snapshot, err := json.Marshal(Message{Type: MessageSnapshot, Payload: h.snapshot()})
	if err != nil {
		conn.Close()
		return
	}
	c.send <- snapshot

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) snapshot() []EntryResponse {
	entries := h.svc.Snapshot()
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = EntryResponse{Depth: e.Depth, ID: e.Employee.ID, Name: e.Employee.Name, Position: e.Employee.Position}
	}
	return out
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).Debug("websocket read error")
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
