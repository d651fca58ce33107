// Package realtime pushes cache invalidations and session expiry to the
// dashboards connected over websocket, so open pages refetch stale data.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"assetshare/internal/cache"
	"assetshare/internal/session"
	"assetshare/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	queueSize = 64
)

const (
	TypeInvalidate     = "invalidate"
	TypeSessionExpired = "session_expired"
)

type Message struct {
	Type       string            `json:"type"`
	Mutation   cache.Mutation    `json:"mutation,omitempty"`
	Partitions []cache.Partition `json:"partitions,omitempty"`
}

type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

type Hub struct {
	log      *logger.Logger
	upgrader websocket.Upgrader

	nextID atomic.Uint64
	mu     sync.RWMutex
	conns  map[uint64]*conn

	queue chan Message
}

// NewHub accepts upgrades from the given origins; "*" accepts any origin.
func NewHub(allowedOrigins []string, log *logger.Logger) *Hub {
	h := &Hub{
		log:   log,
		conns: make(map[uint64]*conn),
		queue: make(chan Message, queueSize),
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

// Attach forwards invalidations and session expiry to connected dashboards.
func (h *Hub) Attach(inv *cache.Invalidator, sess *session.Session) {
	inv.Subscribe(func(_ context.Context, i cache.Invalidation) {
		h.Notify(Message{Type: TypeInvalidate, Mutation: i.Mutation, Partitions: i.Partitions})
	})
	sess.OnExpired(func(_ context.Context, e session.Expiry) {
		if e.Cleared {
			h.Notify(Message{Type: TypeSessionExpired})
		}
	})
}

// Notify queues msg for broadcast. It never blocks; when the queue is full
// the message is dropped.
func (h *Hub) Notify(msg Message) {
	select {
	case h.queue <- msg:
	default:
		h.log.Warn("Realtime queue full, dropping message", "type", msg.Type)
	}
}

// Run broadcasts queued messages until ctx is done, then closes every
// connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.queue:
			h.broadcast(msg)
		}
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	id := h.nextID.Add(1)
	c := &conn{ws: ws}
	h.mu.Lock()
	h.conns[id] = c
	h.mu.Unlock()

	h.log.Info("Dashboard connected", "conn_id", id, "remote_addr", r.RemoteAddr)

	go h.pingLoop(id, c)
	go h.readLoop(id, c)
}

func (h *Hub) RegisterRoutes(router *httprouter.Router) {
	router.GET("/ws", h.ServeWS)
}

func (h *Hub) pingLoop(id uint64, c *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for range ticker.C {
		if !h.alive(id, c) {
			return
		}
		h.write(id, c, func(ws *websocket.Conn) error {
			return ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
		})
	}
}

// readLoop only keeps the read deadline moving; dashboards send nothing.
func (h *Hub) readLoop(id uint64, c *conn) {
	defer h.remove(id, c)

	c.ws.SetReadLimit(4 << 10)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (h *Hub) alive(id uint64, c *conn) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.conns[id] == c
}

func (h *Hub) remove(id uint64, c *conn) {
	_ = c.ws.Close()
	h.mu.Lock()
	if current, ok := h.conns[id]; ok && current == c {
		delete(h.conns, id)
		h.log.Info("Dashboard disconnected", "conn_id", id)
	}
	h.mu.Unlock()
}

func (h *Hub) write(id uint64, c *conn, fn func(*websocket.Conn) error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := fn(c.ws); err != nil {
		h.log.Warn("Websocket write failed", "conn_id", id, "error", err)
		h.remove(id, c)
	}
}

func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("Failed to encode realtime message", "type", msg.Type, "error", err)
		return
	}

	h.mu.RLock()
	targets := make(map[uint64]*conn, len(h.conns))
	for id, c := range h.conns {
		targets[id] = c
	}
	h.mu.RUnlock()

	for id, c := range targets {
		h.write(id, c, func(ws *websocket.Conn) error {
			return ws.WriteMessage(websocket.TextMessage, data)
		})
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[uint64]*conn)
	h.mu.Unlock()

	for _, c := range conns {
		c.mu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = c.ws.Close()
		c.mu.Unlock()
	}
}
