// Package transport delivers workspace updates to consumers over a
// websocket hub or a JSON-lines stream.
package transport

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gorilla/websocket"
	"go.trai.ch/pathwatch/internal/core/domain"
	"go.trai.ch/pathwatch/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Consumer = (*Hub)(nil)

const (
	wsReadBufferSize  = 1024
	wsWriteBufferSize = 4096
	wsWriteTimeout    = 10 * time.Second
)

// client is one websocket connection. Writes are serialized per connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub broadcasts workspaceUpdated messages to websocket clients. The last
// message is kept and replayed to clients that connect later, so a client
// always starts from the current snapshot.
type Hub struct {
	logger   ports.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	clients  map[*client]struct{}
	last     []byte
	lastHash uint64
	closed   bool
	status   func() any
}

// NewHub creates a Hub that accepts connections from loopback origins only.
func NewHub(logger ports.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  wsReadBufferSize,
			WriteBufferSize: wsWriteBufferSize,
			CheckOrigin:     isLoopbackOrigin,
		},
	}
}

// Deliver broadcasts update to every connected client. A payload identical
// to the previous one is not re-sent; clients already hold it.
func (h *Hub) Deliver(ctx context.Context, update domain.WorkspaceUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(update)
	if err != nil {
		return zerr.Wrap(err, "failed to encode workspace update")
	}
	sum := xxhash.Sum64(payload)

	h.mu.Lock()
	if h.closed || (h.last != nil && sum == h.lastHash) {
		h.mu.Unlock()
		return nil
	}
	h.last, h.lastHash = payload, sum
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.write(payload); err != nil {
			h.logger.Warn("dropping websocket client " + c.conn.RemoteAddr().String() + ": " + err.Error())
			h.drop(c)
		}
	}
	return nil
}

// SetStatus registers fn to report extra state on /health.
func (h *Hub) SetStatus(fn func() any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = fn
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Last returns the most recently broadcast payload, or nil.
func (h *Hub) Last() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Handler returns the HTTP routes served next to the websocket endpoint.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", h.serveWS)
	mux.HandleFunc("GET /health", h.serveHealth)
	mux.HandleFunc("GET /snapshot", h.serveSnapshot)
	return mux
}

// Close disconnects every client. Later deliveries are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
	for c := range clients {
		c.mu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.mu.Unlock()
		_ = c.conn.Close()
	}
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		return
	}

	c := &client{conn: conn}
	if !h.register(c) {
		_ = conn.Close()
		return
	}
	defer h.drop(c)

	// Incoming messages are ignored; reading detects disconnects and
	// processes control frames.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// register adds c and replays the last message while holding the hub lock,
// so no broadcast can slip between the replay and the registration.
func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	if h.last != nil {
		if err := c.write(h.last); err != nil {
			return false
		}
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		_ = c.conn.Close()
	}
}

type healthPayload struct {
	Status  string `json:"status"`
	Clients int    `json:"clients"`
	Tracker any    `json:"tracker,omitempty"`
}

func (h *Hub) serveHealth(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	payload := healthPayload{Status: "ok", Clients: len(h.clients)}
	status := h.status
	h.mu.Unlock()

	if status != nil {
		payload.Tracker = status()
	}
	writeJSON(w, payload)
}

func (h *Hub) serveSnapshot(w http.ResponseWriter, _ *http.Request) {
	last := h.Last()
	if last == nil {
		writeJSON(w, domain.NewWorkspaceUpdate(nil))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(last)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// isLoopbackOrigin accepts requests without an Origin header only from
// loopback peers, and browser requests only from loopback pages.
func isLoopbackOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return false
		}
		return isLoopbackHost(host)
	}

	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return isLoopbackHost(u.Hostname())
}

func isLoopbackHost(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
