// Package feed pushes entry changes to the owner's open websocket
// connections.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/netx"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/gorilla/websocket"
)

const sendBuffer = 64

// Hub keeps one room per owner and fans entry events out to every
// connection in the owner's room. Rooms are only mutated by Run.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool

	broadcast  chan models.EntryEvent
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewHub creates a hub accepting browser connections from allowedOrigins.
// Requests without an Origin header (non-browser clients) are always
// accepted.
func NewHub(allowedOrigins []string, logger logging.Logger) *Hub {
	origins := netx.NewOrigins(allowedOrigins)

	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan models.EntryEvent, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins.Allows(origin)
			},
		},
		logger: logger.With("module", "feed"),
	}
}

// Run processes registrations and events until ctx is cancelled, then
// closes every connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for _, room := range h.rooms {
				for c := range room {
					close(c.send)
				}
			}
			h.rooms = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.ownerID] == nil {
				h.rooms[c.ownerID] = make(map[*Client]bool)
			}
			h.rooms[c.ownerID][c] = true
			h.mu.Unlock()
			h.logger.Debug(ctx, "subscriber joined", "user_id", c.ownerID)

		case c := <-h.unregister:
			h.mu.Lock()
			h.remove(c)
			h.mu.Unlock()
			h.logger.Debug(ctx, "subscriber left", "user_id", c.ownerID)

		case ev := <-h.broadcast:
			payload, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error(ctx, "marshal entry event", "error", err)
				continue
			}

			h.mu.Lock()
			for c := range h.rooms[ev.Entry.OwnerID] {
				select {
				case c.send <- payload:
				default:
					h.logger.Warn(ctx, "subscriber too slow, dropping", "user_id", c.ownerID)
					h.remove(c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove drops c from its room and closes its send channel. Callers hold mu.
func (h *Hub) remove(c *Client) {
	room, ok := h.rooms[c.ownerID]
	if !ok || !room[c] {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.ownerID)
	}
}

// Publish queues ev for delivery. It never blocks the caller: events are
// dropped when the hub is stopped or its queue is full.
func (h *Hub) Publish(ev models.EntryEvent) {
	select {
	case <-h.done:
	case h.broadcast <- ev:
	default:
		h.logger.Warn(context.Background(), "entry event dropped", "type", ev.Type, "user_id", ev.Entry.OwnerID)
	}
}

// Subscribers reports how many connections ownerID has open.
func (h *Hub) Subscribers(ownerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[ownerID])
}

// ServeWs upgrades the request and subscribes the connection to ownerID's
// room. The caller must have authenticated ownerID.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, ownerID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	c := &Client{hub: h, conn: conn, ownerID: ownerID, send: make(chan []byte, sendBuffer)}

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
