// Package dashboard serves a live flight view over HTTP: telemetry JSON
// and camera frames pushed to browser clients through websockets.
package dashboard

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/droneworks/tellopilot/internal/log"
)

// Hub fan-out: one goroutine owns the client set, publishers never block.
// Clients too slow to drain their buffer are dropped rather than stalling
// the flight loop's frame feed.
type hub struct {
	name string

	clients    map[*client]bool
	broadcast  chan message
	register   chan *client
	unregister chan *client

	mu sync.RWMutex
}

type messageKind int

const (
	jsonMessage messageKind = iota
	binaryMessage
)

type message struct {
	kind messageKind
	data []byte
}

func newHub(name string) *hub {
	return &hub{
		name:       name,
		clients:    make(map[*client]bool),
		broadcast:  make(chan message, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

func (h *hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Info("dashboard client connected", "topic", h.name, "clients", count)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Info("dashboard client disconnected", "topic", h.name, "clients", count)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					close(c.send)
					delete(h.clients, c)
					log.Warn("dropped slow dashboard client", "topic", h.name)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *hub) publish(msg message) {
	select {
	case h.broadcast <- msg:
	default:
		// Full broadcast queue: drop the update, the next one replaces it.
		log.Debug("dashboard broadcast queue full", "topic", h.name)
	}
}

func (h *hub) publishJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Warn("dashboard encode failed", "topic", h.name, "err", err)
		return
	}
	h.publish(message{kind: jsonMessage, data: data})
}

func (h *hub) publishBinary(data []byte) {
	h.publish(message{kind: binaryMessage, data: data})
}

func (h *hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// client is one websocket subscriber.
type client struct {
	hub  *hub
	conn *websocket.Conn
	send chan message
}

func newClient(h *hub, conn *websocket.Conn) *client {
	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan message, 64),
	}
	h.register <- c
	return c
}

// serve pumps messages until the connection drops. The read side exists
// only to notice disconnection; clients never send.
func (c *client) serve() {
	go c.writePump()
	c.readPump()
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		wsType := websocket.TextMessage
		if msg.kind == binaryMessage {
			wsType = websocket.BinaryMessage
		}
		if err := c.conn.WriteMessage(wsType, msg.data); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
