// Package web serves the board over HTTP and pushes confirmed board
// events to browser tabs over WebSocket.
package web

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nhle/taskboard/internal/board"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// broadcastSize bounds events waiting for the hub loop.
	broadcastSize = 256
)

// Message is the envelope written to every WebSocket client.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Client is one connected browser tab.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient wraps an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.New().String(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 64),
	}
}

// ID returns the client's identifier.
func (c *Client) ID() string {
	return c.id
}

// ReadPump reads from the connection until it fails. Clients only send
// pings; the board is changed through the HTTP routes.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Printf("websocket %s: %v", c.id, err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.hub.log.Printf("websocket %s: bad message: %v", c.id, err)
			continue
		}
		if msg.Type != "ping" {
			continue
		}

		pong, err := json.Marshal(Message{Type: "pong"})
		if err != nil {
			continue
		}
		c.hub.reply(c, pong)
	}
}

// WritePump writes queued messages and keepalive pings to the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// direct is a message for a single client.
type direct struct {
	client  *Client
	message []byte
}

// Hub keeps the set of connected clients and fans board events out to
// them. It implements board.Bridge. Only Run sends on or closes a
// client's send channel.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	direct     chan direct
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	log        *log.Logger
}

// NewHub creates a hub. Call Run to start delivering.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastSize),
		direct:     make(chan direct),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        logger,
	}
}

// Register adds a client. It returns false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) reply(c *Client, message []byte) {
	select {
	case h.direct <- direct{client: c, message: message}:
	case <-h.done:
	}
}

// Publish encodes e and queues it for every client. It never blocks: when
// the hub is backed up the event is dropped and logged.
func (h *Hub) Publish(e board.Event) {
	raw, err := json.Marshal(Message{Type: string(e.Kind), Data: e})
	if err != nil {
		h.log.Printf("hub: encoding %s: %v", e.Kind, err)
		return
	}
	select {
	case h.broadcast <- raw:
	default:
		h.log.Printf("hub: dropped %s, broadcast queue full", e.Kind)
	}
}

// Run delivers messages until ctx is cancelled, then disconnects every
// client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			close(c.send)
			delete(h.clients, c)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c] = true
			h.log.Printf("hub: client %s connected", c.id)
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.log.Printf("hub: client %s disconnected", c.id)
			}
		case d := <-h.direct:
			if h.clients[d.client] {
				select {
				case d.client.send <- d.message:
				default:
				}
			}
		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Client's send buffer is full, assume disconnected
					h.log.Printf("hub: client %s too slow, removing", c.id)
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}
