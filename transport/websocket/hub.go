package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/gridlock-game/gridlock/game/engine"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	// sendBuffer is the per-client queue; a watcher that falls this far
	// behind the simulation is dropped rather than throttling everyone.
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Message is the frame pushed to session watchers.
type Message struct {
	SessionID string            `json:"session_id"`
	GameState *engine.GameState `json:"game_state,omitempty"`

	// Events carries the derived events (spawns, despawns, level
	// transitions) that accompanied this state update, so clients can
	// animate them instead of diffing states.
	Events []engine.Event `json:"events,omitempty"`

	Event string      `json:"event,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// Client is one WebSocket watcher attached to a session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// Hub fans session updates out to their watchers. The sessions map is
// only touched on the Run goroutine; registration, removal, and both
// broadcast helpers go through its channels.
type Hub struct {
	sessions map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
}

// NewHub creates an empty hub; call Run to start its event loop.
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register/unregister/broadcast requests until the
// context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.attach(client)

		case client := <-h.unregister:
			h.detach(client)

		case message := <-h.broadcast:
			h.send(message)
		}
	}
}

// ServeWS upgrades the request and attaches the connection to the
// session as a watcher. When a snapshot is given, it is queued as the
// first frame so the watcher sees the current arena without waiting
// for the next update.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string, snapshot *engine.GameState) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		sessionID: sessionID,
	}

	if snapshot != nil {
		if data, err := json.Marshal(&Message{
			SessionID: sessionID,
			GameState: snapshot,
			Event:     "snapshot",
		}); err == nil {
			client.send <- data
		}
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastToSession sends a game state update, with any derived
// events, to all watchers of a session via the run loop.
func (h *Hub) BroadcastToSession(sessionID string, state *engine.GameState, events []engine.Event) {
	h.broadcast <- &Message{
		SessionID: sessionID,
		GameState: state,
		Events:    events,
		Event:     "state_update",
	}
}

// BroadcastEvent sends a custom event to all watchers of a session via
// the run loop.
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	h.broadcast <- &Message{
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	}
}

func (h *Hub) attach(client *Client) {
	watchers := h.sessions[client.sessionID]
	if watchers == nil {
		watchers = make(map[*Client]bool)
		h.sessions[client.sessionID] = watchers
	}
	watchers[client] = true

	log.Printf("Watcher joined session %s (%d attached)", client.sessionID, len(watchers))
}

func (h *Hub) detach(client *Client) {
	watchers, ok := h.sessions[client.sessionID]
	if !ok || !watchers[client] {
		return
	}

	delete(watchers, client)
	close(client.send)
	if len(watchers) == 0 {
		delete(h.sessions, client.sessionID)
	}

	log.Printf("Watcher left session %s (%d remain)", client.sessionID, len(watchers))
}

// send marshals the message once and queues it to every watcher of the
// session. Watchers with a full queue are detached.
func (h *Hub) send(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal WebSocket message: %v", err)
		return
	}

	for client := range h.sessions[message.SessionID] {
		select {
		case client.send <- data:
		default:
			h.detach(client)
		}
	}
}

// readPump discards incoming frames; watchers are read-only and the
// loop exists to notice disconnects and answer pings.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

// writePump drains the send queue onto the connection, coalescing
// backed-up frames into one write, and keeps the peer alive with
// periodic pings.
func (c *Client) writePump() {
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

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			for i := len(c.send); i > 0; i-- {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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
