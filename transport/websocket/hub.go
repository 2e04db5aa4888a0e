package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/hexcorridor/game/engine"
	"github.com/wricardo/hexcorridor/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Outgoing event names
const (
	EventStateUpdate    = "state_update"
	EventActionRejected = "action_rejected"
	EventError          = "error"
)

var (
	// ErrSpectator is returned when a connection without a player submits an action
	ErrSpectator = errors.New("spectators cannot submit actions")
	// ErrWrongSeat is returned when an action names the other player
	ErrWrongSeat = errors.New("player_id does not match this connection")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Message is sent from the hub to clients
type Message struct {
	SessionID string            `json:"session_id"`
	Event     string            `json:"event"`
	GameState *engine.GameState `json:"game_state,omitempty"`
	Events    []engine.Event    `json:"events,omitempty"`
	Data      any               `json:"data,omitempty"`
}

// ClientMessage is sent from clients to the hub. Type "action" submits
// Action; type "state" asks for the current state.
type ClientMessage struct {
	Type   string                 `json:"type"`
	Action *service.ActionRequest `json:"action,omitempty"`
}

// ActionHandler applies actions received over a connection. The game
// service satisfies it.
type ActionHandler interface {
	SubmitAction(ctx context.Context, sessionID string, req service.ActionRequest) (*service.ActionResult, error)
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
}

// Client represents a WebSocket client. A client bound to a player may only
// act as that player; an unbound client only watches.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	player    engine.Player
}

type directMessage struct {
	client *Client
	data   []byte
}

// Hub maintains the set of active clients and broadcasts messages. Only the
// Run goroutine touches the client map.
type Hub struct {
	// Registered clients by session ID
	sessions map[string]map[*Client]bool

	// Messages for every client of a session
	broadcast chan *Message

	// Replies for a single client
	direct chan directMessage

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	handler ActionHandler
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		direct:     make(chan directMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetActionHandler wires inbound actions to h. Call it before Run.
func (h *Hub) SetActionHandler(handler ActionHandler) {
	h.handler = handler
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case dm := <-h.direct:
			h.sendDirect(dm)
		}
	}
}

// ServeWS handles WebSocket requests from clients. player binds the
// connection to one side of the match; "" makes it a spectator.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string, player engine.Player) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
		player:    player,
	}

	client.hub.register <- client

	// New clients start from the current state
	client.sendState(r.Context())

	go client.writePump()
	go client.readPump()
}

// BroadcastState sends a state update to all clients in a session. It
// implements service.Notifier.
func (h *Hub) BroadcastState(sessionID string, state *engine.GameState, events []engine.Event) {
	h.broadcast <- &Message{
		SessionID: sessionID,
		Event:     EventStateUpdate,
		GameState: state,
		Events:    events,
	}
}

// BroadcastEvent sends a custom event to all clients in a session
func (h *Hub) BroadcastEvent(sessionID string, event string, data any) {
	h.broadcast <- &Message{
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	}
}

// registerClient adds a client to a session
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.sessionID] == nil {
		h.sessions[client.sessionID] = make(map[*Client]bool)
	}
	h.sessions[client.sessionID][client] = true

	seat := string(client.player)
	if seat == "" {
		seat = "spectator"
	}
	log.Printf("Client registered for session %s as %s (total clients: %d)",
		client.sessionID, seat, len(h.sessions[client.sessionID]))
}

// unregisterClient removes a client from a session
func (h *Hub) unregisterClient(client *Client) {
	if clients, ok := h.sessions[client.sessionID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			// Clean up empty sessions
			if len(clients) == 0 {
				delete(h.sessions, client.sessionID)
			}

			log.Printf("Client unregistered from session %s (remaining clients: %d)",
				client.sessionID, len(clients))
		}
	}
}

// broadcastMessage sends a message to all clients in a session
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	if clients, ok := h.sessions[message.SessionID]; ok {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				// Client's send channel is full, drop it
				h.unregisterClient(client)
			}
		}
	}
}

// sendDirect delivers a reply to one client if it is still registered
func (h *Hub) sendDirect(dm directMessage) {
	if !h.sessions[dm.client.sessionID][dm.client] {
		return
	}
	select {
	case dm.client.send <- dm.data:
	default:
		h.unregisterClient(dm.client)
	}
}

// reply queues a message for this client only
func (c *Client) reply(message *Message) {
	message.SessionID = c.sessionID
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal WebSocket reply: %v", err)
		return
	}
	c.hub.direct <- directMessage{client: c, data: data}
}

func (c *Client) replyError(text string) {
	c.reply(&Message{Event: EventError, Data: map[string]string{"error": text}})
}

func (c *Client) sendState(ctx context.Context) {
	if c.hub.handler == nil {
		return
	}
	state, err := c.hub.handler.GetGameState(ctx, c.sessionID)
	if err != nil {
		c.replyError(err.Error())
		return
	}
	c.reply(&Message{Event: EventStateUpdate, GameState: state})
}

// handleMessage processes one inbound frame. Accepted actions reach every
// client through the service's broadcast, so only rejections and errors are
// answered here.
func (c *Client) handleMessage(raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.replyError("invalid message: " + err.Error())
		return
	}

	switch msg.Type {
	case "state":
		c.sendState(context.Background())

	case "action":
		if c.hub.handler == nil {
			c.replyError("actions are not accepted on this connection")
			return
		}
		if msg.Action == nil {
			c.replyError("action is required")
			return
		}
		req, err := c.bindAction(*msg.Action)
		if err != nil {
			c.replyError(err.Error())
			return
		}

		result, err := c.hub.handler.SubmitAction(context.Background(), c.sessionID, req)
		if err != nil {
			c.replyError(err.Error())
			return
		}
		if !result.Accepted {
			c.reply(&Message{
				Event:     EventActionRejected,
				GameState: result.GameState,
				Data:      map[string]string{"reason": result.Reason},
			})
		}

	default:
		c.replyError("unknown message type: " + msg.Type)
	}
}

// bindAction stamps the connection's player on req. Spectators cannot act
// and a client cannot speak for the other side.
func (c *Client) bindAction(req service.ActionRequest) (service.ActionRequest, error) {
	if c.player == "" {
		return req, ErrSpectator
	}
	if req.PlayerID != "" && req.PlayerID != c.player {
		return req, fmt.Errorf("%w: connection is bound to %s, not %s", ErrWrongSeat, c.player, req.PlayerID)
	}
	req.PlayerID = c.player
	return req, nil
}

// readPump pumps messages from the WebSocket connection to the hub
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
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		c.handleMessage(raw)
	}
}

// writePump pumps messages from the hub to the WebSocket connection. Each
// message goes in its own frame.
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
