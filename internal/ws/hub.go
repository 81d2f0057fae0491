package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/platewise/platewise-api/internal/logger"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 8192
)

// Client represents a single WebSocket connection.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uint
}

// Hub maintains the active feed connections keyed by user and delivers
// messages to specific users. A user may hold several connections at once
// (multiple tabs or devices).
type Hub struct {
	Users      map[uint]map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Deliver    chan *UserMessage
	mu         sync.RWMutex
}

// UserMessage carries a message destined for a set of users.
type UserMessage struct {
	UserIDs []uint
	Message []byte
}

// NewHub creates and returns a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		Users:      make(map[uint]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Deliver:    make(chan *UserMessage, 64),
	}
}

// Run handles register, unregister, and deliver events. It should be
// launched as a goroutine.
func (h *Hub) Run() {
	log := logger.Get()

	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.Users[client.UserID] == nil {
				h.Users[client.UserID] = make(map[*Client]bool)
			}
			h.Users[client.UserID][client] = true
			h.mu.Unlock()

			log.Info("feed client registered", zap.Uint("user_id", client.UserID))

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.Users[client.UserID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(h.Users, client.UserID)
					}
				}
			}
			h.mu.Unlock()

			log.Info("feed client unregistered", zap.Uint("user_id", client.UserID))

		case msg := <-h.Deliver:
			var stale []*Client
			h.mu.RLock()
			for _, userID := range msg.UserIDs {
				for client := range h.Users[userID] {
					select {
					case client.Send <- msg.Message:
					default:
						// Client's send buffer is full; disconnect it.
						stale = append(stale, client)
					}
				}
			}
			h.mu.RUnlock()

			if len(stale) > 0 {
				h.mu.Lock()
				for _, client := range stale {
					if clients, ok := h.Users[client.UserID]; ok {
						if _, exists := clients[client]; exists {
							delete(clients, client)
							close(client.Send)
							if len(clients) == 0 {
								delete(h.Users, client.UserID)
							}
						}
					}
				}
				h.mu.Unlock()
			}
		}
	}
}

// ReadPump reads messages from the WebSocket connection. It is intended to be
// run in a per-client goroutine. The provided handler is called for each
// incoming message.
func (c *Client) ReadPump(handler func(*Client, []byte)) {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
			) {
				logger.Get().Warn("unexpected websocket close",
					zap.Uint("user_id", c.UserID),
					zap.Error(err),
				)
			}
			break
		}
		handler(c, message)
	}
}

// WritePump sends messages from the Send channel to the WebSocket connection.
// It also sends periodic pings to keep the connection alive. It is intended to
// be run in a per-client goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
