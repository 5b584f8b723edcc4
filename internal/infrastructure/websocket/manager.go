package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"pokeswap/internal/domain/entity"
	"pokeswap/pkg/logger"
)

const (
	EventTradeOffer    = "trade_offer"
	EventTradeResolved = "trade_resolved"
)

// Event is the wire format pushed to connected users.
type Event struct {
	Type  string        `json:"type"`
	Trade *entity.Trade `json:"trade"`
}

// Client represents one connected user.
type Client struct {
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
}

// Manager tracks active connections keyed by normalized username. A user has
// at most one live connection; a new one replaces the old.
type Manager struct {
	clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start runs the manager's main loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if old, ok := m.clients[client.Username]; ok {
					close(old.Send)
				}
				m.clients[client.Username] = client
				m.mutex.Unlock()
				logger.Info("Client registered: %s", client.Username)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if current, ok := m.clients[client.Username]; ok && current == client {
					delete(m.clients, client.Username)
					close(client.Send)
				}
				m.mutex.Unlock()
				logger.Info("Client unregistered: %s", client.Username)

			case <-ctx.Done():
				return
			}
		}
	}()
}

// NotifyTradeOffer tells the owner a new offer is waiting on them.
func (m *Manager) NotifyTradeOffer(username string, trade *entity.Trade) {
	m.sendEvent(username, Event{Type: EventTradeOffer, Trade: trade})
}

// NotifyTradeResolved tells the requester their offer was accepted/declined.
func (m *Manager) NotifyTradeResolved(username string, trade *entity.Trade) {
	m.sendEvent(username, Event{Type: EventTradeResolved, Trade: trade})
}

func (m *Manager) sendEvent(username string, event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to encode %s event: %v", event.Type, err)
		return
	}

	m.mutex.RLock()
	client, ok := m.clients[entity.NormalizeUsername(username)]
	m.mutex.RUnlock()

	if !ok {
		return
	}

	select {
	case client.Send <- message:
	default:
		// Slow consumer; drop the event rather than block the engine.
		logger.Warn("Dropping %s event for %s", event.Type, username)
	}
}

// ReadPump drains the connection until the peer goes away. Inbound payloads
// are ignored; the socket is push-only.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Websocket read error for %s: %v", c.Username, err)
			}
			break
		}
	}
}

// WritePump forwards queued events to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
