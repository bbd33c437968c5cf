package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Message types
const (
	TypeNotification = "notification"
	TypeRead         = "read"
)

// Hub keeps the connected clients of every user and pushes notifications to them
type Hub struct {
	// Registered clients organized by user ID
	clients map[string]map[*Client]bool

	// Messages read from clients
	inbound chan *Message

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	listenersMu      sync.RWMutex
	messageListeners []chan *Message

	logger zerolog.Logger
}

// Message represents a message sent over WebSocket
type Message struct {
	// "notification" from server, "read" from client
	Type string `json:"type"`

	RecipientID    string    `json:"recipientId,omitempty"`
	NotificationID string    `json:"notificationId,omitempty"`
	Title          string    `json:"title,omitempty"`
	Content        string    `json:"content,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		inbound:          make(chan *Message, 64),
		register:         make(chan *Client),
		unregister:       make(chan *Client),
		done:             make(chan struct{}),
		clients:          make(map[string]map[*Client]bool),
		messageListeners: []chan *Message{},
		logger:           logger,
	}
}

// Run handles client registrations and inbound messages until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.inbound:
			h.notifyMessageListeners(message)
		}
	}
}

// Register adds client to the hub. It returns false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) receive(message *Message) {
	select {
	case h.inbound <- message:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info().Str("userID", client.userID).Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			if len(clients) == 0 {
				delete(h.clients, client.userID)
			}

			h.logger.Info().Str("userID", client.userID).Msg("Client unregistered")
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
		delete(h.clients, userID)
	}
	h.logger.Info().Msg("Websocket hub stopped")
}

// SendToUser pushes message to every open connection of its recipient. It
// returns the number of connections the message was queued on.
func (h *Hub) SendToUser(message *Message) int {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().Err(err).Str("userID", message.RecipientID).Msg("Failed to marshal message")
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for client := range h.clients[message.RecipientID] {
		select {
		case client.send <- data:
			sent++
		default:
			// Slow client; the write pump drops it on the next failed write.
			h.logger.Warn().Str("userID", message.RecipientID).Msg("Client send buffer full, message dropped")
		}
	}

	h.logger.Debug().
		Str("userID", message.RecipientID).
		Int("clientCount", sent).
		Msg("Message pushed to user")
	return sent
}

// IsOnline reports whether the user has at least one open connection
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// GetClientsCount returns the number of connections of a user
func (h *Hub) GetClientsCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) notifyMessageListeners(message *Message) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.messageListeners {
		select {
		case listener <- message:
		default:
			h.logger.Warn().Msg("Skipped slow message listener")
		}
	}
}

// AddMessageListener registers a channel to receive every client message
func (h *Hub) AddMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	h.messageListeners = append(h.messageListeners, listener)
}

// RemoveMessageListener removes a listener from the hub
func (h *Hub) RemoveMessageListener(listener chan *Message) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.messageListeners {
		if l == listener {
			h.messageListeners[i] = h.messageListeners[len(h.messageListeners)-1]
			h.messageListeners = h.messageListeners[:len(h.messageListeners)-1]
			break
		}
	}
}
