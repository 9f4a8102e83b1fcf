package hub

import (
	"encoding/json"
	"sync"

	"github.com/christa-jose1/student-migration-portal/pkg/log"
)

// Hub tracks connected clients and their user rooms. Every client that
// has joined is reachable through its user's room; a user with several
// tabs open has several clients in the same room.
type Hub struct {
	clients    map[string]*Client            // connection id -> client
	userRooms  map[string]map[string]*Client // user id -> connection id -> client
	register   chan *Client
	unregister chan *Client
	outbound   chan *envelope
	mu         sync.RWMutex
}

// envelope targets a single user room, or every connected client when
// UserID is empty.
type envelope struct {
	UserID  string
	Message []byte
}

// NewHub creates an empty hub. Call Run before registering clients.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		userRooms:  make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan *envelope, 256),
	}
}

// Run processes registration and delivery until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str("client_id", client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				if room, joined := h.userRooms[client.UserID]; joined {
					delete(room, client.ID)
					if len(room) == 0 {
						delete(h.userRooms, client.UserID)
					}
				}
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			l := log.L()
			l.Debug().Str("client_id", client.ID).Msg("client unregistered")

		case env := <-h.outbound:
			h.deliver(env)
		}
	}
}

func (h *Hub) deliver(env *envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if env.UserID == "" {
		for _, client := range h.clients {
			h.push(client, env.Message)
		}
		return
	}

	for _, client := range h.userRooms[env.UserID] {
		h.push(client, env.Message)
	}
}

func (h *Hub) push(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		// Slow consumer: drop the hint, the client refetches on demand.
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Join binds a client to its user's personal room.
func (h *Hub) Join(client *Client, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Re-joining under a different user moves the client.
	if room, ok := h.userRooms[client.UserID]; ok {
		delete(room, client.ID)
		if len(room) == 0 {
			delete(h.userRooms, client.UserID)
		}
	}

	client.UserID = userID
	if _, ok := h.userRooms[userID]; !ok {
		h.userRooms[userID] = make(map[string]*Client)
	}
	h.userRooms[userID][client.ID] = client

	l := log.L()
	l.Info().Str("client_id", client.ID).Str(log.FieldUserID, userID).Msg("client joined user room")
}

// SendToUser queues a message for every connection in a user's room.
func (h *Hub) SendToUser(userID string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	h.outbound <- &envelope{UserID: userID, Message: data}
	return nil
}

// Broadcast queues a message for every connected client.
func (h *Hub) Broadcast(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	h.outbound <- &envelope{Message: data}
	return nil
}

// ConnectedUsers reports how many user rooms currently have at least
// one connection.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userRooms)
}
