package websocket

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UnicastMessage struct {
	UserID  uuid.UUID
	Message []byte
}

// Hub maintains the set of active clients and routes live notification
// pushes to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages for every connected client.
	broadcast chan []byte

	// Unicast messages
	unicast chan UnicastMessage

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Channel to signal termination
	stop     chan struct{}
	stopOnce sync.Once

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		unicast:    make(chan UnicastMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),

		clients: make(map[*Client]bool),
		stop:    make(chan struct{}),
		logger:  logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("websocket client registered",
				zap.String("addr", client.remoteAddr()),
				zap.String("user_id", client.userID.String()))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("websocket client unregistered",
					zap.String("addr", client.remoteAddr()),
					zap.String("user_id", client.userID.String()))
			}
		case message := <-h.broadcast:
			h.logger.Debug("broadcasting message", zap.Int("clients", len(h.clients)))
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		case msg := <-h.unicast:
			h.logger.Debug("sending unicast", zap.String("user_id", msg.UserID.String()))
			for client := range h.clients {
				if client.userID == msg.UserID {
					select {
					case client.send <- msg.Message:
					default:
						close(client.send)
						delete(h.clients, client)
					}
				}
			}
		case <-h.stop:
			h.logger.Info("stopping websocket hub")
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

func (h *Hub) BroadcastMessage(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.stop:
	}
}

func (h *Hub) SendToUser(userID uuid.UUID, message []byte) {
	select {
	case h.unicast <- UnicastMessage{UserID: userID, Message: message}:
	case <-h.stop:
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
	})
}
