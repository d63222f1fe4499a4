package hub

import (
	"context"
	"encoding/json"
	"log"
	"sync/atomic"

	"hashquest/internal/models"
)

// Hub fans game events out to every subscribed websocket client. Delivery
// is best-effort: a slow or dead client is dropped rather than allowed to
// block a broadcast.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	count      atomic.Int64
}

// New creates a hub. Run must be called before clients connect.
func New() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run owns the client set. All registration and broadcast traffic funnels
// through this single goroutine, so no locking is needed elsewhere.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			close(h.done)
			return
		case client := <-h.register:
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
		case client := <-h.unregister:
			if h.clients[client] {
				h.drop(client)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full: the client is too slow to keep
					// up, disconnect it instead of stalling everyone.
					h.drop(client)
				}
			}
		}
	}
}

// detach hands a client back to the hub for removal, giving up once the
// hub has shut down so disconnecting readers never block on a stopped
// select loop.
func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.count.Store(int64(len(h.clients)))
}

// Broadcast queues an event for delivery to all connected clients. Never
// blocks the caller: if the hub's queue is full the event is dropped and
// logged, because notification is a side effect of a committed transition,
// never a precondition for it.
func (h *Hub) Broadcast(event models.Event) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to encode event %s: %v", event.Type, err)
		return
	}

	select {
	case h.broadcast <- message:
	default:
		log.Printf("Event queue full, dropping %s event", event.Type)
	}
}

// ClientCount returns the number of currently connected clients
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}
