package ws

import (
	"log"
	"net/http"
	"sync"

	"github.com/AMurtezaj/door-management-system-sub000/internal/models"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub pushes freshly created notifications to connected clients. Clients that
// drop are removed on the next failed write; they are expected to reconnect
// and fall back to polling the inbox meanwhile.
type Hub struct {
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan *models.Notification
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan *models.Notification, 64),
	}
}

// Run drains the broadcast channel and fans out to all connected clients.
// Call it in its own goroutine.
func (h *Hub) Run() {
	for notification := range h.broadcast {
		h.clientsMux.Lock()
		for conn := range h.clients {
			if err := conn.WriteJSON(notification); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.clientsMux.Unlock()
	}
}

// Broadcast queues a notification for delivery. Non-blocking; if the channel
// is full the push is dropped and clients pick the notification up by polling.
func (h *Hub) Broadcast(notification *models.Notification) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- notification:
	default:
	}
}

// HandleWS upgrades the connection and registers the client.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}

	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()

	// Drain reads so we notice the peer closing.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.clientsMux.Lock()
				delete(h.clients, conn)
				h.clientsMux.Unlock()
				conn.Close()
				return
			}
		}
	}()
}
