// Package ws pushes live table-state updates to connected floor-view
// clients. Every table mutation broadcasts the updated document so the UI
// never has to poll during service.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Hub struct {
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeWS upgrades the request and registers the connection. Reads are
// drained and discarded; the hub only pushes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}

	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()

	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.clientsMux.Lock()
	delete(h.clients, conn)
	h.clientsMux.Unlock()
	conn.Close()
}

// Broadcast sends an event to every connected client. Dead connections are
// dropped on write failure; a broadcast never blocks a mutation path on a
// slow client beyond the write itself.
func (h *Hub) Broadcast(event string, payload interface{}) {
	message, err := json.Marshal(map[string]interface{}{
		"event":   event,
		"payload": payload,
	})
	if err != nil {
		log.Printf("[WS] Marshal failed: %v", err)
		return
	}

	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// ClientCount reports connected clients (health/detailed).
func (h *Hub) ClientCount() int {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	return len(h.clients)
}
