package stream

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pvdberg/net-energy-ledger/pkg/telegram"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local network deployment, no origin policy
	},
}

// Hub fans live meter snapshots out to websocket subscribers.
type Hub struct {
	clients      map[*websocket.Conn]bool
	clientsMutex sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeWs upgrades the request and keeps the connection registered until
// the client goes away. latest, when non-nil, is sent immediately so a new
// subscriber does not wait a full meter cycle.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, latest *telegram.MeterSnapshot) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	h.add(conn)

	if latest != nil {
		conn.WriteMessage(websocket.TextMessage, latest.ToJsonBytes())
	}

	// Keep connection alive
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			h.remove(conn)
			break
		}
	}
}

func (h *Hub) Broadcast(snap *telegram.MeterSnapshot) {
	h.clientsMutex.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clientsMutex.RUnlock()

	data := snap.ToJsonBytes()
	for _, client := range clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(client)
		}
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.clientsMutex.Lock()
	h.clients[conn] = true
	h.clientsMutex.Unlock()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.clientsMutex.Lock()
	delete(h.clients, conn)
	h.clientsMutex.Unlock()
	conn.Close()
}
