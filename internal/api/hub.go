package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"battlegrid/internal/observability"
	"battlegrid/internal/wire"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans out turn-callback records to every connected observer. This
// is the out-of-scope "external collaborator" §1 names as streaming
// plumbing; the Match Driver itself has no notion of WebSockets.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan wire.CallbackInput
}

// NewHub constructs an empty Hub. No goroutines start until a client
// connects, matching the teacher's "construction vs Start" separation.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]chan wire.CallbackInput)}
}

// Broadcast is the TurnCallback handed to match.Run: it fans the record
// out to every connected client without blocking on a slow reader.
func (h *Hub) Broadcast(cb wire.CallbackInput) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		select {
		case ch <- cb:
		default:
			log.Printf("⚠️ dropping turn callback for slow websocket client %s", conn.RemoteAddr())
		}
	}
}

// HandleWebSocket upgrades the request and registers the connection as a
// turn-callback observer until it disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("⚠️ websocket upgrade failed: %v", err)
		return
	}

	ch := make(chan wire.CallbackInput, 32)
	h.mu.Lock()
	h.clients[conn] = ch
	observability.SetWSConnections(len(h.clients))
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		observability.SetWSConnections(len(h.clients))
		h.mu.Unlock()
		_ = conn.Close()
	}()

	for cb := range ch {
		payload, err := json.Marshal(callbackWire(cb))
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// callbackWire re-keys a CallbackInput's fields under snake_case JSON
// names; the id-keyed maps are passed through unchanged (wire.Id already
// marshals as a decimal string key through its MarshalText).
func callbackWire(cb wire.CallbackInput) map[string]any {
	return map[string]any{
		"turn":              cb.Turn,
		"objs":              cb.Objs,
		"actions":           cb.Actions,
		"logs":              cb.Logs,
		"debug_tables":      cb.DebugTables,
		"debug_inspections": cb.DebugInspections,
	}
}
