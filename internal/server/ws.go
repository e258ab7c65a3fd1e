package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local API only
	},
}

// OutputHandler broadcasts pointer output over WebSocket. It drains
// the pipeline's mailbox at ~30 Hz and sends only fresh values, so a
// slow client never sees stale positions queue up.
type OutputHandler struct {
	outputs *session.Mailbox[session.Output]

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

// NewOutputHandler creates an OutputHandler reading from the mailbox.
func NewOutputHandler(outputs *session.Mailbox[session.Output]) *OutputHandler {
	h := &OutputHandler{
		outputs: outputs,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *OutputHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep the connection alive by reading (and discarding) messages.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast forwards each fresh output to every connected client.
func (h *OutputHandler) broadcast() {
	ticker := time.NewTicker(33 * time.Millisecond) // ~30 Hz
	defer ticker.Stop()

	var lastSeq uint64
	for range ticker.C {
		h.mu.RLock()
		idle := len(h.clients) == 0
		h.mu.RUnlock()
		if idle {
			continue
		}

		out, seq, fresh := h.outputs.Take(lastSeq)
		if !fresh {
			continue
		}
		lastSeq = seq

		h.mu.RLock()
		for conn := range h.clients {
			if err := conn.WriteJSON(out); err != nil {
				log.Printf("websocket write error: %v", err)
			}
		}
		h.mu.RUnlock()
	}
}
