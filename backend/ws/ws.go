// Package ws streams access events to operators over WebSocket.
package ws

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/medadhere/frontend-server/backend/access"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *Client) send(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.TextMessage, b)
}

// ServeWS upgrades the request and registers a listener. The optional
// "status" query parameter ("2xx", "4xx", ...) restricts the feed to one
// status class.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	class := r.URL.Query().Get("status")
	if class == "" {
		class = allClasses
	} else if !access.ValidClass(class) {
		http.Error(w, "invalid status filter", http.StatusBadRequest)
		log.Printf("ws: upgrade rejected - invalid status %q from %s", class, r.RemoteAddr)
		return
	}

	if h.secret != "" {
		auth := r.Header.Get("Authorization")
		tokenQ := r.URL.Query().Get("token")
		if auth != "Bearer "+h.secret && tokenQ != h.secret {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			log.Printf("ws: upgrade unauthorized (missing/invalid auth/token) from %s", r.RemoteAddr)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		log.Printf("ws: upgrade failed from %s: %v", r.RemoteAddr, err)
		return
	}

	client := &Client{conn: conn}
	if !h.AddClient(class, client) {
		_ = conn.Close()
		return
	}
	log.Printf("ws: connected status=%s remote=%s", class, r.RemoteAddr)

	go func() {
		defer func() {
			h.RemoveClient(class, client)
			_ = conn.Close()
			log.Printf("ws: disconnected remote=%s", r.RemoteAddr)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
