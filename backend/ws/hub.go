package ws

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medadhere/frontend-server/backend/access"
)

const (
	channelPrefix = "access:events:"
	// allClasses is the client key for listeners without a status filter.
	allClasses = "*"
)

// Hub relays access events to WebSocket listeners. With Redis configured
// every instance publishes to, and relays from, the shared channels so a
// listener sees traffic from all instances.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	closed  bool

	redis  *redis.Client
	ctx    context.Context
	cancel context.CancelFunc

	secret string
}

// NewHub returns a hub. redisClient may be nil for a single instance; an
// empty secret leaves the feed open.
func NewHub(redisClient *redis.Client, secret string) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		clients: make(map[string]map[*Client]struct{}),
		redis:   redisClient,
		ctx:     ctx,
		cancel:  cancel,
		secret:  secret,
	}
	if redisClient != nil {
		go h.runPubSub()
	}
	return h
}

// Close stops the Redis relay and disconnects every listener. Hijacked
// connections are not tracked by http.Server, so Shutdown alone leaves them
// open.
func (h *Hub) Close() {
	if h.cancel != nil {
		h.cancel()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, m := range h.clients {
		for c := range m {
			_ = c.conn.Close()
		}
	}
}

// AddClient registers c for class. It reports false once the hub is closed.
func (h *Hub) AddClient(class string, c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if _, ok := h.clients[class]; !ok {
		h.clients[class] = make(map[*Client]struct{})
	}
	h.clients[class][c] = struct{}{}
	return true
}

func (h *Hub) RemoveClient(class string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.clients[class]; ok {
		delete(m, c)
		if len(m) == 0 {
			delete(h.clients, class)
		}
	}
}

// ClientCount returns the number of connected listeners.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, m := range h.clients {
		n += len(m)
	}
	return n
}

// Record implements access.Recorder.
func (h *Hub) Record(_ context.Context, ev access.Event) {
	if err := h.PublishEvent(ev); err != nil {
		log.Printf("hub: publish event id=%s err=%v", ev.ID, err)
	}
}

// PublishEvent sends ev to the status-class channel, or straight to local
// listeners when Redis is not configured.
func (h *Hub) PublishEvent(ev access.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	class := ev.StatusClass()
	if h.redis == nil {
		h.broadcastLocal(class, b)
		return nil
	}
	chanName := channelPrefix + class

	// Retrying the publish with exponential backoff + jitter.
	const maxAttempts = 5
	backoff := 100 * time.Millisecond
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = h.redis.Publish(h.ctx, chanName, b).Err()
		if err == nil {
			return nil
		}

		log.Printf("hub: redis publish error class=%s attempt=%d err=%v", class, attempt, err)

		if attempt == maxAttempts || h.ctx.Err() != nil {
			break
		}

		jitter := time.Duration(rand.Intn(200)) * time.Millisecond
		select {
		case <-time.After(backoff + jitter):
		case <-h.ctx.Done():
		}
		backoff *= 2
	}
	log.Printf("hub: publish failed; falling back to local broadcast class=%s", class)
	h.broadcastLocal(class, b)
	return err
}

// listeners returns the clients interested in class, filtered and unfiltered.
func (h *Hub) listeners(class string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Client, 0, len(h.clients[class])+len(h.clients[allClasses]))
	for c := range h.clients[class] {
		out = append(out, c)
	}
	for c := range h.clients[allClasses] {
		out = append(out, c)
	}
	return out
}

func (h *Hub) broadcastLocal(class string, b []byte) {
	for _, c := range h.listeners(class) {
		c.send(b)
	}
}

// run a pattern subscription and relay to local clients
func (h *Hub) runPubSub() {
	pubsub := h.redis.PSubscribe(h.ctx, channelPrefix+"*")
	log.Printf("hub: started redis psubscribe to %s*", channelPrefix)
	ch := pubsub.Channel()
	for {
		select {
		case <-h.ctx.Done():
			_ = pubsub.Close()
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			class := strings.TrimPrefix(msg.Channel, channelPrefix)
			if !access.ValidClass(class) {
				continue
			}
			h.broadcastLocal(class, []byte(msg.Payload))
		}
	}
}
