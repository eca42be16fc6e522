package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/riskibarqy/esports-hub/internal/platform/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// Hub fans messages out to websocket clients grouped by topic.
type Hub struct {
	mu       sync.RWMutex
	topics   map[string]map[*Client]struct{}
	upgrader websocket.Upgrader
	logger   *logging.Logger
}

func NewHub(allowedOrigins []string, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		topics: make(map[string]map[*Client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger.Named("realtime"),
	}
}

// Serve upgrades the request and subscribes the connection to topic until
// the peer goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, topic string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		topic: topic,
	}
	h.register(client)

	go client.writePump()
	go client.readPump()
	return nil
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.topics[c.topic]
	if !ok {
		clients = make(map[*Client]struct{})
		h.topics[c.topic] = clients
	}
	clients[c] = struct{}{}
	h.logger.Debug("client subscribed", "topic", c.topic, "clients", len(clients))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.topics[c.topic]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	c.close()
	if len(clients) == 0 {
		delete(h.topics, c.topic)
	}
	h.logger.Debug("client unsubscribed", "topic", c.topic, "clients", len(clients))
}

// Broadcast queues payload for every subscriber of topic and returns how
// many accepted it. Slow clients whose buffer is full are skipped.
func (h *Hub) Broadcast(topic string, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.topics[topic] {
		if c.enqueue(payload) {
			delivered++
			continue
		}
		h.logger.Warn("client send buffer full, dropping message", "topic", topic)
	}
	return delivered
}

func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for topic, clients := range h.topics {
		for c := range clients {
			c.close()
		}
		delete(h.topics, topic)
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	allowAll := len(allowed) == 0
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			allowAll = true
		}
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if allowAll || origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
