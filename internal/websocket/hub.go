package coachws

import (
	"context"

	"github.com/tritonlifts/api/internal/telemetry/metrics"
)

// Hub tracks the open coach sockets of every session so that ending a
// session can close them.
type Hub struct {
	clients      map[string]map[*Client]struct{}
	register     chan *Client
	unregister   chan *Client
	closeSession chan string
	done         chan struct{}
	metrics      *metrics.Manager
}

func NewHub(metricsManager *metrics.Manager) *Hub {
	return &Hub{
		clients:      make(map[string]map[*Client]struct{}),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		closeSession: make(chan string),
		done:         make(chan struct{}),
		metrics:      metricsManager,
	}
}

// Run serves registrations until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for sessionID := range h.clients {
				h.dropSession(sessionID)
			}
			return
		case client := <-h.register:
			set, ok := h.clients[client.sessionID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.sessionID] = set
			}
			set[client] = struct{}{}
			h.gauge(1)
		case client := <-h.unregister:
			set, ok := h.clients[client.sessionID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				client.cancel()
				h.gauge(-1)
			}
			if len(set) == 0 {
				delete(h.clients, client.sessionID)
			}
		case sessionID := <-h.closeSession:
			h.dropSession(sessionID)
		}
	}
}

func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		client.cancel()
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// CloseSession cancels every socket opened under sessionID.
func (h *Hub) CloseSession(sessionID string) {
	select {
	case h.closeSession <- sessionID:
	case <-h.done:
	}
}

func (h *Hub) dropSession(sessionID string) {
	set, ok := h.clients[sessionID]
	if !ok {
		return
	}
	for client := range set {
		client.cancel()
		h.gauge(-1)
	}
	delete(h.clients, sessionID)
}

func (h *Hub) gauge(delta float64) {
	if h.metrics != nil {
		h.metrics.GaugeCoachSockets.Add(delta)
	}
}
