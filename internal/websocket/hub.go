// Package websocket pushes dataset lifecycle events to connected browsers.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"sheetcheck/internal/infrastructure"
	"sheetcheck/pkg/contracts/events"
)

// broadcastBuffer bounds how many events may wait for the hub loop.
const broadcastBuffer = 64

// Hub maintains the set of active clients and broadcasts messages to the clients.
// The clients map is owned by the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics

	mu           sync.RWMutex
	clientCount  int
	messagesSent int64
	dropped      int64
	running      bool

	quit chan struct{}
	done chan struct{}
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		metrics:    metrics,
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the hub loop in its own goroutine. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	go h.Run()
}

// Run is the hub's main loop
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.quit:
			for client := range h.clients {
				h.remove(client)
			}
			h.logger.Info("Hub shutting down")
			return

		case client := <-h.register:
			h.clients[client] = true
			h.setClientCount(len(h.clients))
			if h.metrics != nil {
				h.metrics.WebSocketClients.Add(context.Background(), 1)
			}

			h.logger.Info("Client registered",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr),
				slog.Int("total_clients", len(h.clients)))

			h.greet(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.remove(client)
				h.logger.Info("Client unregistered",
					slog.String("client_id", client.id),
					slog.Int("total_clients", len(h.clients)),
					slog.Duration("connection_duration", time.Since(client.connectedAt)))
			}

		case message := <-h.broadcast:
			sent := 0
			for client := range h.clients {
				select {
				case client.send <- message:
					sent++
				default:
					h.logger.Warn("Client send buffer full, disconnecting",
						slog.String("client_id", client.id))
					h.remove(client)
				}
			}

			h.mu.Lock()
			h.messagesSent += int64(sent)
			h.mu.Unlock()

			h.logger.Debug("Broadcast delivered",
				slog.Int("client_count", sent),
				slog.Int("message_size", len(message)))
		}
	}
}

// remove must only be called from Run.
func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.setClientCount(len(h.clients))
	if h.metrics != nil {
		h.metrics.WebSocketClients.Add(context.Background(), -1)
	}
}

func (h *Hub) greet(client *Client) {
	data, err := json.Marshal(events.NewMessage(events.MessageTypeConnect, events.ConnectData{
		ClientID: client.id,
		Status:   "connected",
	}, client.traceID))
	if err != nil {
		return
	}

	select {
	case client.send <- data:
	default:
		h.logger.Warn("Failed to send connection message - client buffer full",
			slog.String("client_id", client.id))
	}
}

func (h *Hub) setClientCount(n int) {
	h.mu.Lock()
	h.clientCount = n
	h.mu.Unlock()
}

// Publish broadcasts an event to every client. It never blocks: when the hub
// is stopped or its queue is full the event is dropped and logged.
func (h *Hub) Publish(ctx context.Context, msgType events.MessageType, data interface{}) {
	msg := events.NewMessage(msgType, data, infrastructure.GetTraceID(ctx))
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshaling message",
			slog.String("message_type", string(msgType)),
			slog.String("error", err.Error()))
		return
	}

	select {
	case <-h.quit:
		return
	default:
	}

	select {
	case h.broadcast <- payload:
	default:
		h.mu.Lock()
		h.dropped++
		h.mu.Unlock()
		h.logger.WarnContext(ctx, "Broadcast queue full, dropping event",
			slog.String("message_type", string(msgType)))
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
		close(client.send)
	}
}

// Unregister removes a client. Safe to call after Stop.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clientCount
}

// Stats returns delivery counters.
func (h *Hub) Stats() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return map[string]interface{}{
		"active_clients":   h.clientCount,
		"messages_sent":    h.messagesSent,
		"messages_dropped": h.dropped,
	}
}

// Stop closes every client and waits for the hub loop to exit.
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done
}
