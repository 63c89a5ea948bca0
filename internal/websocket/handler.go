package websocket

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"sheetcheck/internal/config"
	"sheetcheck/internal/infrastructure"
)

// Handler upgrades HTTP requests and attaches the connection to a hub.
type Handler struct {
	hub        *Hub
	upgrader   websocket.Upgrader
	pongWait   time.Duration
	pingPeriod time.Duration
	logger     *slog.Logger
}

// NewHandler creates the /ws endpoint. An empty allowedOrigins list, or one
// containing "*", accepts any origin.
func NewHandler(hub *Hub, allowedOrigins []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		pongWait:   config.WebSocketPongWait,
		pingPeriod: config.WebSocketPingPeriod,
		logger: logger.With(slog.String("component", "websocket.handler")),
	}
}

// WithConfig applies buffer sizes and heartbeat timings. Zero values keep the defaults.
func (h *Handler) WithConfig(cfg config.WebSocketConfig) *Handler {
	if cfg.ReadBufferSize > 0 {
		h.upgrader.ReadBufferSize = cfg.ReadBufferSize
	}
	if cfg.WriteBufferSize > 0 {
		h.upgrader.WriteBufferSize = cfg.WriteBufferSize
	}
	// Pings must go out before the peer's read deadline expires.
	if cfg.PongWait > 0 && cfg.PingPeriod > 0 && cfg.PingPeriod < cfg.PongWait {
		h.pongWait, h.pingPeriod = cfg.PongWait, cfg.PingPeriod
	}
	return h
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied when the handshake itself was bad.
		h.logger.WarnContext(r.Context(), "WebSocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("origin", r.Header.Get("Origin")))
		return
	}

	client := NewClient(h.hub, conn, infrastructure.GetTraceID(r.Context()), h.logger)
	client.pongWait, client.pingPeriod = h.pongWait, h.pingPeriod
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
