package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"sheetcheck/internal/services"
)

// HubStats reports websocket hub statistics
type HubStats interface {
	Stats() map[string]interface{}
}

// MetricsHandler serves Prometheus metrics and JSON runtime stats
type MetricsHandler struct {
	prometheus http.Handler
	health     *services.HealthService
	hub        HubStats
}

// NewMetricsHandler creates a new metrics handler. A nil prometheus handler
// means metrics are disabled and /metrics answers 404.
func NewMetricsHandler(prometheus http.Handler, health *services.HealthService, hub HubStats) *MetricsHandler {
	return &MetricsHandler{
		prometheus: prometheus,
		health:     health,
		hub:        hub,
	}
}

// Routes mounts under /api/stats
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetStats)
	r.Get("/websocket", h.GetHubStats)
	return r
}

// Prometheus handles GET /metrics
func (h *MetricsHandler) Prometheus(w http.ResponseWriter, r *http.Request) {
	if h.prometheus == nil {
		http.NotFound(w, r)
		return
	}
	h.prometheus.ServeHTTP(w, r)
}

// GetStats returns process and dataset statistics
func (h *MetricsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.health.SystemStats(r.Context()))
}

// GetHubStats returns websocket hub statistics
func (h *MetricsHandler) GetHubStats(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		render.JSON(w, r, map[string]interface{}{"clients": 0})
		return
	}
	render.JSON(w, r, h.hub.Stats())
}
