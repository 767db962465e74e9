package handlers

import (
	"context"
	"net/http"

	"github.com/ramonehamilton/cubedraft/internal/api/response"
	"github.com/ramonehamilton/cubedraft/internal/metrics"
	"github.com/ramonehamilton/cubedraft/internal/version"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler handles health and version requests.
type SystemHandler struct {
	store   Pinger
	clients func() int
	metrics *metrics.GenerationMetrics
}

// NewSystemHandler creates a new SystemHandler. Any argument may be nil.
func NewSystemHandler(store Pinger, clients func() int, m *metrics.GenerationMetrics) *SystemHandler {
	return &SystemHandler{store: store, clients: clients, metrics: m}
}

// Health reports service health; a failing database answers 503.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":  "healthy",
		"service": version.Service,
	}
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			body["status"] = "unhealthy"
			body["error"] = err.Error()
			response.JSON(w, http.StatusServiceUnavailable, body)
			return
		}
	}
	response.JSON(w, http.StatusOK, body)
}

// GetStatus returns runtime status.
func (h *SystemHandler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	status := map[string]any{"version": version.GetVersion()}
	if h.clients != nil {
		status["websocket_clients"] = h.clients()
	}
	if h.metrics != nil {
		status["generation"] = h.metrics.GetStats()
	}
	response.Success(w, status)
}

// GetVersion returns the application version.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"version": version.GetVersion(),
		"service": version.Service,
	})
}
