package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"retailcli/pkg/contracts"
)

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	startedAt time.Time
	info      contracts.VersionInfo
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		startedAt: time.Now(),
		info:      contracts.GetVersionInfo(),
	}
}

// Routes returns the health routes
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetHealth)
	return r
}

// GetHealth handles GET /api/health
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(h.startedAt).String(),
		"version": h.info,
	})
}
