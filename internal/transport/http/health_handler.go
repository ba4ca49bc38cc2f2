package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"evagobi/internal/files"
	"evagobi/pkg/contracts"
)

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status           string                 `json:"status"`
	Version          string                 `json:"version"`
	Uptime           string                 `json:"uptime"`
	Timestamp        time.Time              `json:"timestamp"`
	RunningOperation string                 `json:"running_operation,omitempty"`
	ChartsAvailable  int                    `json:"charts_available"`
	LastUpdated      *time.Time             `json:"last_updated,omitempty"`
	WebSocket        map[string]interface{} `json:"websocket,omitempty"`
	System           map[string]interface{} `json:"system,omitempty"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	operations OperationService
	catalog    *files.Catalog
	hub        HubStats
	system     SystemStatsSource
	startedAt  time.Time
	logger     *slog.Logger
}

// NewHealthHandler creates a new health handler. hub and system may be nil.
func NewHealthHandler(ops OperationService, catalog *files.Catalog, hub HubStats, system SystemStatsSource, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		operations: ops,
		catalog:    catalog,
		hub:        hub,
		system:     system,
		startedAt:  time.Now(),
		logger:     logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:           "ok",
		Version:          contracts.Version,
		Uptime:           time.Since(h.startedAt).Round(time.Second).String(),
		Timestamp:        time.Now().UTC(),
		RunningOperation: h.operations.Running(),
	}

	for _, chart := range h.catalog.Charts() {
		if chart.Exists {
			resp.ChartsAvailable++
		}
	}
	if latest, ok := h.catalog.LastUpdated(); ok {
		modTime := latest.ModTime.UTC()
		resp.LastUpdated = &modTime
	}
	if h.hub != nil {
		resp.WebSocket = h.hub.GetHubMetrics()
	}
	if h.system != nil {
		resp.System = h.system.Stats().FormatStats()
	}

	render.JSON(w, r, resp)
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, contracts.GetVersionInfo())
}
