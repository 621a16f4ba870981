package rest

import "net/http"

// Handlers groups everything mounted on the API mux. Nil handlers are
// skipped.
type Handlers struct {
	Health    *HealthHandler
	Timeline  *TimelineHandler
	WorkOrder *WorkOrderHandler
	Batch     *BatchHandler
	Settings  *SettingsHandler
	WebSocket http.Handler
	Metrics   http.Handler
	// MetricsPath defaults to /metrics.
	MetricsPath string
}

// NewRouter registers the API routes.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	if h.Health != nil {
		mux.HandleFunc("GET /live", h.Health.Live)
		mux.HandleFunc("GET /ready", h.Health.Ready)
		mux.HandleFunc("GET /health", h.Health.Health)
	}
	if h.Timeline != nil {
		mux.HandleFunc("GET /api/timeline", h.Timeline.Get)
		mux.HandleFunc("GET /api/timeline/stats", h.Timeline.Stats)
	}
	if h.WorkOrder != nil {
		mux.HandleFunc("GET /api/items/open", h.WorkOrder.OpenItems)
		mux.HandleFunc("GET /api/items/{id}/time-status", h.WorkOrder.TimeStatus)
		mux.HandleFunc("PATCH /api/items/{id}/status", h.WorkOrder.UpdateStatus)
		mux.HandleFunc("POST /api/work-orders", h.WorkOrder.Create)
		mux.HandleFunc("GET /api/work-orders/{id}/items", h.WorkOrder.Items)
		mux.HandleFunc("POST /api/work-orders/{id}/items", h.WorkOrder.AddItems)
		mux.HandleFunc("DELETE /api/work-orders/{id}", h.WorkOrder.Delete)
	}
	if h.Batch != nil {
		mux.HandleFunc("POST /api/batches", h.Batch.Start)
		mux.HandleFunc("POST /api/batches/{id}/end", h.Batch.End)
	}
	if h.Settings != nil {
		mux.HandleFunc("GET /api/settings", h.Settings.Get)
		mux.HandleFunc("PUT /api/settings", h.Settings.Update)
	}
	if h.WebSocket != nil {
		mux.Handle("GET /ws", h.WebSocket)
	}
	if h.Metrics != nil {
		path := h.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, h.Metrics)
	}

	return mux
}
