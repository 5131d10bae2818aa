package handlers

import (
	"net/http"

	"github.com/agentstation/marquee/internal/server/response"
)

// HandleHealth handles GET /api/v1/health (liveness).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "marquee",
		"version": "v1",
	})
}

// HandleReady handles GET /api/v1/ready. The instance is ready when the
// current snapshot was read without a store error.
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	snap := h.marquee.Snapshot(r.Context())
	if snap.Failed() {
		response.ServiceUnavailable(w, "Record store not readable")
		return
	}

	response.OK(w, map[string]any{
		"status":            "ready",
		"collection":        snap.Collection,
		"rows":              snap.Table.Len(),
		"cache_items":       h.cache.ItemCount(),
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}
