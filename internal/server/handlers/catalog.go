package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/agentstation/marquee/internal/catalog"
	"github.com/agentstation/marquee/internal/server/response"
)

// HandleInvalidate handles POST /api/v1/catalog/invalidate. It ends the
// cache epoch so the next read goes back to the store.
func (h *Handlers) HandleInvalidate(w http.ResponseWriter, _ *http.Request) {
	h.marquee.Invalidate()
	stats := h.marquee.Stats()

	response.OK(w, map[string]any{
		"status": "invalidated",
		"epoch":  stats.Epoch,
	})
}

// HandleDiagnostics handles GET /api/v1/diagnostics.
func (h *Handlers) HandleDiagnostics(w http.ResponseWriter, _ *http.Request) {
	diags := h.marquee.Diagnostics()
	if diags == nil {
		diags = []catalog.Diagnostic{}
	}
	response.OK(w, map[string]any{
		"diagnostics": diags,
		"count":       len(diags),
	})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, _ *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	response.OK(w, map[string]any{
		"catalog":        h.marquee.Stats(),
		"response_cache": h.cache.GetStats(),
		"events":         h.broker.Stats(),
		"clients": map[string]any{
			"websocket":         h.wsHub.ClientCount(),
			"sse":               h.sseBroadcaster.ClientCount(),
			"websocket_dropped": h.wsHub.Dropped(),
			"sse_dropped":       h.sseBroadcaster.Dropped(),
		},
		"runtime": map[string]any{
			"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
			"goroutines":     runtime.NumGoroutine(),
			"heap_alloc":     mem.HeapAlloc,
		},
	})
}
