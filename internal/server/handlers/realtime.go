package handlers

import "net/http"

// HandleWebSocket handles GET /api/v1/updates/ws.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	h.wsHub.ServeHTTP(w, r)
}

// HandleSSE handles GET /api/v1/updates/stream.
func (h *Handlers) HandleSSE(w http.ResponseWriter, r *http.Request) {
	h.sseBroadcaster.ServeHTTP(w, r)
}
