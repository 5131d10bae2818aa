// Package websocket streams dashboard events to browser WebSocket clients.
package websocket

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/marquee/internal/server/events"
)

const (
	writeWait   = 10 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = pongWait * 9 / 10
	queueSize   = 64
	maxReadSize = 512
)

// Hub upgrades requests and forwards every broker event to each connection.
// It is an events.Subscriber through the embedded client set.
type Hub struct {
	events.Clients
	upgrader websocket.Upgrader
	logger   *zerolog.Logger
}

// NewHub creates a hub that accepts any origin.
func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the request and streams events until the peer leaves
// or the hub closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()

	queue, ok := h.Attach(queueSize)
	if !ok {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		return
	}
	defer h.Detach(queue)

	id := uuid.NewString()
	log := h.logger.With().Str("client_id", id).Logger()
	log.Info().Int("clients", h.ClientCount()).Msg("WebSocket client connected")
	defer log.Info().Msg("WebSocket client disconnected")

	gone := make(chan struct{})
	go drain(conn, gone)

	if err := write(conn, events.NewClientConnected("websocket", id)); err != nil {
		return
	}
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case e, open := <-queue:
			if !open {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			if err := write(conn, e); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}

// write sends e as one JSON text frame.
func write(conn *websocket.Conn, e events.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(e)
}

// drain reads until the peer closes or stops answering pings. Clients
// never send anything the hub acts on.
func drain(conn *websocket.Conn, gone chan<- struct{}) {
	defer close(gone)
	conn.SetReadLimit(maxReadSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
