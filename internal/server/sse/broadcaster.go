// Package sse streams dashboard events as Server-Sent Events. The
// dashboard page listens for movie.added and catalog.invalidated frames.
package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/marquee/internal/server/events"
)

const queueSize = 64

// Broadcaster writes every broker event to each open stream. It is an
// events.Subscriber through the embedded client set.
type Broadcaster struct {
	events.Clients
	logger *zerolog.Logger
}

// NewBroadcaster creates a broadcaster.
func NewBroadcaster(logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{logger: logger}
}

// ServeHTTP holds the stream open until the request ends or the
// broadcaster closes.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	queue, ok := b.Attach(queueSize)
	if !ok {
		http.Error(w, "Server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer b.Detach(queue)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id := uuid.NewString()
	b.logger.Info().Str("client_id", id).Int("clients", b.ClientCount()).Msg("SSE client connected")
	defer b.logger.Info().Str("client_id", id).Msg("SSE client disconnected")

	if err := b.frame(w, events.NewClientConnected("sse", id)); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case e, open := <-queue:
			if !open {
				return
			}
			if err := b.frame(w, e); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

// frame writes e as an "event" line and a "data" line holding the payload
// as JSON. Streams cannot be resumed, so frames carry no id.
func (b *Broadcaster) frame(w io.Writer, e events.Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		b.logger.Error().Err(err).Str("event_type", string(e.Type)).Msg("Failed to encode SSE payload")
		return nil
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data)
	return err
}
