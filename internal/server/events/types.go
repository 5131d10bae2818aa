// Package events carries dashboard notifications from the marquee hooks to
// the live-update transports. A Broker queues events and hands each one to
// every Subscriber; the WebSocket hub and the SSE broadcaster subscribe
// through an embedded Clients set.
package events

import (
	"time"

	"github.com/agentstation/marquee/internal/submission"
	"github.com/agentstation/marquee/pkg/movies"
)

// Type names an event on the wire.
type Type string

// Event types.
const (
	MovieAdded         Type = "movie.added"
	CatalogInvalidated Type = "catalog.invalidated"
	ClientConnected    Type = "client.connected"
)

// Event is one notification. Data holds the payload matching Type.
type Event struct {
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// MovieAddedData is the payload of movie.added.
type MovieAddedData struct {
	ID    string            `json:"id"`
	Movie movies.Submission `json:"movie"`
}

// CatalogInvalidatedData is the payload of catalog.invalidated. Epoch is the
// epoch that just ended.
type CatalogInvalidatedData struct {
	Epoch uint64 `json:"epoch"`
}

// ClientConnectedData greets a new live-update client.
type ClientConnectedData struct {
	Transport string `json:"transport"`
	ClientID  string `json:"client_id"`
}

// NewMovieAdded builds the event for an accepted submission.
func NewMovieAdded(res submission.Result) Event {
	return newEvent(MovieAdded, MovieAddedData{ID: res.ID, Movie: res.Movie})
}

// NewCatalogInvalidated builds the event for an ended epoch.
func NewCatalogInvalidated(epoch uint64) Event {
	return newEvent(CatalogInvalidated, CatalogInvalidatedData{Epoch: epoch})
}

// NewClientConnected builds the greeting sent to one client.
func NewClientConnected(transport, clientID string) Event {
	return newEvent(ClientConnected, ClientConnectedData{Transport: transport, ClientID: clientID})
}

func newEvent(t Type, data any) Event {
	return Event{Type: t, Timestamp: time.Now().UTC(), Data: data}
}
