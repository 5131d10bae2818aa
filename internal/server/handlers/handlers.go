// Package handlers provides HTTP request handlers for the marquee server.
package handlers

import (
	"html/template"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/marquee"
	"github.com/agentstation/marquee/internal/cache"
	"github.com/agentstation/marquee/internal/server/events"
	"github.com/agentstation/marquee/internal/server/sse"
	ws "github.com/agentstation/marquee/internal/server/websocket"
)

// Deps are the collaborators the handlers need.
type Deps struct {
	Marquee      marquee.Marquee
	Cache        *cache.Cache
	Broker       *events.Broker
	WSHub        *ws.Hub
	SSE          *sse.Broadcaster
	Logger       *zerolog.Logger
	StartTime    time.Time
	APIPrefix    string
	MaxBodyBytes int64
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	marquee        marquee.Marquee
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	logger         *zerolog.Logger
	startTime      time.Time
	apiPrefix      string
	maxBodyBytes   int64
	dashboard      *template.Template
}

// New creates a new Handlers instance.
func New(d Deps) *Handlers {
	return &Handlers{
		marquee:        d.Marquee,
		cache:          d.Cache,
		broker:         d.Broker,
		wsHub:          d.WSHub,
		sseBroadcaster: d.SSE,
		logger:         d.Logger,
		startTime:      d.StartTime,
		apiPrefix:      d.APIPrefix,
		maxBodyBytes:   d.MaxBodyBytes,
		dashboard:      dashboardTemplate,
	}
}
