// Package server provides the HTTP presentation layer of marquee: the
// dashboard page, a JSON API, and live update streams.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/marquee"
	"github.com/agentstation/marquee/cmd/application"
	"github.com/agentstation/marquee/internal/cache"
	"github.com/agentstation/marquee/internal/server/events"
	"github.com/agentstation/marquee/internal/server/middleware"
	"github.com/agentstation/marquee/internal/server/sse"
	ws "github.com/agentstation/marquee/internal/server/websocket"
	"github.com/agentstation/marquee/internal/submission"
	"github.com/agentstation/marquee/pkg/errors"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	marquee        marquee.Marquee
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	rateLimiter    *middleware.RateLimiter
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	startTime      time.Time
}

// New creates a new server instance with the given configuration.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	mq, err := app.Marquee()
	if err != nil {
		return nil, fmt.Errorf("creating marquee: %w", err)
	}

	defaults := DefaultConfig()
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = defaults.PathPrefix
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaults.CacheTTL
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if cfg.AuthHeader == "" {
		cfg.AuthHeader = defaults.AuthHeader
	}
	if cfg.AuthEnabled && cfg.APIKey == "" {
		return nil, errors.NewConfigError("server", "auth enabled without an API key", nil)
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	broker.Subscribe(wsHub)
	broker.Subscribe(sseBroadcaster)

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		marquee:        mq,
		cache:          cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		logger:         logger,
		config:         cfg,
		ctx:            ctx,
		cancel:         cancel,
		startTime:      time.Now(),
	}
	if cfg.RateLimit > 0 {
		s.rateLimiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
	}

	s.connectHooks()
	logger.Debug().Str("prefix", cfg.PathPrefix).Msg("Server instance created")
	return s, nil
}

// connectHooks publishes marquee events to the broker and drops cached
// query responses when the catalog epoch ends.
func (s *Server) connectHooks() {
	s.marquee.OnMovieAdded(func(res submission.Result) {
		s.broker.Publish(events.NewMovieAdded(res))
		s.logger.Debug().Str("movie_id", res.ID).Msg("Movie added event published")
	})

	s.marquee.OnCatalogInvalidated(func(epoch uint64) {
		s.cache.Clear()
		s.broker.Publish(events.NewCatalogInvalidated(epoch))
		s.logger.Debug().Uint64("epoch", epoch).Msg("Catalog invalidated event published")
	})
}

// Start starts the event broker and the rate limiter janitor. Stopping the
// broker closes every live-update stream.
func (s *Server) Start() {
	s.run(s.broker.Run)
	if s.rateLimiter != nil {
		s.run(func(ctx context.Context) { s.rateLimiter.Run(ctx, 5*time.Minute) })
	}
	s.logger.Debug().Msg("Background services started")
}

func (s *Server) run(fn func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// HTTPServer returns an http.Server bound to Addr with the configured timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// Shutdown stops background services and waits for them until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("Background services shut down")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// Cache returns the response cache.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// Broker returns the event broker for publishing events.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
