package server

import (
	"net/http"

	"github.com/agentstation/marquee/internal/server/handlers"
	"github.com/agentstation/marquee/internal/server/middleware"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(handlers.Deps{
		Marquee:      s.marquee,
		Cache:        s.cache,
		Broker:       s.broker,
		WSHub:        s.wsHub,
		SSE:          s.sseBroadcaster,
		Logger:       s.logger,
		StartTime:    s.startTime,
		APIPrefix:    s.config.PathPrefix,
		MaxBodyBytes: s.config.MaxBodyBytes,
	})

	s.registerRoutes(mux, h)
	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Dashboard page
	mux.HandleFunc("GET /{$}", h.HandleDashboard)
	mux.HandleFunc("POST /{$}", h.HandleDashboardSubmit)

	// Health
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/ready", h.HandleReady)

	// Movies
	mux.HandleFunc("GET "+prefix+"/movies", h.HandleListMovies)
	mux.HandleFunc("POST "+prefix+"/movies", h.HandleCreateMovie)
	mux.HandleFunc("GET "+prefix+"/directors", h.HandleDirectors)

	// Catalog
	mux.HandleFunc("POST "+prefix+"/catalog/invalidate", h.HandleInvalidate)
	mux.HandleFunc("GET "+prefix+"/diagnostics", h.HandleDiagnostics)
	mux.HandleFunc("GET "+prefix+"/stats", h.HandleStats)

	// Live updates
	mux.HandleFunc("GET "+prefix+"/updates/ws", h.HandleWebSocket)
	mux.HandleFunc("GET "+prefix+"/updates/stream", h.HandleSSE)
}

// applyMiddleware wraps handler with the middleware chain. Recovery is
// outermost, then logging, CORS, auth and rate limiting.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config
	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	}

	if cfg.CORSEnabled {
		chain = append(chain, middleware.CORS(cfg.CORSOrigins, cfg.AuthHeader))
	}

	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		authConfig.APIKey = cfg.APIKey
		authConfig.HeaderName = cfg.AuthHeader
		authConfig.ProtectedPrefix = cfg.PathPrefix + "/"
		authConfig.PublicPaths = []string{cfg.PathPrefix + "/health", cfg.PathPrefix + "/ready"}
		chain = append(chain, middleware.Auth(authConfig, s.logger))
	}

	if s.rateLimiter != nil {
		chain = append(chain, middleware.RateLimit(s.rateLimiter))
	}

	return middleware.Chain(chain...)(handler)
}
