package server

import (
	"time"

	"github.com/agentstation/marquee/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix   string
	MaxBodyBytes int64

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Authentication settings. The dashboard page is always public.
	AuthEnabled bool
	AuthHeader  string
	APIKey      string

	// Performance settings
	RateLimit int           // Requests per minute per IP (0 to disable)
	CacheTTL  time.Duration // Lifetime of cached query responses

	// HTTP timeouts. A non-zero WriteTimeout also ends event streams.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         8080,
		PathPrefix:   "/api/v1",
		MaxBodyBytes: constants.MaxRequestBody,
		AuthHeader:   "X-API-Key",
		RateLimit:    100,
		CacheTTL:     5 * time.Minute,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
