package middleware

import (
	"crypto/subtle"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/marquee/internal/server/response"
)

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled    bool
	APIKey     string
	HeaderName string

	// ProtectedPrefix limits authentication to paths under it. The
	// dashboard page lives outside it and stays public.
	ProtectedPrefix string
	PublicPaths     []string
}

// DefaultAuthConfig returns default authentication configuration.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		HeaderName:      "X-API-Key",
		ProtectedPrefix: "/api/",
		PublicPaths:     []string{"/api/v1/health", "/api/v1/ready"},
	}
}

// Auth middleware validates API keys for protected endpoints.
func Auth(config AuthConfig, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled || !isProtected(r.URL.Path, config) {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := extractAPIKey(r, config)
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(config.APIKey)) != 1 {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Bool("key_provided", apiKey != "").
					Msg("Authentication failed")

				response.Unauthorized(w, config.HeaderName)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isProtected reports whether a path requires an API key.
func isProtected(path string, config AuthConfig) bool {
	if slices.Contains(config.PublicPaths, path) {
		return false
	}
	return config.ProtectedPrefix == "" || strings.HasPrefix(path, config.ProtectedPrefix)
}

// extractAPIKey extracts the API key from the request.
func extractAPIKey(r *http.Request, config AuthConfig) string {
	if apiKey := r.Header.Get(config.HeaderName); apiKey != "" {
		return apiKey
	}

	// Support both "Bearer <key>" and a raw key.
	if auth := r.Header.Get("Authorization"); auth != "" {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	return ""
}
