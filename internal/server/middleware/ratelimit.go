package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/agentstation/marquee/internal/server/response"
)

// RateLimiter allows each client IP limit requests per fixed window. A
// window opens on the first request and its counter expires with it.
type RateLimiter struct {
	windows  *cache.Cache
	limit    int
	interval time.Duration
	logger   *zerolog.Logger
}

// NewRateLimiter allows limit requests per minute per IP.
func NewRateLimiter(limit int, logger *zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		windows:  cache.New(cache.NoExpiration, 0),
		limit:    limit,
		interval: time.Minute,
		logger:   logger,
	}
}

// Run drops expired windows every period until ctx is canceled.
func (rl *RateLimiter) Run(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.windows.DeleteExpired()
		}
	}
}

// allow counts a request from ip against its current window.
func (rl *RateLimiter) allow(ip string) bool {
	n, err := rl.windows.IncrementInt(ip, 1)
	if err != nil {
		// no open window; a concurrent Add may win, then count again
		if rl.windows.Add(ip, 1, rl.interval) == nil {
			return rl.limit > 0
		}
		if n, err = rl.windows.IncrementInt(ip, 1); err != nil {
			return false
		}
	}
	return n <= rl.limit
}

// RateLimit rejects requests over the client's budget with 429.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !rl.allow(ip) {
				rl.logger.Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("Rate limit exceeded")
				response.RateLimited(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the first X-Forwarded-For entry, or the host part of
// the remote address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
