// Package serve provides the command that runs the dashboard and REST API.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/marquee/cmd/application"
	"github.com/agentstation/marquee/internal/cmd/cmdutil"
	"github.com/agentstation/marquee/internal/cmd/emoji"
	"github.com/agentstation/marquee/internal/server"
	"github.com/agentstation/marquee/pkg/constants"
)

// NewCommand creates the serve command using app context.
func NewCommand(app application.Application) *cobra.Command {
	def := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "core",
		Short:   "Start the dashboard and REST API",
		Long: `Serve runs the movie dashboard page and its REST API.

Features:
  - Dashboard at / with search, director filter and an add form
  - REST endpoints under the API prefix (default /api/v1)
  - WebSocket (/updates/ws) and Server-Sent Events (/updates/stream) for
    movie.added and catalog.invalidated notifications
  - Response caching, per-IP rate limiting, optional API key auth and CORS
  - Graceful shutdown with connection draining

With --auth the key is read from MARQUEE_API_KEY. The dashboard page stays
public.`,
		Example: `  # Start on default port 8080
  marquee serve

  # Listen on all interfaces with a persistent store
  marquee serve --host 0.0.0.0 --backend sqlite --db movies.db

  # Require an API key for /api routes
  MARQUEE_API_KEY=secret marquee serve --auth`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, app)
		},
	}

	// Server configuration flags
	cmd.Flags().Int("port", def.Port, "Server port")
	cmd.Flags().String("host", def.Host, "Bind address")
	cmd.Flags().String("prefix", def.PathPrefix, "API path prefix")

	// CORS flags
	cmd.Flags().Bool("cors", false, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated)")

	// Authentication flags
	cmd.Flags().Bool("auth", false, "Require an API key for API routes")
	cmd.Flags().String("auth-header", def.AuthHeader, "Authentication header name")

	// Performance flags
	cmd.Flags().Int("rate-limit", def.RateLimit, "Requests per minute per IP (0 to disable)")
	cmd.Flags().Duration("cache-ttl", def.CacheTTL, "Lifetime of cached API responses")

	// Timeout flags
	cmd.Flags().Duration("read-timeout", def.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", def.WriteTimeout, "HTTP write timeout (0 keeps event streams open)")
	cmd.Flags().Duration("idle-timeout", def.IdleTimeout, "HTTP idle timeout")

	return cmd
}

// runServer starts the server and blocks until the command context ends.
func runServer(cmd *cobra.Command, app application.Application) error {
	cfg, err := parseConfig(cmd)
	if err != nil {
		return err
	}
	logger := app.Logger()

	logger.Info().
		Str("addr", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Bool("auth", cfg.AuthEnabled).
		Int("rate_limit", cfg.RateLimit).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Starting server")

	srv, err := server.New(app, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start background services (event broker, WebSocket hub, SSE broadcaster)
	srv.Start()

	return startWithGracefulShutdown(cmd, srv.HTTPServer(), srv, logger)
}

// parseConfig reads command flags into a server configuration.
func parseConfig(cmd *cobra.Command) (server.Config, error) {
	flags := cmd.Flags()
	cfg := server.DefaultConfig()

	cfg.Port = cmdutil.MustGetInt(cmd, "port")
	cfg.Host = cmdutil.MustGetString(cmd, "host")
	cfg.PathPrefix = cmdutil.MustGetString(cmd, "prefix")
	cfg.CORSEnabled = cmdutil.MustGetBool(cmd, "cors")
	cfg.AuthEnabled = cmdutil.MustGetBool(cmd, "auth")
	cfg.AuthHeader = cmdutil.MustGetString(cmd, "auth-header")
	cfg.RateLimit = cmdutil.MustGetInt(cmd, "rate-limit")

	var err error
	if cfg.CORSOrigins, err = flags.GetStringSlice("cors-origins"); err != nil {
		return cfg, err
	}
	if cfg.CacheTTL, err = flags.GetDuration("cache-ttl"); err != nil {
		return cfg, err
	}
	if cfg.ReadTimeout, err = flags.GetDuration("read-timeout"); err != nil {
		return cfg, err
	}
	if cfg.WriteTimeout, err = flags.GetDuration("write-timeout"); err != nil {
		return cfg, err
	}
	if cfg.IdleTimeout, err = flags.GetDuration("idle-timeout"); err != nil {
		return cfg, err
	}

	// Environment overrides unless the flag was given explicitly
	if envPort := os.Getenv("HTTP_PORT"); envPort != "" && !flags.Changed("port") {
		p, err := parsePort(envPort)
		if err != nil {
			return cfg, err
		}
		cfg.Port = p
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" && !flags.Changed("host") {
		cfg.Host = envHost
	}
	cfg.APIKey = os.Getenv("MARQUEE_API_KEY")

	if cfg.Port < 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("port out of range: %d", cfg.Port)
	}
	return cfg, nil
}

// parsePort safely parses a port string to integer.
func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number: %s", portStr)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port out of range: %d", port)
	}
	return port, nil
}

// startWithGracefulShutdown serves until the command context is cancelled,
// then drains connections and stops background services.
func startWithGracefulShutdown(cmd *cobra.Command, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	out := cmd.OutOrStdout()
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		fmt.Fprintf(out, "%s Dashboard at http://%s/\n", emoji.Info, httpServer.Addr)
		fmt.Fprintln(out, "   Press Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return err
	case <-cmd.Context().Done():
		logger.Info().Msg("Shutdown signal received")
		fmt.Fprintf(out, "\n%s Shutting down server...\n", emoji.Stop)

		// The command context is already cancelled
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Background services shutdown had issues")
		}

		logger.Info().Msg("Server stopped gracefully")
		fmt.Fprintf(out, "%s Server stopped gracefully\n", emoji.Success)
		return nil
	}
}
