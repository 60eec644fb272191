package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/partsdesk/internal/handlers"
	"github.com/lehigh-university-libraries/partsdesk/internal/storage"
)

const (
	sessionTTL   = 2 * time.Hour
	sweepEvery   = 10 * time.Minute
	readTimeout  = 15 * time.Second
	writeTimeout = 60 * time.Second
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chat API server",
		Long: `Starts the JSON API on the specified port.

The API exposes the chat endpoint, part search and lookup, compatibility
checks, and per-session carts keyed by the X-Session-ID header.`,
		Example: `  # Start server on the configured port (default 8000)
  partsdesk serve

  # Start server on custom port
  partsdesk serve --port 3001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), root.configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if port == "" {
				port = a.cfg.Server.Port
			}
			handler := handlers.New(a.orchestrator, a.cfg.Server.AllowedOrigin)

			addr := ":" + port
			server := &http.Server{
				Addr:         addr,
				Handler:      handler.Routes(),
				ReadTimeout:  readTimeout,
				WriteTimeout: writeTimeout,
			}

			go expireSessions(cmd.Context(), a.orchestrator.Sessions())

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Partsdesk API available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")

	return cmd
}

// expireSessions drops idle sessions until ctx is done.
func expireSessions(ctx context.Context, sessions *storage.SessionStore) {
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := sessions.Expire(now.Add(-sessionTTL)); n > 0 {
				slog.Info("Expired idle sessions", "count", n, "remaining", sessions.Len())
			}
		}
	}
}
