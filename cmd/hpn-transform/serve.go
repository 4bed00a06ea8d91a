package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hpn/hpn-transform/internal/handler"
	"github.com/hpn/hpn-transform/internal/ui"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve transformations over a local HTTP API",
		Long: `Start a local HTTP server exposing:

  POST /v1/transform   {"prompt", "context", "provider", "model"}
  GET  /v1/models      model listings (?provider= for one)
  GET  /health         health check
  GET  /metrics        Prometheus metrics`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context(), host, port)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Bind address (default from config, 127.0.0.1)")
	cmd.Flags().IntVar(&port, "port", -1, "Port to listen on (default from config, 8787; 0 picks a free port)")
	return cmd
}

// runServe blocks until ctx is cancelled, then shuts the server down gracefully.
func (a *app) runServe(ctx context.Context, host string, port int) error {
	s, err := a.setup(false, "json")
	if err != nil {
		return err
	}

	if host == "" {
		host = s.cfg.Server.Host
	}
	if port < 0 {
		port = s.cfg.Server.Port
	}

	if s.cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	settings := s.cfg.Settings()
	h := handler.NewTransformHandler(s.orch, settings, handler.WithLogger(s.logger))
	router := handler.NewRouter(h, s.logger, s.metrics)

	ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	console := ui.NewConsole(a.stdout, a.stderr)
	ui.PrintBanner(a.stderr, version, commit)
	console.StartupInfo(ln.Addr().String(), settings.Credentials.Available())
	if !settings.Credentials.Any() {
		console.Warn("no API keys configured; /v1/transform will answer 412")
	}

	s.logger.Info("server starting", slog.String("address", ln.Addr().String()))

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	console.Shutdown()
	s.logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.logger.Info("server stopped gracefully")
	console.Goodbye()
	return nil
}
