package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/personal-calendar-mcp/internal/config"
	"github.com/teemow/personal-calendar-mcp/internal/instrumentation"
	"github.com/teemow/personal-calendar-mcp/internal/logging"
	"github.com/teemow/personal-calendar-mcp/internal/server"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "3000"

	// defaultReadHeaderTimeout bounds slow clients. There is deliberately no
	// write timeout: a tool call lasts as long as the web app takes.
	defaultReadHeaderTimeout = 10 * time.Second
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// serveOptions are the resolved flags of the serve command.
type serveOptions struct {
	debug    bool
	httpAddr string
	metrics  MetricsConfig
}

func newServeCmd() *cobra.Command {
	var (
		debugMode      bool
		httpAddr       string
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server on streamable HTTP in
stateless mode.

Endpoints:
  GET /health, GET /api/health   Liveness probe, no authentication
  any other path                 MCP streamable HTTP transport

Configuration (read on every request):
  GCAL_WEBAPP_URL       Apps Script web app URL (required for tool calls)
  GCAL_WEBAPP_SECRET    Shared secret sent to the web app (required for tool calls)
  MCP_API_KEY           Bearer key callers must present. Unset means open access.
  DEFAULT_TIMEZONE      Time zone for events without one (default: Europe/London)
  DEFAULT_CALENDAR_ID   Calendar for events without one (default: primary)

Listen address:
  --http-addr, or HOST (default: 0.0.0.0) and PORT (default: 3000)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := serveOptions{
				debug:    debugMode,
				httpAddr: resolveHTTPAddr(httpAddr, cmd.Flags().Changed("http-addr")),
				metrics: loadMetricsEnvVars(cmd, MetricsConfig{
					Enabled: metricsEnabled,
					Addr:    metricsAddr,
				}),
			}
			return runServe(opts)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP server address. Defaults to HOST:PORT from the environment, or 0.0.0.0:3000.")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// resolveHTTPAddr prefers an explicit --http-addr and falls back to HOST and
// PORT.
func resolveHTTPAddr(flagValue string, changed bool) string {
	if changed && flagValue != "" {
		return flagValue
	}
	host := os.Getenv("HOST")
	if host == "" {
		host = defaultHost
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}
	return net.JoinHostPort(host, port)
}

// loadMetricsEnvVars applies METRICS_ENABLED and METRICS_ADDR when the
// corresponding flag was not set explicitly.
func loadMetricsEnvVars(cmd *cobra.Command, config MetricsConfig) MetricsConfig {
	if !cmd.Flags().Changed("metrics-enabled") {
		switch os.Getenv("METRICS_ENABLED") {
		case "true":
			config.Enabled = true
		case "false":
			config.Enabled = false
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			config.Addr = addr
		}
	}
	return config
}

func runServe(opts serveOptions) error {
	logger := logging.Setup(opts.debug)

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	cfg := config.NewEnvProvider()
	warnAboutConfig(logger, cfg.Load())

	audit := instrumentation.NewAuditLogger(logging.WithComponent(logger, "audit"), instrConfig.AuditLogging)

	mcpSrv, _ := newMCPServer(toolDeps{
		config:  cfg,
		metrics: provider.Metrics(),
		audit:   audit,
		logger:  logging.NewSlogAdapter(logger),
	})

	health := server.NewHealthChecker(server.ServiceName)
	dispatcher := server.NewDispatcher(server.DispatcherConfig{
		Config:    cfg,
		Transport: server.NewTransport(mcpSrv),
		Health:    health,
		Metrics:   provider.Metrics(),
		Logger:    logging.NewSlogAdapter(logging.WithComponent(logger, "http")),
	})

	if opts.metrics.Enabled && provider.ServesPrometheus() {
		metricsServer, err := startMetricsServer(logger, opts.metrics.Addr, provider, health)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	return serveHTTP(ctx, logger, opts.httpAddr, dispatcher, health)
}

// warnAboutConfig logs startup warnings for settings that leave the server
// open or unable to reach the web app.
func warnAboutConfig(logger *slog.Logger, cfg config.Config) {
	if !cfg.AuthEnabled() {
		logger.Warn(config.EnvAPIKey + " is not set: the MCP endpoint accepts unauthenticated requests. " +
			"This is insecure unless the server is only reachable from a trusted network.")
	}
	if err := cfg.RequireWebApp(); err != nil {
		logger.Warn("web app is not configured, tool calls will fail until it is", logging.Err(err))
	}
}

func startMetricsServer(logger *slog.Logger, addr string, provider *instrumentation.Provider, health *server.HealthChecker) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
		Health:                  health,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	ln, err := net.Listen("tcp", metricsServer.Addr())
	if err != nil {
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	}

	go func() {
		if err := metricsServer.Serve(ln); err != nil {
			logger.Error("metrics server stopped with error", logging.Err(err))
		}
	}()
	return metricsServer, nil
}

func serveHTTP(ctx context.Context, logger *slog.Logger, addr string, handler http.Handler, health *server.HealthChecker) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}

	logger.Info(fmt.Sprintf("%s listening on http://%s", server.ServiceName, ln.Addr().String()))

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
