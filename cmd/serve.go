package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/flothjl/usaspending-mcp/internal/instrumentation"
	"github.com/flothjl/usaspending-mcp/internal/logging"
	"github.com/flothjl/usaspending-mcp/internal/nostr"
	"github.com/flothjl/usaspending-mcp/internal/resources"
	"github.com/flothjl/usaspending-mcp/internal/server"
	"github.com/flothjl/usaspending-mcp/internal/tools/nostr_tools"
	"github.com/flothjl/usaspending-mcp/internal/tools/spending_tools"
	"github.com/flothjl/usaspending-mcp/internal/usaspending"
)

// Transport names accepted by --transport.
const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

// GatewayConfig holds settings for the upstream usaspending.gov client
type GatewayConfig struct {
	// BaseURL overrides the upstream API root (default: the public API)
	BaseURL string

	// Timeout bounds each upstream request
	Timeout time.Duration

	// QuietAwardErrors reports failed award detail lookups as absent records
	// instead of tool errors
	QuietAwardErrors bool
}

// NostrConfig holds settings for the optional Nostr note publisher
type NostrConfig struct {
	// Enabled registers the PublishNote tool
	Enabled bool

	// Relays overrides the default relay list
	Relays []string
}

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		debugMode        bool
		transport        string
		httpAddr         string
		disableStreaming bool
		// Upstream gateway settings
		baseURL          string
		upstreamTimeout  time.Duration
		quietAwardErrors bool
		// Nostr publishing settings
		enableNostr bool
		nostrRelays string
		// Metrics server configuration
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server that exposes usaspending.gov
federal spending data as tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Tools:
  GetSpendingAwardsByAgencyId  Award spending for an agency and fiscal year
  GetAwardInfoByAwardId        Details for a single award
  SearchByKeywords             Keyword search over spending awards
  GetAgencies                  Toptier agency ids and codes
  PublishNote                  Publish a note to Nostr relays (--enable-nostr)

The server needs no credentials: the usaspending.gov API is public. With the
streamable-http transport, health endpoints are served on /healthz and /readyz
and Prometheus metrics on a dedicated port (see --metrics-addr).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gatewayConfig := GatewayConfig{
				BaseURL:          baseURL,
				Timeout:          upstreamTimeout,
				QuietAwardErrors: quietAwardErrors,
			}
			nostrConfig := NostrConfig{
				Enabled: enableNostr,
				Relays:  parseCommaSeparatedList(nostrRelays),
			}
			metricsConfig := MetricsConfig{
				Enabled: metricsEnabled,
				Addr:    metricsAddr,
			}

			// Environment variables fill in whatever the flags left alone.
			loadServeEnvVars(cmd, &transport, &gatewayConfig, &nostrConfig, &metricsConfig)

			return runServe(transport, debugMode, httpAddr, disableStreaming, gatewayConfig, nostrConfig, metricsConfig)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio or streamable-http. Can also use USASPENDING_MCP_TRANSPORT env var.")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&disableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")

	// Upstream gateway flags
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Override the upstream usaspending.gov API base URL. Can also use USASPENDING_MCP_BASE_URL env var. Default: "+usaspending.DefaultBaseURL)
	cmd.Flags().DurationVar(&upstreamTimeout, "upstream-timeout", usaspending.DefaultTimeout, "Timeout for each upstream API request")
	cmd.Flags().BoolVar(&quietAwardErrors, "quiet-award-errors", false, "Report failed award detail lookups as absent records instead of tool errors. Can also use USASPENDING_MCP_QUIET_AWARD_ERRORS env var.")

	// Nostr publishing flags
	cmd.Flags().BoolVar(&enableNostr, "enable-nostr", false, "Register the PublishNote tool for publishing notes to Nostr relays. Can also use USASPENDING_MCP_ENABLE_NOSTR env var.")
	cmd.Flags().StringVar(&nostrRelays, "nostr-relays", "", "Comma-separated list of Nostr relay URLs (default: "+strings.Join(nostr.DefaultRelays, ",")+"). Can also use USASPENDING_MCP_NOSTR_RELAYS env var.")

	// Metrics server flags
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(transport string, debugMode bool, httpAddr string, disableStreaming bool, gatewayConfig GatewayConfig, nostrConfig NostrConfig, metricsConfig MetricsConfig) error {
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	setupLogging(debugMode)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		// The signal context is already canceled by the time this runs, so
		// give the exporters their own deadline to flush.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			slog.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// The metrics listener would fight with the protocol stream for process
	// lifetime in stdio mode, so it only runs for the HTTP transport.
	var metricsServer *server.MetricsServer
	if transport != transportStdio && metricsConfig.Enabled && provider.Enabled() {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsConfig.Addr,
			MetricsPath:             instrConfig.PrometheusEndpoint,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			slog.Info("metrics server started", "addr", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	// The upstream gateway client. The usaspending.gov API is public, so no
	// credentials are involved.
	spendingClient := usaspending.NewWithConfig(usaspending.Config{
		BaseURL:          gatewayConfig.BaseURL,
		Timeout:          gatewayConfig.Timeout,
		QuietAwardErrors: gatewayConfig.QuietAwardErrors,
	})

	opts := []server.Option{
		server.WithSpendingClient(spendingClient),
		server.WithVersion(version),
	}
	if nostrConfig.Enabled {
		publisher, err := nostr.NewWithConfig(nostr.Config{
			Relays: nostrConfig.Relays,
		})
		if err != nil {
			return fmt.Errorf("failed to create Nostr publisher: %w", err)
		}
		opts = append(opts, server.WithNostrPublisher(publisher))
	}

	serverContext, err := server.NewServerContext(shutdownCtx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}

	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}
	defer func() {
		if metricsServer != nil {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(stopCtx); err != nil {
				slog.Error("metrics server shutdown failed", logging.Err(err))
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			slog.Error("server context shutdown failed", logging.Err(err))
		}
	}()

	// mcp.Implementation has a Title field, but mcp-go v0.43 has no
	// WithTitle server option yet.
	mcpSrv := mcpserver.NewMCPServer("usaspending", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)

	if gatewayConfig.QuietAwardErrors {
		slog.Info("quiet award errors enabled: failed award lookups are reported as absent records")
	}

	if err := registerAllTools(mcpSrv, serverContext, nostrConfig.Enabled); err != nil {
		return err
	}

	slog.Info("starting MCP server", logging.KeyTransport, transport)
	switch transport {
	case transportStdio:
		return runStdioServer(mcpSrv)
	case transportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, httpAddr, disableStreaming, provider)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)", transport, transportStdio, transportStreamableHTTP)
	}
}

// setupLogging installs the process-wide slog logger. Logs always go to
// stderr so the stdio transport keeps stdout free for protocol frames.
func setupLogging(debugMode bool) {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// runStdioServer blocks until stdin closes or the protocol loop fails.
func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools and resources. The Nostr tool
// group is only registered when Nostr publishing is enabled.
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, nostrEnabled bool) error {
	if err := spending_tools.RegisterSpendingTools(mcpSrv, ctx); err != nil {
		return fmt.Errorf("failed to register spending tools: %w", err)
	}
	if err := resources.RegisterAPIResources(mcpSrv, ctx); err != nil {
		return fmt.Errorf("failed to register API resources: %w", err)
	}
	if nostrEnabled {
		if err := nostr_tools.RegisterNostrTools(mcpSrv, ctx); err != nil {
			return fmt.Errorf("failed to register Nostr tools: %w", err)
		}
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, addr string, disableStreaming bool, instrProvider *instrumentation.Provider) error {
	httpServer := server.NewHTTPServer(mcpSrv, disableStreaming)

	healthChecker := server.NewHealthChecker(serverContext)
	httpServer.SetHealthChecker(healthChecker)

	if instrProvider != nil && instrProvider.Enabled() {
		httpServer.SetMetrics(instrProvider.Metrics())
	}

	slog.Info("streamable HTTP server starting",
		"addr", addr,
		"mcp_endpoint", "/mcp",
		"health_endpoints", "/healthz,/readyz")

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping HTTP server")
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(stopCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	slog.Info("HTTP server stopped")
	return nil
}

// loadServeEnvVars fills configuration from environment variables. An
// environment variable never overrides a flag the user set explicitly.
// Boolean variables accept anything strconv.ParseBool does.
func loadServeEnvVars(cmd *cobra.Command, transport *string, gateway *GatewayConfig, nostrCfg *NostrConfig, metricsCfg *MetricsConfig) {
	setString := func(flag, env string, dst *string) {
		if !cmd.Flags().Changed(flag) {
			if v := os.Getenv(env); v != "" {
				*dst = v
			}
		}
	}
	setBool := func(flag, env string, dst *bool) {
		if !cmd.Flags().Changed(flag) {
			if v := os.Getenv(env); v != "" {
				if b, err := strconv.ParseBool(v); err == nil {
					*dst = b
				}
			}
		}
	}

	setString("transport", "USASPENDING_MCP_TRANSPORT", transport)
	setString("base-url", "USASPENDING_MCP_BASE_URL", &gateway.BaseURL)
	setBool("quiet-award-errors", "USASPENDING_MCP_QUIET_AWARD_ERRORS", &gateway.QuietAwardErrors)
	setBool("enable-nostr", "USASPENDING_MCP_ENABLE_NOSTR", &nostrCfg.Enabled)
	setBool("metrics-enabled", "METRICS_ENABLED", &metricsCfg.Enabled)
	setString("metrics-addr", "METRICS_ADDR", &metricsCfg.Addr)

	if len(nostrCfg.Relays) == 0 {
		if relays := os.Getenv("USASPENDING_MCP_NOSTR_RELAYS"); relays != "" {
			nostrCfg.Relays = parseCommaSeparatedList(relays)
		}
	}
}

// parseCommaSeparatedList parses a comma-separated string into a slice,
// trimming whitespace from each element and filtering out empty strings.
// Returns nil if the input is empty or contains only whitespace/commas.
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
