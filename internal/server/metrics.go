package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flothjl/usaspending-mcp/internal/instrumentation"
)

// DefaultMetricsAddr is the address the metrics listener binds to when the
// config leaves it empty.
const DefaultMetricsAddr = ":9090"

// Scrapes are small and local, so the listener gets tight request timeouts
// and a longer idle window for keep-alive between scrape intervals.
const (
	metricsReadHeaderTimeout = 10 * time.Second
	metricsWriteTimeout      = 10 * time.Second
	metricsIdleTimeout       = 60 * time.Second
)

// MetricsServerConfig holds configuration for the metrics server.
type MetricsServerConfig struct {
	// Addr is the address to bind the metrics server to (e.g., ":9090").
	Addr string

	// MetricsPath is the scrape endpoint path (default: "/metrics").
	MetricsPath string

	// Enabled determines whether the metrics server should be started.
	Enabled bool

	// InstrumentationProvider supplies the exporter feeding the Prometheus
	// registry the scrape endpoint serves.
	InstrumentationProvider *instrumentation.Provider
}

// MetricsServer serves the Prometheus scrape endpoint on its own listener,
// separate from the MCP transport.
type MetricsServer struct {
	httpServer  *http.Server
	addr        string
	metricsPath string
}

// NewMetricsServer validates the config and returns a server ready to
// Start. The provider must exist and be enabled, otherwise the scrape
// endpoint would serve an empty registry.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	if config.InstrumentationProvider == nil {
		return nil, fmt.Errorf("instrumentation provider is required for metrics server")
	}
	if !config.InstrumentationProvider.Enabled() {
		return nil, fmt.Errorf("instrumentation provider is not enabled")
	}

	addr := config.Addr
	if addr == "" {
		addr = DefaultMetricsAddr
	}
	metricsPath := config.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	return &MetricsServer{addr: addr, metricsPath: metricsPath}, nil
}

// Start runs the server until it is shut down or the listener fails. It
// blocks, so run it in a goroutine when the caller has other work.
func (s *MetricsServer) Start() error {
	return s.StartWithReadySignal(nil)
}

// StartWithReadySignal starts the metrics server and closes ready once the
// listener is accepting connections. A nil channel skips the signal. The
// call blocks until the server stops.
func (s *MetricsServer) StartWithReadySignal(ready chan struct{}) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: metricsReadHeaderTimeout,
		WriteTimeout:      metricsWriteTimeout,
		IdleTimeout:       metricsIdleTimeout,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	// With a ":0" address the bound port is only known now.
	s.addr = listener.Addr().String()

	slog.Info("starting metrics server", "addr", s.addr)
	if ready != nil {
		close(ready)
	}
	return s.httpServer.Serve(listener)
}

func (s *MetricsServer) handler() http.Handler {
	mux := http.NewServeMux()

	// The OpenTelemetry prometheus exporter feeds the default registry,
	// which promhttp.Handler serves.
	mux.Handle(s.metricsPath, promhttp.Handler())

	// Liveness for the metrics listener itself.
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}

// Shutdown gracefully shuts down the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		slog.Info("shutting down metrics server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured address, or the bound address once the
// server has signaled readiness.
func (s *MetricsServer) Addr() string {
	return s.addr
}
