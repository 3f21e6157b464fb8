package server

import (
	"context"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/flothjl/usaspending-mcp/internal/instrumentation"
)

// HTTPServer serves the MCP streamable HTTP transport on /mcp alongside the
// health endpoints. The server is unauthenticated; the upstream API it
// proxies is public.
type HTTPServer struct {
	mcpServer        *mcpserver.MCPServer
	httpServer       *http.Server
	healthChecker    *HealthChecker
	metrics          *instrumentation.Metrics
	disableStreaming bool
}

// NewHTTPServer creates a new HTTP server for the given MCP server.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, disableStreaming bool) *HTTPServer {
	return &HTTPServer{
		mcpServer:        mcpServer,
		disableStreaming: disableStreaming,
	}
}

// SetHealthChecker wires the health endpoints into the server mux.
func (s *HTTPServer) SetHealthChecker(h *HealthChecker) {
	s.healthChecker = h
}

// SetMetrics enables per-request metrics recording.
func (s *HTTPServer) SetMetrics(metrics *instrumentation.Metrics) {
	s.metrics = metrics
}

// handler builds the full request handler: the MCP endpoint, the health
// endpoints, and the metrics middleware around all of them.
func (s *HTTPServer) handler() http.Handler {
	mux := http.NewServeMux()

	streamOpts := []mcpserver.StreamableHTTPOption{mcpserver.WithEndpointPath("/mcp")}
	if s.disableStreaming {
		streamOpts = append(streamOpts, mcpserver.WithDisableStreaming(true))
	}
	mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(s.mcpServer, streamOpts...))

	if s.healthChecker != nil {
		s.healthChecker.RegisterHealthEndpoints(mux)
	}

	return s.withRequestMetrics(mux)
}

// Start starts the HTTP server. The call blocks until the server stops.
func (s *HTTPServer) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// withRequestMetrics records method, route, status code, and duration for
// every request when metrics are configured.
func (s *HTTPServer) withRequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.metrics.RecordHTTPRequest(r.Context(), r.Method, routeLabel(r.URL.Path),
			recorder.status, time.Since(start))
	})
}

// routeLabel collapses a request path to a bounded label value. Arbitrary
// request paths must not become metric label values.
func routeLabel(path string) string {
	switch path {
	case "/mcp", "/healthz", "/readyz", "/healthz/detailed":
		return path
	default:
		return "other"
	}
}

// statusRecorder captures the status code written to the wrapped
// ResponseWriter.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush passes through so streaming responses keep working behind the
// recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
