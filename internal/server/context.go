package server

import (
	"context"
	"sync"

	"github.com/flothjl/usaspending-mcp/internal/instrumentation"
	"github.com/flothjl/usaspending-mcp/internal/nostr"
	"github.com/flothjl/usaspending-mcp/internal/usaspending"
)

// ServerContext holds the shared dependencies for the MCP server: the
// usaspending.gov gateway client, the optional Nostr publisher, and the
// instrumentation hooks tool handlers record through.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	spending    *usaspending.Client
	publisher   *nostr.Publisher
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	version     string
	mu          sync.RWMutex
	shutdown    bool
}

// Option configures a ServerContext during construction.
type Option func(*ServerContext)

// WithSpendingClient sets the usaspending.gov gateway client.
func WithSpendingClient(client *usaspending.Client) Option {
	return func(sc *ServerContext) {
		sc.spending = client
	}
}

// WithNostrPublisher sets the Nostr publisher. Without this option note
// publication stays disabled and Nostr() returns nil.
func WithNostrPublisher(publisher *nostr.Publisher) Option {
	return func(sc *ServerContext) {
		sc.publisher = publisher
	}
}

// WithVersion records the server version reported by resources and the
// detailed health endpoint.
func WithVersion(version string) Option {
	return func(sc *ServerContext) {
		sc.version = version
	}
}

// NewServerContext creates a new server context. Dependencies arrive through
// options; when no option supplies a gateway client, one is built here with
// defaults. Nothing is resolved through package-level state.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:     shutdownCtx,
		cancel:  cancel,
		version: "dev",
	}
	for _, opt := range opts {
		opt(sc)
	}

	if sc.spending == nil {
		sc.spending = usaspending.New()
	}

	return sc, nil
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Spending returns the usaspending.gov gateway client.
func (sc *ServerContext) Spending() *usaspending.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.spending
}

// SetSpendingClient replaces the gateway client. Tests use this to inject a
// client backed by a stubbed transport.
func (sc *ServerContext) SetSpendingClient(client *usaspending.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.spending = client
}

// Nostr returns the Nostr publisher, or nil when note publication is
// disabled.
func (sc *ServerContext) Nostr() *nostr.Publisher {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.publisher
}

// SetNostrPublisher sets the Nostr publisher.
func (sc *ServerContext) SetNostrPublisher(publisher *nostr.Publisher) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.publisher = publisher
}

// Version returns the server version.
func (sc *ServerContext) Version() string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.version
}

// Metrics returns the metrics recorder, or nil when instrumentation is not
// configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder used by instrumented tool handlers.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// AuditLogger returns the audit logger, or nil when audit logging is not
// configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger used by instrumented tool handlers.
func (sc *ServerContext) SetAuditLogger(logger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = logger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
