// Package server provides the MCP server context, health checks, and the
// HTTP transports for the usaspending-mcp application.
//
// # Key Components
//
// ServerContext carries the dependencies tool handlers share: the
// usaspending.gov gateway client, the optional Nostr publisher, and the
// metrics recorder and audit logger. Everything is injected at construction
// via options; there is no package-level registry and no lazy credential
// loading, so a context is fully usable the moment NewServerContext returns.
//
// HealthChecker serves the Kubernetes probe endpoints:
//   - /healthz: liveness, always 200 while the process runs
//   - /readyz: readiness, 503 until every named check passes
//   - /healthz/detailed: version, uptime, and the full check map
//
// HTTPServer serves the MCP streamable HTTP transport on /mcp next to the
// health endpoints, recording per-request metrics when instrumentation is
// configured.
//
// MetricsServer exposes /metrics for Prometheus scraping on a dedicated
// port, keeping operational metrics off the main application listener.
package server
