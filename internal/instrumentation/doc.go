// Package instrumentation carries the observability stack for the
// usaspending-mcp server: OpenTelemetry metrics and traces, plus the
// slog-based audit trail for tool invocations.
//
// A Provider owns the meter and tracer providers and registers both
// globally. Everything else hangs off it: Metrics records counters and
// latency histograms, the Start*Span helpers open spans against the global
// tracer, and AuditLogger emits one structured record per tool call.
//
// # Metrics
//
// Instruments are grouped by what they measure:
//
//   - http_requests_total / http_request_duration_seconds: the metrics and
//     health endpoints themselves
//   - usaspending_api_requests_total / usaspending_api_request_duration_seconds:
//     upstream exchanges, labeled by endpoint family, operation, and status
//   - nostr_publishes_total / nostr_publish_duration_seconds: relay
//     publishing, labeled by status and accepted relay count
//   - mcp_tool_invocations_total / mcp_tool_duration_seconds: tool calls,
//     labeled by tool name and status
//
// Label values are bounded by construction: request paths pass through
// EndpointLabel before becoming labels, and award ids only appear when
// Config.DetailedLabels is set. Spans and audit records are exempt from the
// bounding and carry raw values.
//
// # Tracing
//
// Spans follow a fixed naming scheme: tool.<name> for tool invocations
// (server kind), usaspending.<operation> for upstream exchanges (client
// kind), and nostr.publish for relay publishing.
//
// # Configuration
//
// DefaultConfig builds a Config from the environment:
//
//   - INSTRUMENTATION_ENABLED (default true)
//   - METRICS_EXPORTER: prometheus, otlp, or stdout (default prometheus)
//   - TRACING_EXPORTER: otlp, stdout, or none (default none)
//   - OTEL_SERVICE_NAME (default usaspending-mcp)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG: sampling ratio 0.0 to 1.0 (default 0.1)
//   - METRICS_DETAILED_LABELS (default false)
//   - AUDIT_LOGGING_ENABLED (default true), AUDIT_LOGGING_INCLUDE_ARGUMENTS
//     (default false)
//
// The stdout exporters write to stderr, keeping stdout free for the stdio
// transport's protocol stream.
//
// # Usage
//
// The serve command builds one Provider at startup and threads it through
// the server context; tool handlers never touch this package directly, the
// wrappers in tools/common do it for them:
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	metrics := provider.Metrics()
//	metrics.RecordUpstreamRequest(ctx, "awards", "award_detail", StatusSuccess, time.Since(start))
package instrumentation
