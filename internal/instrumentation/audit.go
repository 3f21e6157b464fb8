package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// ToolInvocation is the audit record for one MCP tool call: what was
// invoked, which gateway endpoint it hit, how long it took, and how it
// ended.
//
// Endpoint may hold a raw request path with an embedded award identifier,
// and Arguments holds the raw tool arguments. General logs should go
// through EndpointFamily() and leave Arguments out; only the dedicated
// audit stream gets the full detail.
type ToolInvocation struct {
	Tool string

	Endpoint  string // API request path (spending/, awards/<id>/, ...)
	Operation string // gateway operation (spending_by_agency, award_detail, ...)

	// Arguments is a compact rendering of the tool call arguments.
	Arguments string

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	TraceID string
	SpanID  string
}

// EndpointFamily returns the bounded endpoint label for lower-cardinality logging.
func (ti *ToolInvocation) EndpointFamily() string {
	return EndpointLabel(ti.Endpoint)
}

// Status returns "success" or "error" based on the Success field.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// baseAttrs are the fields every invocation log line carries.
func (ti *ToolInvocation) baseAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}
}

// LogAttrs returns the cardinality-controlled attribute set for operational
// logs: the endpoint collapses to its bounded family and the raw arguments
// are left out entirely. For the full record use LogAuditAttrs.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := ti.baseAttrs()

	if ti.Endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", ti.EndpointFamily()))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}

	return attrs
}

// LogAuditAttrs returns the full attribute set: raw request path, rendered
// arguments, and span ids. Award identifiers, search keywords, and note
// text all end up in here, so route these records to storage with audit
// access controls rather than general dashboards.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := ti.baseAttrs()

	if ti.Endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", ti.Endpoint))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.Arguments != "" {
		attrs = append(attrs, slog.String("arguments", ti.Arguments))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}

	return attrs
}

// NewToolInvocation starts the audit record for a tool call; timing begins
// immediately. Call one of the Complete methods when the call finishes.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithEndpoint sets the usaspending.gov endpoint and gateway operation.
func (ti *ToolInvocation) WithEndpoint(endpoint, operation string) *ToolInvocation {
	ti.Endpoint = endpoint
	ti.Operation = operation
	return ti
}

// WithArguments sets the rendered tool call arguments.
func (ti *ToolInvocation) WithArguments(arguments string) *ToolInvocation {
	ti.Arguments = arguments
	return ti
}

// WithSpanContext copies the trace and span ids from the span in ctx, if
// there is a valid one.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ti.TraceID = span.SpanContext().TraceID().String()
		ti.SpanID = span.SpanContext().SpanID().String()
	}
	return ti
}

// Complete stops the timer and records the outcome. Returns the same
// ToolInvocation for chaining.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteWithError marks the invocation as failed with the given error.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// AuditLogger writes tool invocation records through slog. Whether a record
// carries the full argument detail or only bounded labels is decided here,
// from configuration, not by the callers.
type AuditLogger struct {
	logger           *slog.Logger
	includeArguments bool
	enabled          bool
}

// NewAuditLogger returns an enabled AuditLogger that logs bounded labels
// only. A nil logger falls back to slog.Default().
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:           logger,
		includeArguments: false,
		enabled:          true,
	}
}

// NewAuditLoggerWithConfig returns an AuditLogger configured from config.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:           logger,
		includeArguments: config.IncludeArguments,
		enabled:          config.Enabled,
	}
}

// SetIncludeArguments sets whether to include full request detail in audit logs.
func (al *AuditLogger) SetIncludeArguments(include bool) {
	al.includeArguments = include
}

// SetEnabled sets whether audit logging is enabled.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// attrsToArgs widens slog attributes for the variadic logger calls.
func attrsToArgs(attrs []slog.Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

// LogToolInvocation writes the record, as tool_executed or tool_failed
// depending on outcome. With IncludeArguments configured the full audit
// attribute set is used; otherwise only the bounded one.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if !al.enabled {
		return
	}

	var attrs []slog.Attr
	if al.includeArguments {
		attrs = ti.LogAuditAttrs()
	} else {
		attrs = ti.LogAttrs()
	}

	if ti.Success {
		al.logger.Info("tool_executed", attrsToArgs(attrs)...)
	} else {
		al.logger.Warn("tool_failed", attrsToArgs(attrs)...)
	}
}

// LogToolAudit writes a tool_audit record with the full attribute set,
// regardless of the IncludeArguments configuration. Honors only the
// enabled flag; use LogToolInvocation for configuration-aware logging.
func (al *AuditLogger) LogToolAudit(ti *ToolInvocation) {
	if !al.enabled {
		return
	}

	al.logger.Info("tool_audit", attrsToArgs(ti.LogAuditAttrs())...)
}
