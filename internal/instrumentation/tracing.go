package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies this module's tracer against the global provider.
const TracerName = "github.com/flothjl/usaspending-mcp"

// Span attribute keys. The mcp.* keys describe the tool invocation, the
// usaspending.* keys describe the upstream exchange behind it, and the
// nostr.* keys describe relay publishing.
const (
	// SpanAttrTool is the MCP tool name attribute.
	SpanAttrTool = "mcp.tool"

	// SpanAttrStatus is the operation status attribute.
	SpanAttrStatus = "mcp.status"

	// SpanAttrEndpoint is the usaspending.gov API endpoint attribute.
	SpanAttrEndpoint = "usaspending.endpoint"

	// SpanAttrOperation is the gateway operation attribute.
	SpanAttrOperation = "usaspending.operation"

	// SpanAttrAwardID is the generated unique award identifier attribute.
	SpanAttrAwardID = "usaspending.award_id"

	// SpanAttrYear is the year scoping a spending query. Agency spending
	// queries use fiscal years, keyword search uses calendar years.
	SpanAttrYear = "usaspending.year"

	// SpanAttrRelay is a single Nostr relay URL attribute.
	SpanAttrRelay = "nostr.relay"

	// SpanAttrRelayCount is the number of Nostr relays that accepted an event.
	SpanAttrRelayCount = "nostr.relays"
)

// tracer fetches the module tracer from the global provider. With tracing
// disabled the global provider hands out no-op spans, so callers never need
// to guard their span calls.
func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(TracerName)
}

// StartSpan starts a span with the given name and attributes. The caller
// ends the span with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartToolSpan starts the server-kind span for one MCP tool invocation,
// named "tool.<toolName>" and tagged with the tool name.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer().Start(ctx, "tool."+toolName,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String(SpanAttrTool, toolName)),
		trace.WithAttributes(attrs...),
	)
}

// StartUpstreamSpan starts the client-kind span for one usaspending.gov
// exchange, named "usaspending.<operation>". The endpoint should already be
// reduced through EndpointLabel so the span matches the upstream metric.
func StartUpstreamSpan(ctx context.Context, endpoint, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer().Start(ctx, "usaspending."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(SpanAttrEndpoint, endpoint),
			attribute.String(SpanAttrOperation, operation),
		),
		trace.WithAttributes(attrs...),
	)
}

// SetSpanError records err on the span and marks the span status as error.
// A nil err leaves the span untouched.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess marks the span status as OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// AddSpanEvent adds a named event to the span with optional attributes.
func AddSpanEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SpanAttributeBuilder collects span attributes under the SpanAttr* keys.
// String setters drop empty values instead of recording empty attributes,
// so optional fields like the award id can be passed through unconditionally.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates an empty SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 10),
	}
}

func (b *SpanAttributeBuilder) put(key, value string) *SpanAttributeBuilder {
	if value != "" {
		b.attrs = append(b.attrs, attribute.String(key, value))
	}
	return b
}

// WithTool adds the MCP tool name attribute.
func (b *SpanAttributeBuilder) WithTool(tool string) *SpanAttributeBuilder {
	return b.put(SpanAttrTool, tool)
}

// WithEndpoint adds the usaspending.gov API endpoint attribute.
func (b *SpanAttributeBuilder) WithEndpoint(endpoint string) *SpanAttributeBuilder {
	return b.put(SpanAttrEndpoint, endpoint)
}

// WithOperation adds the gateway operation attribute.
func (b *SpanAttributeBuilder) WithOperation(operation string) *SpanAttributeBuilder {
	return b.put(SpanAttrOperation, operation)
}

// WithAwardID adds the award identifier attribute.
func (b *SpanAttributeBuilder) WithAwardID(awardID string) *SpanAttributeBuilder {
	return b.put(SpanAttrAwardID, awardID)
}

// WithYear adds the query year attribute.
func (b *SpanAttributeBuilder) WithYear(year string) *SpanAttributeBuilder {
	return b.put(SpanAttrYear, year)
}

// WithRelayCount adds the accepted relay count attribute.
func (b *SpanAttributeBuilder) WithRelayCount(count int) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Int(SpanAttrRelayCount, count))
	return b
}

// Build returns the collected attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// liveSpanContext extracts the span context from ctx, reporting whether a
// real (recording or propagated) span is present.
func liveSpanContext(ctx context.Context) (trace.SpanContext, bool) {
	sc := trace.SpanFromContext(ctx).SpanContext()
	return sc, sc.IsValid()
}

// GetTraceID returns the trace ID from the span in ctx, or the empty string
// when there is none. Audit records use this instead of the raw span context
// so the zero-value trace id never appears in logs.
func GetTraceID(ctx context.Context) string {
	if sc, ok := liveSpanContext(ctx); ok {
		return sc.TraceID().String()
	}
	return ""
}

// GetSpanID returns the span ID from the span in ctx, or the empty string
// when there is none.
func GetSpanID(ctx context.Context) string {
	if sc, ok := liveSpanContext(ctx); ok {
		return sc.SpanID().String()
	}
	return ""
}

// SpanContextString renders the span context in ctx as
// "trace_id=X span_id=Y", or the empty string when there is none.
func SpanContextString(ctx context.Context) string {
	sc, ok := liveSpanContext(ctx)
	if !ok {
		return ""
	}
	return "trace_id=" + sc.TraceID().String() + " span_id=" + sc.SpanID().String()
}
