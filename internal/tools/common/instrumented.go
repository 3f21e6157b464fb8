package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/trace"

	"github.com/flothjl/usaspending-mcp/internal/instrumentation"
	"github.com/flothjl/usaspending-mcp/internal/server"
)

// ToolHandlerFunc is the mcp-go handler signature shared by every tool.
type ToolHandlerFunc = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with metrics and audit logging.
// It records tool invocation metrics and logs the invocation for audit purposes.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandlerFunc) ToolHandlerFunc {
	return instrumented(toolName, "", "", sc, handler)
}

// InstrumentedToolHandlerWithEndpoint is like InstrumentedToolHandler but also
// records the usaspending.gov endpoint and gateway operation for more detailed
// metrics.
//
// This handler records both:
// - MCP tool invocation metrics (mcp_tool_invocations_total, mcp_tool_duration_seconds)
// - Upstream API request metrics (usaspending_api_requests_total, usaspending_api_request_duration_seconds)
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithEndpoint("my_tool", "awards", "award_detail", sc, handler))
func InstrumentedToolHandlerWithEndpoint(toolName, endpoint, operation string, sc *server.ServerContext, handler ToolHandlerFunc) ToolHandlerFunc {
	return instrumented(toolName, endpoint, operation, sc, handler)
}

// instrumented is the shared wrapper body. An empty endpoint means the tool
// makes no upstream call, so no client span and no upstream metric.
func instrumented(toolName, endpoint, operation string, sc *server.ServerContext, handler ToolHandlerFunc) ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		// Nothing configured, skip the bookkeeping entirely.
		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		// Open a tool span so audit records carry real trace context.
		// With tracing disabled this is a no-op span.
		toolAttrs := instrumentation.NewSpanAttributeBuilder()
		if endpoint != "" {
			toolAttrs.WithEndpoint(instrumentation.EndpointLabel(endpoint)).
				WithOperation(operation)
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, toolAttrs.Build()...)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx)
		if endpoint != "" {
			invocation.WithEndpoint(endpoint, operation)
		}

		// Extract request identity from the arguments. Spans take the raw
		// award id and year; only metric labels are cardinality-bounded.
		args := request.GetArguments()
		awardID := GetAwardIDFromArgs(args)
		identity := instrumentation.NewSpanAttributeBuilder().
			WithAwardID(awardID).
			WithYear(GetYearFromArgs(args)).
			Build()
		span.SetAttributes(identity...)
		if rendered := FormatArgs(args); rendered != "" {
			invocation.WithArguments(rendered)
		}

		// Tools wrapped with an endpoint make exactly one gateway call, so
		// a client-kind span around the handler covers the upstream
		// exchange the same way the upstream metric does.
		handlerCtx := ctx
		var upstreamSpan trace.Span
		if endpoint != "" {
			handlerCtx, upstreamSpan = instrumentation.StartUpstreamSpan(ctx,
				instrumentation.EndpointLabel(endpoint), operation, identity...)
		}

		result, err := handler(handlerCtx, request)
		duration := time.Since(start)

		// A handler can fail by returning err or by returning an error
		// result; only a real err carries a message for the spans.
		switch {
		case err != nil:
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
			if upstreamSpan != nil {
				instrumentation.SetSpanError(upstreamSpan, err)
			}
		case result != nil && result.IsError:
			invocation.Complete(false, nil)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
			if upstreamSpan != nil {
				instrumentation.SetSpanSuccess(upstreamSpan)
			}
		}
		if upstreamSpan != nil {
			upstreamSpan.End()
		}

		// An empty award id is dropped by the recorder.
		if metrics != nil {
			metrics.RecordToolInvocationWithAward(ctx, toolName, invocation.Status(), awardID, duration)
			if endpoint != "" {
				metrics.RecordUpstreamRequest(ctx, endpoint, operation, invocation.Status(), duration)
			}
		}

		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}
