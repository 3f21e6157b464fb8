package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys shared across instruments.
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrEndpoint  = "endpoint"
	attrTool      = "tool"
	attrAwardID   = "award_id"
	attrRelays    = "relays_accepted"
)

// Histogram bucket boundaries in seconds.
var (
	// localBuckets suit in-process work such as the metrics endpoints.
	localBuckets = []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0}

	// remoteBuckets stretch to 30s, matching the gateway's default
	// upstream timeout. Relay publishing uses the same range.
	remoteBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
)

// Metrics records the module's counters and latency histograms. The zero
// value is a usable no-op, which is what a disabled provider hands out.
type Metrics struct {
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	upstreamRequestsTotal   metric.Int64Counter
	upstreamRequestDuration metric.Float64Histogram

	nostrPublishesTotal  metric.Int64Counter
	nostrPublishDuration metric.Float64Histogram

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels admits high-cardinality labels such as the award id.
	detailedLabels bool
}

func newCounter(meter metric.Meter, name, description, unit string) (metric.Int64Counter, error) {
	c, err := meter.Int64Counter(name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return c, nil
}

func newHistogram(meter metric.Meter, name, description string, buckets []float64) (metric.Float64Histogram, error) {
	h, err := meter.Float64Histogram(name,
		metric.WithDescription(description),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(buckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return h, nil
}

// NewMetrics registers every instrument on the given meter. detailedLabels
// controls whether award ids become metric labels; see RecordToolInvocationWithAward.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error
	if m.httpRequestsTotal, err = newCounter(meter,
		"http_requests_total", "Total number of HTTP requests", "{request}"); err != nil {
		return nil, err
	}
	if m.httpRequestDuration, err = newHistogram(meter,
		"http_request_duration_seconds", "HTTP request duration in seconds", localBuckets); err != nil {
		return nil, err
	}

	if m.upstreamRequestsTotal, err = newCounter(meter,
		"usaspending_api_requests_total", "Total number of requests sent to the usaspending.gov API", "{request}"); err != nil {
		return nil, err
	}
	if m.upstreamRequestDuration, err = newHistogram(meter,
		"usaspending_api_request_duration_seconds", "usaspending.gov API request duration in seconds", remoteBuckets); err != nil {
		return nil, err
	}

	if m.nostrPublishesTotal, err = newCounter(meter,
		"nostr_publishes_total", "Total number of Nostr note publish attempts", "{publish}"); err != nil {
		return nil, err
	}
	if m.nostrPublishDuration, err = newHistogram(meter,
		"nostr_publish_duration_seconds", "Nostr note publish duration in seconds", remoteBuckets); err != nil {
		return nil, err
	}

	if m.toolInvocationsTotal, err = newCounter(meter,
		"mcp_tool_invocations_total", "Total number of MCP tool invocations", "{invocation}"); err != nil {
		return nil, err
	}
	if m.toolDuration, err = newHistogram(meter,
		"mcp_tool_duration_seconds", "MCP tool execution duration in seconds", remoteBuckets); err != nil {
		return nil, err
	}

	return m, nil
}

// record bumps a counter and its paired histogram. Nil instruments mean the
// provider is disabled, so the call quietly drops the sample.
func record(ctx context.Context, total metric.Int64Counter, duration metric.Float64Histogram, elapsed time.Duration, attrs ...attribute.KeyValue) {
	if total == nil || duration == nil {
		return
	}
	opt := metric.WithAttributes(attrs...)
	total.Add(ctx, 1, opt)
	duration.Record(ctx, elapsed.Seconds(), opt)
}

// RecordHTTPRequest records one served HTTP request.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	record(ctx, m.httpRequestsTotal, m.httpRequestDuration, duration,
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)
}

// RecordUpstreamRequest records one usaspending.gov API exchange. The
// endpoint may be a raw request path; it is reduced to a bounded label via
// EndpointLabel before recording, so award ids never leak into the endpoint
// label.
func (m *Metrics) RecordUpstreamRequest(ctx context.Context, endpoint, operation, status string, duration time.Duration) {
	record(ctx, m.upstreamRequestsTotal, m.upstreamRequestDuration, duration,
		attribute.String(attrEndpoint, EndpointLabel(endpoint)),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
}

// RecordNostrPublish records one Nostr publish attempt along with the number
// of relays that accepted the event.
func (m *Metrics) RecordNostrPublish(ctx context.Context, status string, relaysAccepted int, duration time.Duration) {
	record(ctx, m.nostrPublishesTotal, m.nostrPublishDuration, duration,
		attribute.String(attrStatus, status),
		attribute.Int(attrRelays, relaysAccepted),
	)
}

// RecordToolInvocation records one MCP tool invocation labeled by tool name
// and status.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	m.RecordToolInvocationWithAward(ctx, toolName, status, "", duration)
}

// RecordToolInvocationWithAward is RecordToolInvocation plus the award id
// label. The label is only attached when detailed labels are enabled, since
// each distinct award id becomes its own time series. An empty awardID is
// never attached.
func (m *Metrics) RecordToolInvocationWithAward(ctx context.Context, toolName, status, awardID string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && awardID != "" {
		attrs = append(attrs, attribute.String(attrAwardID, awardID))
	}
	record(ctx, m.toolInvocationsTotal, m.toolDuration, duration, attrs...)
}
