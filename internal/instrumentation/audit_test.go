package instrumentation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

const (
	testEndpointAwards = "awards/CONT_AWD_123/"
	testEndpointFamily = "awards"
	testArguments      = `{"generated_unique_award_id":"CONT_AWD_123"}`
	testTraceID        = "abc123def456"
	testSpanID         = "span789"
	testToolAward      = "GetAwardInfoByAwardId"
	testToolSearch     = "SearchByKeywords"
	testToolAgencies   = "GetAgencies"
)

// attrsByKey indexes slog attributes for assertions.
func attrsByKey(attrs []slog.Attr) map[string]slog.Attr {
	m := make(map[string]slog.Attr, len(attrs))
	for _, attr := range attrs {
		m[attr.Key] = attr
	}
	return m
}

// newCapturedAuditLogger returns an AuditLogger writing to the returned
// buffer through a text handler, so tests can assert on emitted records.
func newCapturedAuditLogger() (*AuditLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil))), &buf
}

func TestToolInvocation_NewAndComplete(t *testing.T) {
	ti := NewToolInvocation(testToolAgencies)

	if ti.Tool != testToolAgencies {
		t.Errorf("Tool = %q, want %q", ti.Tool, testToolAgencies)
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should be set on construction")
	}

	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("Success should be true after CompleteSuccess")
	}
	// An instant completion can legally measure zero.
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}
	if ti.Error != "" {
		t.Errorf("Error = %q, want empty", ti.Error)
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation(testToolSearch)

	ti.CompleteWithError(errors.New("received 500 from usaspending.gov"))

	if ti.Success {
		t.Error("Success should be false after CompleteWithError")
	}
	if ti.Error != "received 500 from usaspending.gov" {
		t.Errorf("Error = %q, want the wrapped message", ti.Error)
	}
}

func TestToolInvocation_Complete_NilError(t *testing.T) {
	ti := NewToolInvocation("test")
	ti.Complete(true, nil)

	if ti.Error != "" {
		t.Errorf("Error = %q, want empty for nil error", ti.Error)
	}
}

func TestToolInvocation_Builders(t *testing.T) {
	ti := NewToolInvocation(testToolSearch).
		WithEndpoint("search/spending_by_award/", OperationKeywordSearch).
		WithArguments(`{"keywords":["booz"],"year":2023}`).
		CompleteSuccess()

	if ti.Endpoint != "search/spending_by_award/" {
		t.Errorf("Endpoint = %q, want the raw path", ti.Endpoint)
	}
	if ti.Operation != OperationKeywordSearch {
		t.Errorf("Operation = %q, want %q", ti.Operation, OperationKeywordSearch)
	}
	if ti.Arguments != `{"keywords":["booz"],"year":2023}` {
		t.Errorf("Arguments = %q, want the rendered arguments", ti.Arguments)
	}
	if !ti.Success {
		t.Error("Success should be true")
	}
}

func TestToolInvocation_EndpointFamily(t *testing.T) {
	ti := NewToolInvocation("test")
	ti.Endpoint = testEndpointAwards

	if family := ti.EndpointFamily(); family != testEndpointFamily {
		t.Errorf("EndpointFamily() = %q, want %q", family, testEndpointFamily)
	}
}

func TestToolInvocation_Status(t *testing.T) {
	ti := NewToolInvocation("test")

	ti.Success = true
	if status := ti.Status(); status != StatusSuccess {
		t.Errorf("Status() = %q, want %q", status, StatusSuccess)
	}

	ti.Success = false
	if status := ti.Status(); status != StatusError {
		t.Errorf("Status() = %q, want %q", status, StatusError)
	}
}

func TestToolInvocation_LogAttrs(t *testing.T) {
	ti := NewToolInvocation(testToolAward)
	ti.WithEndpoint(testEndpointAwards, OperationAwardDetail).
		WithArguments(testArguments).
		CompleteSuccess()
	ti.TraceID = testTraceID

	attrs := attrsByKey(ti.LogAttrs())

	for _, key := range []string{"tool", "duration", "success"} {
		if _, ok := attrs[key]; !ok {
			t.Errorf("missing base attribute %q", key)
		}
	}

	// The raw path collapses to the bounded family.
	if endpoint := attrs["endpoint"].Value.String(); endpoint != testEndpointFamily {
		t.Errorf("endpoint = %q, want %q", endpoint, testEndpointFamily)
	}
	if operation := attrs["operation"].Value.String(); operation != OperationAwardDetail {
		t.Errorf("operation = %q, want %q", operation, OperationAwardDetail)
	}

	// Raw arguments must never leak into bounded logs.
	if _, ok := attrs["arguments"]; ok {
		t.Error("arguments must not appear in LogAttrs")
	}
}

func TestToolInvocation_LogAttrs_WithError(t *testing.T) {
	ti := NewToolInvocation(testToolSearch)
	ti.WithEndpoint("search/spending_by_award/", OperationKeywordSearch).
		CompleteWithError(errors.New("test error"))

	attrs := attrsByKey(ti.LogAttrs())

	if errVal := attrs["error"].Value.String(); errVal != "test error" {
		t.Errorf("error = %q, want %q", errVal, "test error")
	}
}

func TestToolInvocation_LogAttrs_MinimalFields(t *testing.T) {
	ti := NewToolInvocation(testToolAgencies)
	ti.CompleteSuccess()

	attrs := attrsByKey(ti.LogAttrs())

	// Unset fields stay off the record entirely.
	for _, key := range []string{"endpoint", "operation", "trace_id", "error"} {
		if _, ok := attrs[key]; ok {
			t.Errorf("%q should not be present when unset", key)
		}
	}
}

func TestToolInvocation_LogAuditAttrs(t *testing.T) {
	ti := NewToolInvocation(testToolAward)
	ti.WithEndpoint(testEndpointAwards, OperationAwardDetail).
		WithArguments(testArguments).
		CompleteSuccess()
	ti.TraceID = testTraceID
	ti.SpanID = testSpanID

	attrs := attrsByKey(ti.LogAuditAttrs())

	// The audit record carries the raw path, not the bounded family.
	if endpoint := attrs["endpoint"].Value.String(); endpoint != testEndpointAwards {
		t.Errorf("endpoint = %q, want %q", endpoint, testEndpointAwards)
	}
	if arguments := attrs["arguments"].Value.String(); arguments != testArguments {
		t.Errorf("arguments = %q, want %q", arguments, testArguments)
	}
	if traceID := attrs["trace_id"].Value.String(); traceID != testTraceID {
		t.Errorf("trace_id = %q, want %q", traceID, testTraceID)
	}
	if spanID := attrs["span_id"].Value.String(); spanID != testSpanID {
		t.Errorf("span_id = %q, want %q", spanID, testSpanID)
	}
}

func TestToolInvocation_LogAuditAttrs_MinimalFields(t *testing.T) {
	ti := NewToolInvocation(testToolAgencies)
	ti.CompleteSuccess()

	attrs := attrsByKey(ti.LogAuditAttrs())

	for _, key := range []string{"endpoint", "arguments", "span_id"} {
		if _, ok := attrs[key]; ok {
			t.Errorf("%q should not be present when unset", key)
		}
	}
}

func TestAuditLogger_New(t *testing.T) {
	al := NewAuditLogger(nil)
	if al.logger == nil {
		t.Error("nil logger should fall back to the default")
	}

	logger := slog.Default()
	al = NewAuditLogger(logger)
	if al.logger != logger {
		t.Error("provided logger should be kept")
	}
}

func TestAuditLogger_WithConfig(t *testing.T) {
	al := NewAuditLoggerWithConfig(nil, AuditLoggingConfig{
		Enabled:          false,
		IncludeArguments: true,
	})

	if al.enabled {
		t.Error("enabled should follow the config")
	}
	if !al.includeArguments {
		t.Error("includeArguments should follow the config")
	}
}

func TestAuditLogger_LogToolInvocation_Success(t *testing.T) {
	al, buf := newCapturedAuditLogger()

	al.LogToolInvocation(NewToolInvocation(testToolAgencies).
		WithEndpoint("references/toptier_agencies/", OperationListAgencies).
		CompleteSuccess())

	out := buf.String()
	if !strings.Contains(out, "msg=tool_executed") {
		t.Errorf("expected tool_executed record, got %q", out)
	}
	if !strings.Contains(out, "endpoint=toptier_agencies") {
		t.Errorf("expected bounded endpoint label, got %q", out)
	}
}

func TestAuditLogger_LogToolInvocation_Failure(t *testing.T) {
	al, buf := newCapturedAuditLogger()

	al.LogToolInvocation(NewToolInvocation(testToolSearch).
		WithEndpoint("search/spending_by_award/", OperationKeywordSearch).
		CompleteWithError(errors.New("upstream unavailable")))

	out := buf.String()
	if !strings.Contains(out, "msg=tool_failed") {
		t.Errorf("expected tool_failed record, got %q", out)
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("failures should log at warn level, got %q", out)
	}
}

func TestAuditLogger_LogToolInvocation_IncludesArgumentsWhenConfigured(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLoggerWithConfig(slog.New(slog.NewTextHandler(&buf, nil)), AuditLoggingConfig{
		Enabled:          true,
		IncludeArguments: true,
	})

	al.LogToolInvocation(NewToolInvocation(testToolAward).
		WithEndpoint(testEndpointAwards, OperationAwardDetail).
		WithArguments(testArguments).
		CompleteSuccess())

	out := buf.String()
	if !strings.Contains(out, "arguments=") {
		t.Errorf("expected raw arguments in the record, got %q", out)
	}
	if !strings.Contains(out, "endpoint=awards/CONT_AWD_123/") {
		t.Errorf("expected raw endpoint path in the record, got %q", out)
	}
}

func TestAuditLogger_Disabled_EmitsNothing(t *testing.T) {
	al, buf := newCapturedAuditLogger()
	al.SetEnabled(false)

	ti := NewToolInvocation(testToolAgencies).CompleteSuccess()
	al.LogToolInvocation(ti)
	al.LogToolAudit(ti)

	if buf.Len() != 0 {
		t.Errorf("disabled logger must not write, got %q", buf.String())
	}
}

func TestAuditLogger_LogToolAudit(t *testing.T) {
	al, buf := newCapturedAuditLogger()

	ti := NewToolInvocation(testToolAward).
		WithEndpoint(testEndpointAwards, OperationAwardDetail).
		WithArguments(testArguments).
		CompleteSuccess()
	ti.TraceID = testTraceID

	al.LogToolAudit(ti)

	out := buf.String()
	if !strings.Contains(out, "msg=tool_audit") {
		t.Errorf("expected tool_audit record, got %q", out)
	}
	// LogToolAudit always carries the full detail.
	if !strings.Contains(out, "arguments=") {
		t.Errorf("expected raw arguments in the audit record, got %q", out)
	}
}

func TestToolInvocation_WithSpanContext_NoSpan(t *testing.T) {
	ti := NewToolInvocation("test").WithSpanContext(context.Background())

	if ti.TraceID != "" {
		t.Errorf("TraceID = %q, want empty without a live span", ti.TraceID)
	}
	if ti.SpanID != "" {
		t.Errorf("SpanID = %q, want empty without a live span", ti.SpanID)
	}
}
