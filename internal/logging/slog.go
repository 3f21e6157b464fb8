package logging

import (
	"fmt"
	"log/slog"
	"net/url"
)

// Attribute keys shared across the codebase, so the same concept always
// logs under the same name regardless of which package emits it.
const (
	KeyOperation  = "operation"
	KeyEndpoint   = "endpoint"
	KeyURL        = "url"
	KeyStatusCode = "status_code"
	KeyDuration   = "duration"
	KeyStatus     = "status"
	KeyError      = "error"
	KeyTool       = "tool"
	KeyTransport  = "transport"
	KeyRelay      = "relay"
	KeyEventID    = "event_id"
)

// Status values matching the instrumentation package, which this package
// must not import.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Operation returns the gateway operation attribute.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Endpoint returns the upstream endpoint attribute.
func Endpoint(endpoint string) slog.Attr {
	return slog.String(KeyEndpoint, endpoint)
}

// URL returns the full request URL attribute.
func URL(rawURL string) slog.Attr {
	return slog.String(KeyURL, rawURL)
}

// StatusCode returns the HTTP status code attribute.
func StatusCode(code int) slog.Attr {
	return slog.Int(KeyStatusCode, code)
}

// Tool returns the MCP tool name attribute.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Relay returns the Nostr relay URL attribute.
func Relay(relay string) slog.Attr {
	return slog.String(KeyRelay, relay)
}

// Status returns the status attribute.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns the error attribute for err. A nil err yields an inline empty
// group, which slog omits, so call sites can pass a maybe-nil error without
// guarding it first.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// WithOperation returns a logger that tags every record with the operation.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger that tags every record with the tool name.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// WithEndpoint returns a logger that tags every record with the upstream
// endpoint.
func WithEndpoint(logger *slog.Logger, endpoint string) *slog.Logger {
	return logger.With(slog.String(KeyEndpoint, endpoint))
}

// SanitizeKey masks Nostr key material down to a length indicator. Even a
// bech32 prefix identifies the key type, so no part of the input survives.
func SanitizeKey(key string) string {
	if key == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[key:%d chars]", len(key))
}

// EndpointPath reduces a full request URL to its path, dropping scheme,
// host, and query. Unparsable input reduces to the empty string.
func EndpointPath(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}
