package usaspending

import (
	"errors"
	"fmt"
)

// Kind classifies gateway errors so callers can branch on the failure class
// without matching message strings.
type Kind string

const (
	// KindValidation marks bad caller input, detected before any network I/O.
	KindValidation Kind = "validation"
	// KindStatus marks a non-2xx response from the upstream API.
	KindStatus Kind = "status"
	// KindTransport marks connection, timeout, DNS, and malformed-response
	// failures.
	KindTransport Kind = "transport"
	// KindMapping marks an upstream search result that cannot be projected
	// into a typed result.
	KindMapping Kind = "mapping"
)

// Error is the single error type that crosses the gateway boundary. Raw
// net/http and JSON errors never escape this package; they are wrapped here
// together with the requested URL.
type Error struct {
	Kind       Kind
	URL        string // requested URL, empty for validation and mapping errors
	StatusCode int    // upstream status, set for KindStatus only
	Field      string // offending field, set for KindValidation and KindMapping
	Message    string
	Err        error // underlying cause, set for KindTransport
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is (or wraps) a gateway *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Kind == kind
}

// AsError extracts a gateway *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

func newValidationError(field, reason string) *Error {
	return &Error{
		Kind:    KindValidation,
		Field:   field,
		Message: fmt.Sprintf("%s %s", field, reason),
	}
}

func newStatusError(url string, statusCode int) *Error {
	return &Error{
		Kind:       KindStatus,
		URL:        url,
		StatusCode: statusCode,
		Message:    fmt.Sprintf("received %d from usaspending.gov while requesting %s", statusCode, url),
	}
}

func newTransportError(url string, cause error) *Error {
	return &Error{
		Kind:    KindTransport,
		URL:     url,
		Err:     cause,
		Message: fmt.Sprintf("error while requesting %s: %v", url, cause),
	}
}

func newMappingError(index int, field string) *Error {
	return &Error{
		Kind:    KindMapping,
		Field:   field,
		Message: fmt.Sprintf("search result %d is missing required field %q", index, field),
	}
}
