package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes a failed operation so callers can pick a user-facing
// message without string matching.
type Kind int

const (
	// KindValidation is produced locally before any network round-trip.
	KindValidation Kind = iota
	// KindBadRequest means the service rejected the submission as malformed.
	KindBadRequest
	// KindUnauthorized means the bearer token is missing, invalid or expired.
	KindUnauthorized
	// KindNotFound means the desk or booking does not exist.
	KindNotFound
	// KindConflict means the slot is already taken, or the user already
	// holds a booking for that slot.
	KindConflict
	// KindTransport means no HTTP response was received at all.
	KindTransport
	// KindUnknown covers every other failure.
	KindUnknown
)

// String returns the kind name for logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTransport:
		return "transport"
	}
	return "unknown"
}

// APIError is the failure type for every gateway operation. StatusCode is
// zero for validation and transport failures.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewValidationError builds a local validation failure. It never corresponds
// to a network call.
func NewValidationError(msg string) *APIError {
	return &APIError{Kind: KindValidation, Message: msg}
}

func newTransportError(err error) *APIError {
	return &APIError{Kind: KindTransport, Message: err.Error()}
}

func newStatusError(code int, detail string) *APIError {
	if detail == "" {
		detail = http.StatusText(code)
	}
	return &APIError{Kind: kindFromStatus(code), StatusCode: code, Message: detail}
}

func kindFromStatus(code int) Kind {
	switch code {
	case http.StatusBadRequest:
		return KindBadRequest
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	}
	return KindUnknown
}

// ErrKind extracts the failure kind from any error returned by the gateway.
// Non-gateway errors report KindUnknown.
func ErrKind(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}
