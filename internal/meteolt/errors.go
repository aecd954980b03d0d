package meteolt

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes failures of the meteo.lt client so callers can match
// on the kind of failure without parsing messages.
type ErrorCode string

const (
	// ErrCodeConnection covers transport-level faults (DNS, refused, reset)
	// and 5xx responses from the upstream API.
	ErrCodeConnection ErrorCode = "connection"
	// ErrCodeRateLimited is returned for HTTP 429; back off before retrying.
	ErrCodeRateLimited ErrorCode = "rate_limited"
	// ErrCodeNotFound is returned for HTTP 404 (unknown place/station code).
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeTimeout means no response arrived within the configured bound.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeFormat means a 2xx response carried a body that is not the
	// JSON we expect (wrong content type or undecodable payload).
	ErrCodeFormat ErrorCode = "format"
	// ErrCodeShape means a decoded document was missing a field or carried
	// a value of an unexpected type where a typed value was extracted.
	ErrCodeShape ErrorCode = "shape"
	// ErrCodeRequest is the generic kind for any other non-2xx status.
	ErrCodeRequest ErrorCode = "request"
)

// APIError is the single error type produced by the client. Every failure,
// regardless of code, is an *APIError, so callers may catch broadly with
// errors.As or narrowly by comparing Code.
type APIError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("meteolt: %s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("meteolt: %s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *APIError) Unwrap() error {
	return e.Err
}

func newAPIError(code ErrorCode, message string, err error) *APIError {
	return &APIError{Code: code, Message: message, Err: err}
}

// codeOf returns the error code of err if it is an *APIError, or "" otherwise.
func codeOf(err error) ErrorCode {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// IsConnection reports whether err is a transport-level or 5xx failure.
func IsConnection(err error) bool { return codeOf(err) == ErrCodeConnection }

// IsRateLimited reports whether err is an HTTP 429 failure.
func IsRateLimited(err error) bool { return codeOf(err) == ErrCodeRateLimited }

// IsNotFound reports whether err is an HTTP 404 failure.
func IsNotFound(err error) bool { return codeOf(err) == ErrCodeNotFound }

// IsTimeout reports whether err is a response-deadline failure.
func IsTimeout(err error) bool { return codeOf(err) == ErrCodeTimeout }

// IsFormat reports whether err is a malformed-response failure.
func IsFormat(err error) bool { return codeOf(err) == ErrCodeFormat }

// IsShape reports whether err is a missing-field or wrong-type failure when
// extracting a typed value from a decoded document.
func IsShape(err error) bool { return codeOf(err) == ErrCodeShape }
