package outcome

import (
	"errors"
	"fmt"
)

// Code classifies a structured failure.
type Code string

const (
	// CodeNotFound means the requested entity does not exist in the backend.
	CodeNotFound Code = "NOT_FOUND"
	// CodeSchedulingConflict means the backend rejected a write because the
	// time slot overlaps an existing event.
	CodeSchedulingConflict Code = "SCHEDULING_CONFLICT"
	// CodeInvalidRequest means the request was rejected locally before any
	// backend contact (empty update, inverted time range, bad coordinates).
	CodeInvalidRequest Code = "INVALID_REQUEST"
	// CodeBackendUnavailable means a transport or HTTP-level failure,
	// including timeouts.
	CodeBackendUnavailable Code = "BACKEND_UNAVAILABLE"
	// CodeNoRouteFound means the routing backend answered but produced no
	// route between the endpoints.
	CodeNoRouteFound Code = "NO_ROUTE_FOUND"
	// CodeGeocodeNotFound means the geocoder answered but resolved zero
	// results for the address.
	CodeGeocodeNotFound Code = "GEOCODE_NOT_FOUND"
	// CodeUpstreamServiceError means the mapping provider rejected the call
	// (quota, auth, billing); the upstream message is preserved.
	CodeUpstreamServiceError Code = "UPSTREAM_SERVICE_ERROR"
)

// Error is a structured failure outcome. It satisfies the error interface and
// supports errors.Is/As chains through Cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that records cause for unwrapping.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf extracts the outcome code from an error chain. It returns an empty
// code when err is nil or carries no outcome.
func CodeOf(err error) Code {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Code
	}
	return ""
}

// HasCode reports whether the error chain carries the given outcome code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}
