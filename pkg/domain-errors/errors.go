// Package domainerrors defines the error taxonomy shared across modules.
//
// Services return these instead of raw errors so transport layers can map
// failures to HTTP statuses without inspecting error strings. For
// infrastructure facts (not found, unavailable), use pkg/platform/sentinel;
// stores return sentinels and services translate them here.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error. The set is closed: callers switch on it.
type Code string

const (
	// CodeInvalidInput marks malformed caller input (bad identifier, bad
	// request shape). Never retryable.
	CodeInvalidInput Code = "invalid_input"

	// CodeUpstreamData marks unusable or inconsistent data from an upstream
	// source. Surfaces as a bad-gateway class response.
	CodeUpstreamData Code = "upstream_data"

	// CodeUnavailable marks a temporarily unavailable dependency.
	CodeUnavailable Code = "unavailable"

	// CodeInternal is the catch-all for unexpected faults.
	CodeInternal Code = "internal_error"
)

// Error carries a code plus a human-readable message. The message is safe to
// log; WriteError decides whether it is safe to return to the caller.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUpstreamData:
		return http.StatusBadGateway
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
