package report

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies engine failures for transport-level mapping.
type Kind string

const (
	// KindNotFound means the template id matched nothing in the registry.
	KindNotFound Kind = "not_found"
	// KindUnauthorized means the template exists but the caller role is not gated in.
	KindUnauthorized Kind = "unauthorized"
	// KindInvalidParameters means one or more validation rules failed.
	KindInvalidParameters Kind = "invalid_parameters"
	// KindExecutionFailure means the data store rejected the query or failed mid-retrieval.
	KindExecutionFailure Kind = "execution_failure"
)

// Error is the engine's error type. Violations is populated only for
// KindInvalidParameters and carries every collected message, not just the
// first, so a caller can fix all problems in one round trip.
type Error struct {
	Kind       Kind
	Message    string
	Violations []string
	Err        error
}

func (e *Error) Error() string {
	if len(e.Violations) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Violations, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a kind-tagged error around an optional cause.
func NewError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func newValidationError(violations []string) *Error {
	return &Error{
		Kind:       KindInvalidParameters,
		Message:    "invalid parameters",
		Violations: violations,
	}
}

// KindOf extracts the Kind from err, or "" if err is not an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ViolationsOf returns the collected validation messages, if any.
func ViolationsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Violations
	}
	return nil
}
