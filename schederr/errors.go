/*
Package schederr centralizes the error kinds the scheduling engine and its
surrounding layers produce, so every caller can branch on Kind instead of
string-matching messages.
*/
package schederr

import (
	"errors"
	"fmt"
)

// Kind is a closed set of error categories the engine can return.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindPermissionDenied  Kind = "permission_denied"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindCoverageViolation Kind = "coverage_violation"
	KindAnalysisFailed    Kind = "analysis_failed"
	KindInternal          Kind = "internal"
)

// Error is the single error type returned across package boundaries in this
// repository. It carries a Kind so callers (the api package in particular)
// can map it to a transport-level status without inspecting message text.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an Error of the given kind with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error of the given kind wrapping cause. The result always
// carries kind, even when cause is itself a *Error.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf extracts the Kind of err, defaulting to KindInternal if err is not
// (or does not wrap) a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...))
}

func PermissionDenied(format string, args ...any) *Error {
	return New(KindPermissionDenied, fmt.Sprintf(format, args...))
}

func Internal(message string, cause error) *Error {
	return Wrap(KindInternal, message, cause)
}
