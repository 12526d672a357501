// Package errors classifies portfolio failures so every transport maps them
// the same way.
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
)

// Kind is the machine-readable class of a failure.
type Kind string

const (
	KindUnknown          Kind = "unknown"
	KindInvalidInput     Kind = "invalid_input"
	KindUnauthorized     Kind = "unauthorized"
	KindNotFound         Kind = "not_found"
	KindStoreUnavailable Kind = "store_unavailable"
)

// Error is a typed application failure.
type Error struct {
	Kind    Kind   // Failure class
	Message string // Caller-facing message
	Cause   error  // Wrapped underlying error, for logs only
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// E builds a typed error.
func E(kind Kind, message string) error {
	return &Error{Kind: kind, Message: strings.TrimSpace(message)}
}

// Wrap builds a typed error around an underlying cause.
func Wrap(kind Kind, message string, cause error) error {
	return &Error{Kind: kind, Message: strings.TrimSpace(message), Cause: cause}
}

// Validation builds an invalid-input error.
func Validation(message string) error {
	return E(KindInvalidInput, message)
}

// NotFound builds a not-found error.
func NotFound(message string) error {
	return E(KindNotFound, message)
}

// KindOf returns the kind of the first typed error in the chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		return KindUnknown
	}
	return appErr.Kind
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message that is safe to show to callers.
// Untyped errors never leak their text.
func PublicMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if stderrors.As(err, &appErr) && appErr.Kind != KindUnknown {
		if msg := strings.TrimSpace(appErr.Message); msg != "" {
			return msg
		}
	}
	if fallback = strings.TrimSpace(fallback); fallback != "" {
		return fallback
	}
	return http.StatusText(http.StatusInternalServerError)
}
