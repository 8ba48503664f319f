// Package apperr defines the domain error taxonomy shared by services and
// the HTTP layer. Repository infrastructure failures are wrapped into one of
// these kinds at the service boundary; the HTTP layer maps kinds to status
// codes and machine-readable codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindAlreadyExists      Kind = "ALREADY_EXISTS"
	KindInUse              Kind = "IN_USE"
	KindValidation         Kind = "VALIDATION_ERROR"
	KindLanguageResolution Kind = "LANGUAGE_RESOLUTION_ERROR"
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindOperationFailed    Kind = "OPERATION_FAILED"
)

// Error is a domain error carrying an HTTP status and a machine code.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two apperr errors by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Code returns the machine-readable code sent to API clients.
func (e *Error) Code() string { return string(e.Kind) }

// Status returns the HTTP status for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyExists, KindInUse:
		return http.StatusConflict
	case KindValidation, KindLanguageResolution:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(format string, a ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, a...)}
}

func AlreadyExists(format string, a ...any) *Error {
	return &Error{Kind: KindAlreadyExists, Message: fmt.Sprintf(format, a...)}
}

func InUse(format string, a ...any) *Error {
	return &Error{Kind: KindInUse, Message: fmt.Sprintf(format, a...)}
}

func Validation(format string, a ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, a...)}
}

func LanguageResolution(format string, a ...any) *Error {
	return &Error{Kind: KindLanguageResolution, Message: fmt.Sprintf(format, a...)}
}

func Unauthenticated(format string, a ...any) *Error {
	return &Error{Kind: KindUnauthenticated, Message: fmt.Sprintf(format, a...)}
}

func OperationFailed(err error, format string, a ...any) *Error {
	return &Error{Kind: KindOperationFailed, Message: fmt.Sprintf(format, a...), Err: err}
}

// IsKind reports whether err is an apperr error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// ErrNotFound is the sentinel repositories return for missing rows on single
// lookups; services wrap it with entity context.
var ErrNotFound = &Error{Kind: KindNotFound, Message: "not found"}
