// Package apperr defines the typed errors returned by domain services.
// The HTTP layer turns an error's Kind into a status code.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	// KindConflict means the request collides with current state, e.g. a busy session.
	KindConflict
	KindBadRequest
	// KindUpstream means a remote dependency failed or answered garbage.
	KindUpstream
	// KindUnavailable means a capability is missing or was refused.
	KindUnavailable
	KindInternal
	// KindGone means the thing the request refers to no longer exists.
	KindGone
)

var statusByKind = map[Kind]int{
	KindNotFound:    http.StatusNotFound,
	KindValidation:  http.StatusBadRequest,
	KindBadRequest:  http.StatusBadRequest,
	KindConflict:    http.StatusConflict,
	KindUpstream:    http.StatusBadGateway,
	KindUnavailable: http.StatusServiceUnavailable,
	KindInternal:    http.StatusInternalServerError,
	KindGone:        http.StatusGone,
}

// Error is a domain error carrying a Kind and a user-facing Message.
type Error struct {
	Kind    Kind
	Message string
	Op      string      // failing operation, optional
	Err     error       // cause, optional
	Details interface{} // echoed in the response body, optional
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the Kind to a status code. Unknown kinds are 400.
func (e *Error) HTTPStatus() int {
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusBadRequest
}

// WithOp sets the failing operation and returns e.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails attaches response details and returns e.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error    { return New(KindNotFound, message) }
func Validation(message string) *Error  { return New(KindValidation, message) }
func Conflict(message string) *Error    { return New(KindConflict, message) }
func Unavailable(message string) *Error { return New(KindUnavailable, message) }
func Gone(message string) *Error        { return New(KindGone, message) }

// Upstream wraps the failure of a remote dependency.
func Upstream(message string, err error) *Error {
	return Wrap(KindUpstream, message, err)
}

// GetKind returns the Kind of the first *Error in err's chain, or KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
