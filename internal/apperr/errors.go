package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP boundary. Everything below the
// handlers works with plain errors wrapped around one of these kinds;
// handlers map the kind to a status code and never inspect messages.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidState
	KindValidation
	KindStorage
	KindTimeout
	KindConflict
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func InvalidState(format string, args ...interface{}) *Error {
	return newf(KindInvalidState, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

// Storage wraps an underlying store failure. The cause stays reachable
// through errors.Unwrap for logging.
func Storage(err error, format string, args ...interface{}) *Error {
	e := newf(KindStorage, format, args...)
	e.err = err
	return e
}

func Timeout(err error, format string, args ...interface{}) *Error {
	e := newf(KindTimeout, format, args...)
	e.err = err
	return e
}

// KindOf returns the kind of err, unwrapping as needed.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.kind
	}
	return KindUnknown
}

// HTTPStatus maps an error to the status code the JSON envelope is written
// with: 400 for validation/invalid-state, 404 for not-found, 409 for version
// conflicts, 504 for storage timeouts, 500 for everything else.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindInvalidState:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
