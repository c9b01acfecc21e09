// Package errors is the project error type: a wire code, a message, an optional input field and a cause
//
// import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine readable failure class sent to clients
// values are part of the wire format, only append
type ErrorCode uint16

const (
	ErrorCodeUnknown         ErrorCode = iota // unclassified, foreign errors land here
	ErrorCodePanic                            // recovered by middleware
	ErrorCodeUnavailable                      // change log replica down, slow or busy
	ErrorCodeInvalidArgument                  // well formed input the service cannot serve
	ErrorCodeValidation                       // malformed input
	ErrorCodeJSON                             // undecodable request body
	ErrorCodeNotFound                         // empty single row result
	ErrorCodeDB                               // change log query failed
	ErrorCodeUpstream                         // a remote API we depend on failed
)

var httpStatus = map[ErrorCode]int{
	ErrorCodeUnavailable:     http.StatusServiceUnavailable,
	ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
	ErrorCodeValidation:      http.StatusBadRequest,
	ErrorCodeJSON:            http.StatusBadRequest,
	ErrorCodeNotFound:        http.StatusNotFound,
	ErrorCodeUpstream:        http.StatusBadGateway,
}

// HTTPStatus maps c to a response status, unmapped codes are 500
func (c ErrorCode) HTTPStatus() int {
	if s, ok := httpStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// ErrNotFound is returned when a single row lookup comes back empty
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is the concrete error type, construct it with New, Wrap and friends
type Error struct {
	code  ErrorCode
	msg   string
	field string
	cause error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.cause == nil:
		return e.msg
	default:
		return e.msg + ": " + e.cause.Error()
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Code is the wire code
func (e *Error) Code() ErrorCode { return e.code }

// Field names the request input at fault, empty when none
func (e *Error) Field() string { return e.field }

// Wire is what clients see of an error
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// WireFrom projects err for the client, the cause chain stays server side
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	e, ok := As(err)
	if !ok {
		return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
	}
	return Wire{Code: e.code, Message: e.msg, Field: e.field}
}

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf is the code of the outermost *Error, Unknown when there is none
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether CodeOf(err) is code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is the response status for err
func HTTPStatus(err error) int { return CodeOf(err).HTTPStatus() }

// WithField copies err with the offending input field set, foreign errors pass through
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	cp := *e
	cp.field = field
	return &cp
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap attaches code and msg to cause, a nil cause gives a plain error
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return Wrap(cause, code, fmt.Sprintf(format, a...))
}

func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }

func Upstreamf(format string, a ...any) error { return Newf(ErrorCodeUpstream, format, a...) }
