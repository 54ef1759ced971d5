package gitquery

import (
	"errors"
	"net/http"
)

// Kind classifies a failed query. Every kind is terminal for its request.
type Kind string

const (
	InvalidInput      Kind = "InvalidInput"
	InvalidPath       Kind = "InvalidPath"
	ToolUnavailable   Kind = "ToolUnavailable"
	NotARepository    Kind = "NotARepository"
	QueryFailed       Kind = "QueryFailed"
	ReadFailed        Kind = "ReadFailed"
	LaunchFailed      Kind = "LaunchFailed"
	ConfigUnavailable Kind = "ConfigUnavailable"
)

// HTTPStatus maps a kind to a response status: caller mistakes are 400,
// environment and tool failures are 500.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidInput, InvalidPath, NotARepository:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is the error type returned by Service operations.
type Error struct {
	Kind    Kind
	Message string
	// Detail is captured subprocess output, if any.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, message string, err error) *Error {
	e := &Error{Kind: kind, Message: message, Err: err}
	var runErr *RunError
	if errors.As(err, &runErr) {
		e.Detail = runErr.Stderr
	}
	return e
}

// KindOf returns the Kind of err, or QueryFailed for errors not produced here.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return QueryFailed
}
