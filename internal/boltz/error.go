package boltz

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Error is the driver's base error type. It captures a stack trace at
// construction and supports wrapping an inner error, extended with a Kind
// so callers can branch on category without string matching.
type Error struct {
	kind      Kind
	msg       string
	wrapped   error
	stack     []byte
	code      string
	class     FailureClass
	retryable bool
}

// New creates a new Error of the given kind with a stack trace captured at
// the call site.
func New(kind Kind, msg string, args ...interface{}) *Error {
	return &Error{
		kind:  kind,
		msg:   fmt.Sprintf(msg, args...),
		stack: debug.Stack(),
	}
}

// Wrap attaches a new message to an existing error, inheriting its stack
// trace when the wrapped error is itself a *Error.
func Wrap(kind Kind, err error, msg string, args ...interface{}) *Error {
	if e, ok := err.(*Error); ok {
		return &Error{
			kind:    kind,
			msg:     fmt.Sprintf(msg, args...),
			wrapped: e,
		}
	}
	return &Error{
		kind:    kind,
		msg:     fmt.Sprintf(msg, args...),
		wrapped: err,
		stack:   debug.Stack(),
	}
}

// NewServerFailure builds the Error for a FAILURE message:
// Client and DatabaseError failures are not retryable, Transient failures
// are marked retryable.
func NewServerFailure(code, message string) *Error {
	class := classify(code)
	return &Error{
		kind:      KindServerFailure,
		msg:       fmt.Sprintf("%s: %s", code, message),
		code:      code,
		class:     class,
		retryable: class == ClassTransientError,
		stack:     debug.Stack(),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.render(0)
}

// Unwrap exposes the wrapped error for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// Kind returns the error's category.
func (e *Error) Kind() Kind {
	return e.kind
}

// Code returns the Neo4j status code for a ServerFailure, or "" otherwise.
func (e *Error) Code() string {
	return e.code
}

// Class returns the FailureClass for a ServerFailure.
func (e *Error) Class() FailureClass {
	return e.class
}

// Retryable reports whether the caller may safely retry the operation that
// produced this error.
func (e *Error) Retryable() bool {
	return e.retryable
}

// InnerMost walks the wrap chain to the first non-*Error cause.
func (e *Error) InnerMost() error {
	if e.wrapped == nil {
		return e
	}
	if inner, ok := e.wrapped.(*Error); ok {
		return inner.InnerMost()
	}
	return e.wrapped
}

func (e *Error) render(level int) string {
	msg := fmt.Sprintf("%s[%s] %s", strings.Repeat("\t", level), e.kind, e.msg)
	if e.wrapped != nil {
		if inner, ok := e.wrapped.(*Error); ok {
			msg += "\n" + inner.render(level+1)
		} else {
			msg += fmt.Sprintf("\n%sinner error (%T): %s", strings.Repeat("\t", level+1), e.wrapped, e.wrapped.Error())
		}
	}
	return msg
}

// Is reports whether target is an Error with the same Kind, so callers can
// write `errors.Is(err, boltz.New(boltz.KindTimeout, ""))`-style checks
// without exporting sentinel values per kind.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == other.kind
}
