package leave

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the leave workflow reports.
type Kind string

const (
	KindNotFound            Kind = "NOT_FOUND"
	KindInvalidDate         Kind = "INVALID_DATE"
	KindOverlap             Kind = "OVERLAP"
	KindInsufficientBalance Kind = "INSUFFICIENT_BALANCE"
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindInvalidState        Kind = "INVALID_STATE"
	KindUnavailable         Kind = "UNAVAILABLE"
)

// Error is the single error type returned by the leave workflow. Two Errors
// match under errors.Is when their kinds match, so the sentinels below can be
// used to test for a kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound            = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidDate         = &Error{Kind: KindInvalidDate, Message: "invalid date"}
	ErrOverlap             = &Error{Kind: KindOverlap, Message: "overlapping leave request"}
	ErrInsufficientBalance = &Error{Kind: KindInsufficientBalance, Message: "insufficient leave balance"}
	ErrUnauthorized        = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrInvalidState        = &Error{Kind: KindInvalidState, Message: "invalid state"}
	ErrUnavailable         = &Error{Kind: KindUnavailable, Message: "service unavailable"}

	ErrLeaveRequestNotFound         = &Error{Kind: KindNotFound, Message: "Leave request not found"}
	ErrLeaveRequestAlreadyProcessed = &Error{Kind: KindInvalidState, Message: "Leave request already processed"}
)

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

func InvalidDate(format string, args ...interface{}) *Error {
	return newError(KindInvalidDate, format, args...)
}

func Overlap(format string, args ...interface{}) *Error {
	return newError(KindOverlap, format, args...)
}

func InsufficientBalance(format string, args ...interface{}) *Error {
	return newError(KindInsufficientBalance, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return newError(KindUnauthorized, format, args...)
}

func InvalidState(format string, args ...interface{}) *Error {
	return newError(KindInvalidState, format, args...)
}

// Unavailable wraps a collaborator failure. Errors that already carry a kind
// are returned unchanged.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindUnavailable, Message: op, Err: err}
}

// KindOf returns the kind carried by err, or "" when err is not a leave Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
