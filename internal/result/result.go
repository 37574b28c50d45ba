// Package result provides the outcome type returned by domain services.
// A Result is either a success carrying a value or a failure carrying an *apperr.Error.
package result

import (
	"errors"

	"github.com/prn-tf/recipebook/internal/apperr"
)

// Unit is the value carried by results of operations that produce nothing.
type Unit struct{}

// Void is the result of an operation without a payload.
type Void = Result[Unit]

// Result is a success-or-failure tagged union.
type Result[T any] struct {
	value   T
	err     *apperr.Error
	message string
	ok      bool
}

// Success creates a successful result with an optional message.
func Success[T any](value T, message ...string) Result[T] {
	r := Result[T]{value: value, ok: true}
	if len(message) > 0 {
		r.message = message[0]
	}
	return r
}

// Failure creates a failed result. Passing a nil or None error is a programming
// error and panics.
func Failure[T any](err *apperr.Error) Result[T] {
	if err.IsNone() {
		panic("result: failure requires an error other than None")
	}
	return Result[T]{err: err, message: err.Message}
}

// Ok creates a successful Void result.
func Ok(message ...string) Void {
	return Success(Unit{}, message...)
}

// Fail creates a failed Void result.
func Fail(err *apperr.Error) Void {
	return Failure[Unit](err)
}

// FromError converts a Go error into a failure. *apperr.Error values pass
// through untouched; anything else becomes an internal server failure.
func FromError[T any](err error) Result[T] {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && !appErr.IsNone() {
		return Failure[T](appErr)
	}
	return Failure[T](apperr.InternalServer(apperr.CodeServerInternal, err.Error()))
}

// Forward re-types a failure. It panics when called on a success.
func Forward[U, T any](r Result[T]) Result[U] {
	return Failure[U](r.err)
}

// IsSuccessful reports whether the operation succeeded.
func (r Result[T]) IsSuccessful() bool {
	return r.ok
}

// IsFailure reports whether the operation failed.
func (r Result[T]) IsFailure() bool {
	return !r.ok
}

// Value returns the success value (zero value on failure).
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure, or nil on success.
func (r Result[T]) Err() *apperr.Error {
	return r.err
}

// Message returns the success message or the failure message.
func (r Result[T]) Message() string {
	return r.message
}

// Code returns the failure code, or an empty string on success.
func (r Result[T]) Code() string {
	if r.err == nil {
		return ""
	}
	return r.err.Code
}

// ValidationErrors returns field-level failure details, if any.
func (r Result[T]) ValidationErrors() map[string]string {
	if r.err == nil {
		return nil
	}
	return r.err.ValidationErrors
}
