// Package result holds the outcome of a single calculation: a value or a
// typed failure.
package result

import (
	"errors"
	"fmt"
	"strings"
)

// Reason classifies a failure.
type Reason string

const (
	MissingParameter  Reason = "MISSING_PARAMETER"
	Resolution        Reason = "RESOLUTION"
	MissingData       Reason = "MISSING_DATA"
	Unsupported       Reason = "UNSUPPORTED"
	CalculationFailed Reason = "CALCULATION_FAILED"
	Cancelled         Reason = "CANCELLED"
	InvalidInput      Reason = "INVALID_INPUT"
	Error             Reason = "ERROR"
)

// Failure is the failure payload of a Result. It is also an error so that
// calculators can return it directly with a chosen reason.
type Failure struct {
	Reason  Reason
	Message string
	Cause   error
}

func NewFailure(reason Reason, format string, args ...any) *Failure {
	return &Failure{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a failure carrying err as its cause.
func Wrap(reason Reason, err error) *Failure {
	return &Failure{Reason: reason, Message: err.Error(), Cause: err}
}

func (f *Failure) Error() string {
	return string(f.Reason) + ": " + f.Message
}

func (f *Failure) Unwrap() error { return f.Cause }

// Result is Success(V) or Failure(reason, message). The zero value is not a
// valid result.
type Result[V any] struct {
	value   V
	failure *Failure
}

func Success[V any](v V) Result[V] {
	return Result[V]{value: v}
}

func FailureOf[V any](reason Reason, format string, args ...any) Result[V] {
	return Result[V]{failure: NewFailure(reason, format, args...)}
}

// FromFailure wraps an existing failure.
func FromFailure[V any](f *Failure) Result[V] {
	return Result[V]{failure: f}
}

// FromError converts err into a failure. A *Failure anywhere in the chain
// keeps its reason; anything else becomes CalculationFailed.
func FromError[V any](err error) Result[V] {
	var f *Failure
	if errors.As(err, &f) {
		if err == error(f) {
			return Result[V]{failure: f}
		}
		msg := strings.Replace(err.Error(), f.Error(), f.Message, 1)
		return Result[V]{failure: &Failure{Reason: f.Reason, Message: msg, Cause: err}}
	}
	return Result[V]{failure: Wrap(CalculationFailed, err)}
}

// Of runs fn and captures its value, error, or panic.
func Of[V any](fn func() (V, error)) (r Result[V]) {
	defer func() {
		if p := recover(); p != nil {
			r = FailureOf[V](CalculationFailed, "panic: %v", p)
		}
	}()
	v, err := fn()
	if err != nil {
		return FromError[V](err)
	}
	return Success(v)
}

func (r Result[V]) IsSuccess() bool { return r.failure == nil }
func (r Result[V]) IsFailure() bool { return r.failure != nil }

// Value returns the success value, or the zero value for a failure.
func (r Result[V]) Value() V { return r.value }

// Get returns the value and whether the result is a success.
func (r Result[V]) Get() (V, bool) { return r.value, r.failure == nil }

// Failure returns the failure, or nil for a success.
func (r Result[V]) Failure() *Failure { return r.failure }

// Err returns the failure as an error, or nil.
func (r Result[V]) Err() error {
	if r.failure == nil {
		return nil
	}
	return r.failure
}

// Any erases the value type.
func (r Result[V]) Any() Result[any] {
	if r.failure != nil {
		return Result[any]{failure: r.failure}
	}
	return Result[any]{value: r.value}
}

func (r Result[V]) String() string {
	if r.failure != nil {
		return fmt.Sprintf("Failure(%s, %s)", r.failure.Reason, r.failure.Message)
	}
	return fmt.Sprintf("Success(%v)", r.value)
}

// Map applies fn to a success value.
func Map[V, W any](r Result[V], fn func(V) W) Result[W] {
	if r.failure != nil {
		return Result[W]{failure: r.failure}
	}
	return Success(fn(r.value))
}

// As narrows an erased result to V. A success holding another type is a
// failure.
func As[V any](r Result[any]) Result[V] {
	if r.failure != nil {
		return Result[V]{failure: r.failure}
	}
	v, ok := r.value.(V)
	if !ok {
		var zero V
		return FailureOf[V](Error, "result value %T is not a %T", r.value, zero)
	}
	return Success(v)
}
