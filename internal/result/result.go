// Package result carries the outcome of a pipeline stage.
//
// A Result is either a success holding a payload or a failure holding only
// a reason. There is no way to construct a failure that carries a payload,
// and the payload of a failure cannot be read.
package result

import "fmt"

type Result[T any] struct {
	value  T
	reason string
	tools  []string
	ok     bool
}

// Success wraps a payload. tools lists the retrieval operations the stage invoked.
func Success[T any](value T, tools ...string) Result[T] {
	return Result[T]{value: value, ok: true, tools: tools}
}

// Failure records why a stage could not produce a payload.
func Failure[T any](format string, args ...any) Result[T] {
	return Result[T]{reason: fmt.Sprintf(format, args...)}
}

func (r Result[T]) OK() bool { return r.ok }

// Get returns the payload and true on success. On failure it returns the
// zero value and false; callers must not use the zero value.
func (r Result[T]) Get() (T, bool) {
	if !r.ok {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Reason is empty for successes.
func (r Result[T]) Reason() string { return r.reason }

func (r Result[T]) Tools() []string { return r.tools }

// Err converts a failure into an error, nil for a success.
func (r Result[T]) Err() error {
	if r.ok {
		return nil
	}
	return fmt.Errorf("%s", r.reason)
}

// Map applies fn to a successful payload. Failures pass through unchanged.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if !r.ok {
		return Result[U]{reason: r.reason}
	}
	return Result[U]{value: fn(r.value), ok: true, tools: r.tools}
}
