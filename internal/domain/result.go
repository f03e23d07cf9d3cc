package domain

import "sodiumbridge/internal/errors"

// Result is the tagged outcome of an invocation.
type Result struct {
	value any
	err   *errors.Error
}

// Success wraps an encoded output value.
func Success(v any) Result { return Result{value: v} }

// Failure wraps a structured error. A nil err is reported as a native failure
// so that a Result is never empty.
func Failure(err *errors.Error) Result {
	if err == nil {
		err = errors.New(errors.PhaseAdapt, errors.KindNative).Detail("empty failure").Build()
	}
	return Result{err: err}
}

func (r Result) OK() bool           { return r.err == nil }
func (r Result) Value() any         { return r.value }
func (r Result) Err() *errors.Error { return r.err }

// Unwrap returns the value or the error in Go's usual form.
func (r Result) Unwrap() (any, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.value, nil
}
