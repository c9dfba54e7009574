// Package api
// Author: momentics@gmail.com
//
// Generic result and error propagation for computations that can fail.

package api

// Result wraps any payload or error.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok returns a successful result.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail returns a failed result carrying err.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Unpack splits the result into the usual Go pair.
func (r Result[T]) Unpack() (T, error) {
	return r.Value, r.Err
}
