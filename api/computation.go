// File: api/computation.go
// Author: momentics <momentics@gmail.com>
//
// Suspendable computation contract shared by the executor, timers and the reactor.

package api

// Poll is the outcome of one Drive call.
type Poll[T any] struct {
	Value T
	Ready bool
}

// Ready wraps a finished value.
func Ready[T any](v T) Poll[T] {
	return Poll[T]{Value: v, Ready: true}
}

// Pending reports that the computation has parked its waker and cannot progress.
func Pending[T any]() Poll[T] {
	return Poll[T]{}
}

// IsPending reports whether the computation must be driven again later.
func (p Poll[T]) IsPending() bool { return !p.Ready }

// Waker marks one computation as ready to be driven again.
// Wake must be safe to call from any goroutine, any number of times.
type Waker interface {
	Wake()
}

// WakerFunc adapts a plain function to Waker.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() { f() }

// NoopWaker discards wakeups. Useful when driving a computation by hand.
var NoopWaker Waker = WakerFunc(func() {})

// Computation is a resumable unit of work.
//
// Drive advances the computation as far as it can. When it returns a pending
// Poll, the computation has stored w (or a waker derived from it) with the
// source that will fire once progress is possible; the caller must not drive
// it again before that. Driving a computation after it returned a ready Poll
// is a contract violation and panics with ErrAlreadyResolved.
type Computation[T any] interface {
	Drive(w Waker) Poll[T]
}

// ComputationFunc adapts a drive function to Computation.
type ComputationFunc[T any] func(w Waker) Poll[T]

// Drive calls f.
func (f ComputationFunc[T]) Drive(w Waker) Poll[T] { return f(w) }
