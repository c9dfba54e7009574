// File: executor/join.go
// Author: momentics <momentics@gmail.com>

package executor

import (
	"context"
	"sync"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/future"
)

// JoinHandle receives the result of one spawned computation.
type JoinHandle[T any] struct {
	id   api.TaskID
	done chan struct{}

	mu       sync.Mutex
	finished bool
	result   api.Result[T]
	waiters  []api.Waker
}

func newJoinHandle[T any](id api.TaskID) *JoinHandle[T] {
	return &JoinHandle[T]{id: id, done: make(chan struct{})}
}

// ID returns the task id.
func (h *JoinHandle[T]) ID() api.TaskID { return h.id }

// Done is closed once the task finished or failed.
func (h *JoinHandle[T]) Done() <-chan struct{} { return h.done }

// Result blocks until the task finished and returns its value. A task that
// panicked reports an *api.Error with code api.ErrCodeTaskPanic.
func (h *JoinHandle[T]) Result() (T, error) {
	<-h.done
	return h.result.Unpack()
}

// Wait is Result bounded by ctx.
func (h *JoinHandle[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.result.Unpack()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Await returns a computation that resolves with the task's result. It lets
// one task wait on another without blocking its scheduler.
func (h *JoinHandle[T]) Await() api.Computation[api.Result[T]] {
	return future.Func(func(w api.Waker) api.Poll[api.Result[T]] {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.finished {
			return api.Ready(h.result)
		}
		h.waiters = append(h.waiters, w)
		return api.Pending[api.Result[T]]()
	})
}

func (h *JoinHandle[T]) complete(r api.Result[T]) {
	h.mu.Lock()
	h.finished = true
	h.result = r
	waiters := h.waiters
	h.waiters = nil
	close(h.done)
	h.mu.Unlock()

	for _, w := range waiters {
		w.Wake()
	}
}

// task is the type-erased view of a spawned computation held in the table.
type task interface {
	// drive runs one step and reports whether the task is finished.
	drive(w api.Waker) bool
	fail(err error)
}

type typedTask[T any] struct {
	c api.Computation[T]
	h *JoinHandle[T]
}

func (t *typedTask[T]) drive(w api.Waker) bool {
	p := t.c.Drive(w)
	if !p.Ready {
		return false
	}
	t.h.complete(api.Ok(p.Value))
	return true
}

func (t *typedTask[T]) fail(err error) {
	t.h.complete(api.Fail[T](err))
}
