// File: future/basic.go
// Author: momentics <momentics@gmail.com>

package future

import "github.com/momentics/hioload-rt/api"

type guarded[T any] struct {
	inner api.Computation[T]
	done  bool
}

// Guard wraps c so that driving it after completion panics with
// api.ErrAlreadyResolved instead of reaching c again.
func Guard[T any](c api.Computation[T]) api.Computation[T] {
	if g, ok := c.(*guarded[T]); ok {
		return g
	}
	return &guarded[T]{inner: c}
}

func (g *guarded[T]) Drive(w api.Waker) api.Poll[T] {
	if g.done {
		panic(api.ErrAlreadyResolved)
	}
	p := g.inner.Drive(w)
	if p.Ready {
		g.done = true
		g.inner = nil
	}
	return p
}

// Ready returns a computation that is done on its first drive.
func Ready[T any](v T) api.Computation[T] {
	return Func(func(api.Waker) api.Poll[T] { return api.Ready(v) })
}

// Func turns a drive function into a guarded computation.
func Func[T any](fn func(w api.Waker) api.Poll[T]) api.Computation[T] {
	return Guard[T](api.ComputationFunc[T](fn))
}

// Yield returns a computation that is pending once and wakes itself
// immediately, giving every other ready task a turn before it resolves.
func Yield() api.Computation[struct{}] {
	yielded := false
	return Func(func(w api.Waker) api.Poll[struct{}] {
		if !yielded {
			yielded = true
			w.Wake()
			return api.Pending[struct{}]()
		}
		return api.Ready(struct{}{})
	})
}

// Map transforms the result of c.
func Map[A, B any](c api.Computation[A], fn func(A) B) api.Computation[B] {
	return Func(func(w api.Waker) api.Poll[B] {
		p := c.Drive(w)
		if !p.Ready {
			return api.Pending[B]()
		}
		return api.Ready(fn(p.Value))
	})
}

// Discard drops the result of c, which makes it schedulable as a plain task.
func Discard[T any](c api.Computation[T]) api.Computation[struct{}] {
	return Map(c, func(T) struct{} { return struct{}{} })
}
