// File: future/join.go
// Author: momentics <momentics@gmail.com>

package future

import "github.com/momentics/hioload-rt/api"

type join[T any] struct {
	children []api.Computation[T]
	results  []T
	left     int
	done     bool
}

// Join drives every child with the same waker and resolves once all of them
// are done. Results keep the order of cs.
func Join[T any](cs ...api.Computation[T]) api.Computation[[]T] {
	return &join[T]{
		children: cs,
		results:  make([]T, len(cs)),
		left:     len(cs),
	}
}

func (j *join[T]) Drive(w api.Waker) api.Poll[[]T] {
	if j.done {
		panic(api.ErrAlreadyResolved)
	}
	for i, c := range j.children {
		if c == nil {
			continue
		}
		if p := c.Drive(w); p.Ready {
			j.results[i] = p.Value
			j.children[i] = nil
			j.left--
		}
	}
	if j.left > 0 {
		return api.Pending[[]T]()
	}
	j.done = true
	return api.Ready(j.results)
}
