// File: future/then.go
// Author: momentics <momentics@gmail.com>

package future

import "github.com/momentics/hioload-rt/api"

// then is the two-suspension-point machine behind Then.
type then[A, B any] struct {
	phase  Phase
	first  api.Computation[A]
	next   func(A) api.Computation[B]
	second api.Computation[B]
}

// Then runs first, feeds its result to next and runs the computation next
// returns. next is called exactly once, after first is done.
func Then[A, B any](first api.Computation[A], next func(A) api.Computation[B]) api.Computation[B] {
	return &then[A, B]{first: first, next: next}
}

func (t *then[A, B]) Drive(w api.Waker) api.Poll[B] {
	for {
		switch t.phase {
		case PhaseStart:
			t.phase = Waiting(1)
		case Waiting(1):
			p := t.first.Drive(w)
			if !p.Ready {
				return api.Pending[B]()
			}
			t.second = t.next(p.Value)
			t.first, t.next = nil, nil
			t.phase = Waiting(2)
		case Waiting(2):
			p := t.second.Drive(w)
			if !p.Ready {
				return api.Pending[B]()
			}
			t.second = nil
			t.phase = PhaseResolved
			return p
		default:
			panic(api.ErrAlreadyResolved)
		}
	}
}

// PhaseOf reports the current phase of c when c is one of the machines of this package.
func PhaseOf(c any) (Phase, bool) {
	type phased interface{ Phase() Phase }
	if p, ok := c.(phased); ok {
		return p.Phase(), true
	}
	return 0, false
}

func (t *then[A, B]) Phase() Phase { return t.phase }
