// File: timer/sleep.go
// Author: momentics <momentics@gmail.com>

package timer

import (
	"time"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/future"
)

type sleep struct {
	d     time.Duration
	phase future.Phase
	fired chan struct{}
}

// Sleep returns a computation that resolves no earlier than d after its
// first drive. The first drive starts a goroutine that waits out d and fires
// the waker exactly once.
func Sleep(d time.Duration) api.Computation[struct{}] {
	return &sleep{d: d}
}

func (s *sleep) Drive(w api.Waker) api.Poll[struct{}] {
	switch s.phase {
	case future.PhaseStart:
		s.fired = make(chan struct{})
		s.phase = future.Waiting(1)
		go func(d time.Duration, fired chan<- struct{}) {
			time.Sleep(d)
			close(fired)
			w.Wake()
		}(s.d, s.fired)
		return api.Pending[struct{}]()
	case future.Waiting(1):
		select {
		case <-s.fired:
			s.phase = future.PhaseResolved
			return api.Ready(struct{}{})
		default:
			// Driven by someone else's wake; the timer goroutine still holds
			// the first waker and will fire it.
			return api.Pending[struct{}]()
		}
	default:
		panic(api.ErrAlreadyResolved)
	}
}

func (s *sleep) Phase() future.Phase { return s.phase }
