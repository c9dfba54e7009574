package future

import (
	"sync/atomic"

	"github.com/momentics/hioload-rt/api"
)

// countingWaker counts wakes; tests drive computations by hand with it.
type countingWaker struct{ n atomic.Int32 }

func (w *countingWaker) Wake() { w.n.Add(1) }

// gate is a computation that stays pending until opened, then fires the last
// waker it was given.
type gate struct {
	open  bool
	waker api.Waker
	done  bool
}

func (g *gate) Drive(w api.Waker) api.Poll[struct{}] {
	if g.done {
		panic(api.ErrAlreadyResolved)
	}
	if !g.open {
		g.waker = w
		return api.Pending[struct{}]()
	}
	g.done = true
	return api.Ready(struct{}{})
}

func (g *gate) Open() {
	g.open = true
	if g.waker != nil {
		g.waker.Wake()
	}
}
