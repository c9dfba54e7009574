// File: timer/delay.go
// Author: momentics <momentics@gmail.com>

package timer

import (
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/future"
)

type delay struct {
	src   api.TimerSource
	d     time.Duration
	phase future.Phase
	fired atomic.Bool
}

// Delay returns a computation that arms src for d on its first drive and
// resolves once src fired. An arming error resolves immediately with it.
func Delay(src api.TimerSource, d time.Duration) api.Computation[error] {
	return &delay{src: src, d: d}
}

func (t *delay) Drive(w api.Waker) api.Poll[error] {
	switch t.phase {
	case future.PhaseStart:
		t.phase = future.Waiting(1)
		err := t.src.AfterFunc(t.d, api.WakerFunc(func() {
			t.fired.Store(true)
			w.Wake()
		}))
		if err != nil {
			t.phase = future.PhaseResolved
			return api.Ready(err)
		}
		if t.fired.Load() {
			t.phase = future.PhaseResolved
			return api.Ready[error](nil)
		}
		return api.Pending[error]()
	case future.Waiting(1):
		if !t.fired.Load() {
			return api.Pending[error]()
		}
		t.phase = future.PhaseResolved
		return api.Ready[error](nil)
	default:
		panic(api.ErrAlreadyResolved)
	}
}

func (t *delay) Phase() future.Phase { return t.phase }
