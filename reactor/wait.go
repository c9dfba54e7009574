// File: reactor/wait.go
// Author: momentics <momentics@gmail.com>

package reactor

import (
	"go.uber.org/zap"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/future"
)

type waitFor struct {
	d        *Driver
	fd       int
	interest api.Interest
	tok      api.Token
	phase    future.Phase
}

// WaitFor returns a computation that resolves once fd shows any of the
// requested readiness kinds. The first drive registers fd; the registration
// is removed again before the computation resolves, so fd can be waited on
// afresh afterwards. The result carries the observed kinds, or the error of a
// failed registration. Only one WaitFor per fd may be outstanding.
func (d *Driver) WaitFor(fd int, interest api.Interest) api.Computation[api.Result[api.Interest]] {
	return &waitFor{d: d, fd: fd, interest: interest}
}

func (wf *waitFor) Drive(w api.Waker) api.Poll[api.Result[api.Interest]] {
	switch wf.phase {
	case future.PhaseStart:
		tok, err := wf.d.register(wf.fd, wf.interest, w, nil)
		if err != nil {
			wf.phase = future.PhaseResolved
			return api.Ready(api.Fail[api.Interest](err))
		}
		wf.tok = tok
		wf.phase = future.Waiting(1)
		return api.Pending[api.Result[api.Interest]]()

	case future.Waiting(1):
		kinds, done, err := wf.d.poll(wf.tok, w)
		if !done {
			return api.Pending[api.Result[api.Interest]]()
		}
		wf.phase = future.PhaseResolved
		if err != nil {
			return api.Ready(api.Fail[api.Interest](err))
		}
		if derr := wf.d.poller.Deregister(wf.fd); derr != nil {
			// The caller may have closed fd already, which deregisters it.
			wf.d.log.Debug("deregister after readiness", zap.Int("fd", wf.fd), zap.Error(derr))
		}
		return api.Ready(api.Ok(kinds))

	default:
		panic(api.ErrAlreadyResolved)
	}
}

// Phase reports the current phase.
func (wf *waitFor) Phase() future.Phase { return wf.phase }
