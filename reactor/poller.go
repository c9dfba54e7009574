// File: reactor/poller.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral front of the OS event queue.

package reactor

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
)

// Poller owns one OS event queue.
type Poller struct {
	sys    *pollSys
	closed atomic.Bool
	log    *zap.Logger
}

var _ api.Registry = (*Poller)(nil)

// New allocates the OS event queue. OS failures are returned as *api.Error
// with code api.ErrCodeOS.
func New() (*Poller, error) {
	sys, err := newPollSys()
	if err != nil {
		return nil, err
	}
	return &Poller{sys: sys, log: control.Logger().Named("reactor")}, nil
}

// Register associates fd with token for the given interest. Registering the
// same fd twice fails with the OS error (EEXIST on Linux).
func (p *Poller) Register(fd int, token api.Token, interest api.Interest) error {
	if err := p.check(fd); err != nil {
		return err
	}
	return p.sys.add(fd, token, interest)
}

// Reregister replaces token and interest of an fd that is already registered.
// It also re-arms a oneshot registration.
func (p *Poller) Reregister(fd int, token api.Token, interest api.Interest) error {
	if err := p.check(fd); err != nil {
		return err
	}
	return p.sys.modify(fd, token, interest)
}

// Deregister removes fd from the queue. Closing fd removes it implicitly.
func (p *Poller) Deregister(fd int) error {
	if err := p.check(fd); err != nil {
		return err
	}
	return p.sys.remove(fd)
}

// Poll blocks until at least one registered interest is ready or timeout
// elapses, then fills events with what was observed. A negative timeout
// blocks indefinitely. On timeout events is left empty and the error is nil.
// Several goroutines may poll one Poller at once, each with its own batch.
func (p *Poller) Poll(events *Events, timeout time.Duration) error {
	if p.closed.Load() {
		return api.ErrReactorClosed
	}
	if events == nil {
		return fmt.Errorf("reactor: nil event batch: %w", api.ErrInvalidArgument)
	}
	events.reset()
	return p.sys.wait(events, timeout)
}

// Close releases the OS event queue. A failure to close is logged, not
// returned: teardown must not fail the caller. Close is idempotent.
func (p *Poller) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	if err := p.sys.close(); err != nil {
		p.log.Error("closing event queue", zap.Error(err))
	}
}

func (p *Poller) check(fd int) error {
	if p.closed.Load() {
		return api.ErrReactorClosed
	}
	if fd < 0 {
		return fmt.Errorf("reactor: fd %d: %w", fd, api.ErrInvalidArgument)
	}
	return nil
}

// timeoutMillis converts a poll timeout to the millisecond form the OS
// expects, rounding up so short timeouts do not turn into busy polling.
func timeoutMillis(d time.Duration) int {
	if d < 0 {
		return -1
	}
	ms := (d + time.Millisecond - 1) / time.Millisecond
	if ms > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(ms)
}
