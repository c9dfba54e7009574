//go:build linux

// File: reactor/io_linux.go
// Author: momentics <momentics@gmail.com>
//
// Non-blocking read and write computations built on WaitFor.

package reactor

import (
	"fmt"
	"io"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/future"
)

// transfer moves bytes between a non-blocking fd and its own buffer,
// waiting on the driver whenever the fd would block. The position inside the
// buffer is a Cursor offset, so the computation may be moved between drives.
type transfer struct {
	d    *Driver
	fd   int
	kind api.Interest
	op   string
	cur  future.Cursor
	wait api.Computation[api.Result[api.Interest]]
	done bool
	call func(fd int, p []byte) (int, error)
}

// ReadFull returns a computation that reads exactly n bytes from fd, which
// must be in non-blocking mode. End of file before n bytes resolves with the
// bytes read so far and io.ErrUnexpectedEOF.
func (d *Driver) ReadFull(fd int, n int) api.Computation[api.Result[[]byte]] {
	return &transfer{d: d, fd: fd, kind: api.EventRead, op: "read", cur: future.NewCursor(n), call: unix.Read}
}

// WriteAll returns a computation that writes all of p to fd, which must be in
// non-blocking mode. p is copied; the result is the number of bytes written.
func (d *Driver) WriteAll(fd int, p []byte) api.Computation[api.Result[int]] {
	buf := make([]byte, len(p))
	copy(buf, p)
	t := &transfer{d: d, fd: fd, kind: api.EventWrite, op: "write", cur: future.CursorOver(buf), call: unix.Write}
	return future.Map[api.Result[[]byte]](t, func(r api.Result[[]byte]) api.Result[int] {
		return api.Result[int]{Value: len(r.Value), Err: r.Err}
	})
}

func (t *transfer) Drive(w api.Waker) api.Poll[api.Result[[]byte]] {
	if t.done {
		panic(api.ErrAlreadyResolved)
	}
	for {
		if t.wait != nil {
			p := t.wait.Drive(w)
			if !p.Ready {
				return api.Pending[api.Result[[]byte]]()
			}
			t.wait = nil
			if p.Value.Err != nil {
				return t.finish(p.Value.Err)
			}
		}
		if t.cur.Full() {
			return t.finish(nil)
		}
		n, err := t.call(t.fd, t.cur.Rest())
		switch {
		case err == unix.EAGAIN:
			t.wait = t.d.WaitFor(t.fd, t.kind)
		case err == unix.EINTR:
		case err != nil:
			return t.finish(api.NewOSError(t.op, err))
		case n == 0 && t.kind == api.EventRead:
			return t.finish(fmt.Errorf("reactor: read fd %d: %w", t.fd, io.ErrUnexpectedEOF))
		default:
			t.cur.Advance(n)
		}
	}
}

func (t *transfer) finish(err error) api.Poll[api.Result[[]byte]] {
	t.done = true
	return api.Ready(api.Result[[]byte]{Value: t.cur.Bytes(), Err: err})
}
