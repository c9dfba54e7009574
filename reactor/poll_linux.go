//go:build linux

// File: reactor/poll_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7) backend.

package reactor

import (
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rt/api"
)

type pollSys struct {
	epfd int
	// scratch is taken by a wait and put back afterwards; a concurrent wait
	// finds it empty and allocates its own.
	scratch atomic.Pointer[[]unix.EpollEvent]
}

func newPollSys() (*pollSys, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, api.NewOSError("epoll_create1", err)
	}
	return &pollSys{epfd: epfd}, nil
}

func (s *pollSys) add(fd int, token api.Token, interest api.Interest) error {
	return s.ctl("epoll_ctl add", unix.EPOLL_CTL_ADD, fd, token, interest)
}

func (s *pollSys) modify(fd int, token api.Token, interest api.Interest) error {
	return s.ctl("epoll_ctl mod", unix.EPOLL_CTL_MOD, fd, token, interest)
}

func (s *pollSys) remove(fd int) error {
	// A non-nil event keeps kernels before 2.6.9 happy.
	var ev unix.EpollEvent
	return api.NewOSError("epoll_ctl del", unix.EpollCtl(s.epfd, unix.EPOLL_CTL_DEL, fd, &ev))
}

func (s *pollSys) ctl(name string, op, fd int, token api.Token, interest api.Interest) error {
	ev := unix.EpollEvent{Events: toEpoll(interest)}
	setToken(&ev, token)
	return api.NewOSError(name, unix.EpollCtl(s.epfd, op, fd, &ev))
}

func (s *pollSys) wait(events *Events, timeout time.Duration) error {
	buf := s.scratch.Swap(nil)
	if buf == nil || cap(*buf) < events.Cap() {
		b := make([]unix.EpollEvent, events.Cap())
		buf = &b
	}
	defer s.scratch.Store(buf)
	raw := (*buf)[:events.Cap()]

	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		n, err := unix.EpollWait(s.epfd, raw, timeoutMillis(timeout))
		if err == unix.EINTR {
			// The Go runtime interrupts threads with signals; resume with
			// whatever time is left.
			if timeout >= 0 {
				if timeout = time.Until(deadline); timeout < 0 {
					return nil
				}
			}
			continue
		}
		if err != nil {
			return api.NewOSError("epoll_wait", err)
		}
		for i := 0; i < n; i++ {
			events.push(api.Event{Token: tokenOf(&raw[i]), Kind: fromEpoll(raw[i].Events)})
		}
		return nil
	}
}

func (s *pollSys) close() error {
	return api.NewOSError("close", unix.Close(s.epfd))
}

// The 64-bit epoll_data union is split across Fd and Pad in x/sys.
func setToken(ev *unix.EpollEvent, t api.Token) {
	ev.Fd = int32(uint32(t))
	ev.Pad = int32(uint32(t >> 32))
}

func tokenOf(ev *unix.EpollEvent) api.Token {
	return api.Token(uint32(ev.Fd)) | api.Token(uint32(ev.Pad))<<32
}

func toEpoll(i api.Interest) uint32 {
	var e uint32
	if i&api.EventRead != 0 {
		e |= unix.EPOLLIN | unix.EPOLLRDHUP
	}
	if i&api.EventWrite != 0 {
		e |= unix.EPOLLOUT
	}
	if i&api.EventOneshot != 0 {
		e |= unix.EPOLLONESHOT
	}
	return e
}

func fromEpoll(e uint32) api.Interest {
	var i api.Interest
	if e&unix.EPOLLIN != 0 {
		i |= api.EventRead
	}
	if e&unix.EPOLLOUT != 0 {
		i |= api.EventWrite
	}
	if e&unix.EPOLLERR != 0 {
		i |= api.EventError
	}
	if e&(unix.EPOLLHUP|unix.EPOLLRDHUP) != 0 {
		i |= api.EventHangup
	}
	return i
}
