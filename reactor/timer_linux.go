//go:build linux

// File: reactor/timer_linux.go
// Author: momentics <momentics@gmail.com>
//
// timerfd-backed timers dispatched by the same loop as I/O readiness.

package reactor

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rt/api"
)

var _ api.TimerSource = (*Driver)(nil)

// AfterFunc fires w once after dur, using a timerfd registered with the
// driver instead of a sleeping goroutine.
func (d *Driver) AfterFunc(dur time.Duration, w api.Waker) error {
	if dur <= 0 {
		// A zero timerfd value disarms the timer instead of firing it.
		w.Wake()
		return nil
	}
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return api.NewOSError("timerfd_create", err)
	}
	spec := unix.ItimerSpec{Value: unix.NsecToTimespec(dur.Nanoseconds())}
	if err := unix.TimerfdSettime(fd, 0, &spec, nil); err != nil {
		_ = unix.Close(fd)
		return api.NewOSError("timerfd_settime", err)
	}
	release := func() {
		// Closing the fd also drops its epoll registration.
		if err := unix.Close(fd); err != nil {
			d.log.Error("closing timerfd", zap.Int("fd", fd), zap.Error(err))
		}
	}
	// register runs release itself when it fails.
	_, err = d.register(fd, api.EventRead, w, release)
	return err
}
