//go:build linux

// File: reactor/wake_linux.go
// Author: momentics <momentics@gmail.com>
//
// eventfd used to interrupt a blocked poll.

package reactor

import (
	"encoding/binary"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-rt/api"
)

type wakeFD struct {
	fd int
}

func newWakeFD() (*wakeFD, error) {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, api.NewOSError("eventfd", err)
	}
	return &wakeFD{fd: fd}, nil
}

func (w *wakeFD) signal() error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	_, err := unix.Write(w.fd, buf[:])
	if err == unix.EAGAIN {
		// Counter saturated: a wake is already pending.
		return nil
	}
	return api.NewOSError("eventfd write", err)
}

func (w *wakeFD) drain() {
	var buf [8]byte
	_, _ = unix.Read(w.fd, buf[:])
}

func (w *wakeFD) close() error {
	return api.NewOSError("close", unix.Close(w.fd))
}
