//go:build !linux

// File: reactor/wake_stub.go
// Author: momentics <momentics@gmail.com>

package reactor

import "github.com/momentics/hioload-rt/api"

type wakeFD struct {
	fd int
}

func newWakeFD() (*wakeFD, error) { return nil, api.ErrNotSupported }
func (w *wakeFD) signal() error   { return api.ErrNotSupported }
func (w *wakeFD) drain()          {}
func (w *wakeFD) close() error    { return nil }
