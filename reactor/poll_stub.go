//go:build !linux

// File: reactor/poll_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package reactor

import (
	"fmt"
	"time"

	"github.com/momentics/hioload-rt/api"
)

type pollSys struct{}

func newPollSys() (*pollSys, error) {
	return nil, fmt.Errorf("reactor: %w on this platform", api.ErrNotSupported)
}

func (s *pollSys) add(int, api.Token, api.Interest) error    { return api.ErrNotSupported }
func (s *pollSys) modify(int, api.Token, api.Interest) error { return api.ErrNotSupported }
func (s *pollSys) remove(int) error                          { return api.ErrNotSupported }
func (s *pollSys) wait(*Events, time.Duration) error         { return api.ErrNotSupported }
func (s *pollSys) close() error                              { return nil }
