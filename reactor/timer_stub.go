//go:build !linux

// File: reactor/timer_stub.go
// Author: momentics <momentics@gmail.com>

package reactor

import (
	"time"

	"github.com/momentics/hioload-rt/api"
)

// AfterFunc is not available without a timerfd equivalent.
func (d *Driver) AfterFunc(time.Duration, api.Waker) error {
	return api.ErrNotSupported
}
