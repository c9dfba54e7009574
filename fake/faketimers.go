// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"sort"
	"sync"
	"time"

	"github.com/momentics/hioload-rt/api"
)

// FakeTimers is a manual-clock api.TimerSource. Nothing fires until Advance
// moves the clock past a deadline.
type FakeTimers struct {
	mu    sync.Mutex
	now   time.Duration
	armed []fakeTimer
	Err   error // returned by AfterFunc when set
}

type fakeTimer struct {
	at time.Duration
	w  api.Waker
}

var _ api.TimerSource = (*FakeTimers)(nil)

// AfterFunc arms w for d past the current fake time.
func (f *FakeTimers) AfterFunc(d time.Duration, w api.Waker) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.armed = append(f.armed, fakeTimer{at: f.now + d, w: w})
	return nil
}

// Advance moves the clock by d and fires every expired waker in deadline order.
// It returns the number of wakers fired.
func (f *FakeTimers) Advance(d time.Duration) int {
	f.mu.Lock()
	f.now += d
	sort.SliceStable(f.armed, func(i, j int) bool { return f.armed[i].at < f.armed[j].at })
	n := 0
	for n < len(f.armed) && f.armed[n].at <= f.now {
		n++
	}
	expired := append([]fakeTimer(nil), f.armed[:n]...)
	f.armed = f.armed[n:]
	f.mu.Unlock()

	for _, t := range expired {
		t.w.Wake()
	}
	return n
}

// Armed returns the number of timers waiting to fire.
func (f *FakeTimers) Armed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.armed)
}
