// Package api
// Author: momentics
//
// Scheduling contracts: spawning computations and background timers.

package api

import "time"

// TaskID identifies a task within one scheduler. Ids are assigned in
// increasing order starting at zero.
type TaskID uint64

// Spawner accepts fire-and-forget computations.
type Spawner interface {
	// Schedule queues c for driving and returns its task id.
	Schedule(c Computation[struct{}]) TaskID
}

// TimerSource fires a waker once after a delay.
type TimerSource interface {
	// AfterFunc arranges for w.Wake to be called exactly once after d.
	AfterFunc(d time.Duration, w Waker) error
}
