// File: executor/waker.go
// Author: momentics <momentics@gmail.com>

package executor

import (
	"sync/atomic"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/concurrency"
)

// WakeHandle re-queues one task of one scheduler. It is a small immutable
// value: copy it freely and fire it from any goroutine.
type WakeHandle struct {
	id     api.TaskID
	ready  *concurrency.ReadyQueue
	parker *concurrency.Parker
	wakes  *atomic.Int64
}

// Wake appends the task id to the ready queue, then unparks the scheduler.
// Firing for a task that already finished costs one skipped queue entry.
func (h WakeHandle) Wake() {
	h.ready.Push(uint64(h.id))
	h.wakes.Add(1)
	h.parker.Unpark()
}

// TaskID returns the task the handle is bound to.
func (h WakeHandle) TaskID() api.TaskID { return h.id }
