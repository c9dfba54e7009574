// File: internal/concurrency/ready_queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// FIFO of task ids shared between a scheduler and any number of wakers.

package concurrency

import (
	"sync"

	"github.com/eapache/queue"
)

// ReadyQueue is a mutex-guarded FIFO of task ids.
// Duplicates are allowed; consumers must tolerate ids that are no longer live.
type ReadyQueue struct {
	mu sync.Mutex
	q  *queue.Queue
}

// NewReadyQueue creates an empty queue.
func NewReadyQueue() *ReadyQueue {
	return &ReadyQueue{q: queue.New()}
}

// Push appends id at the tail.
func (rq *ReadyQueue) Push(id uint64) {
	rq.mu.Lock()
	rq.q.Add(id)
	rq.mu.Unlock()
}

// Pop removes the head. ok is false when the queue is empty.
func (rq *ReadyQueue) Pop() (id uint64, ok bool) {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	if rq.q.Length() == 0 {
		return 0, false
	}
	return rq.q.Remove().(uint64), true
}

// Len returns the number of queued ids, duplicates included.
func (rq *ReadyQueue) Len() int {
	rq.mu.Lock()
	defer rq.mu.Unlock()
	return rq.q.Length()
}
