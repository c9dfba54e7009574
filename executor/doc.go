// Package executor
// Author: momentics <momentics@gmail.com>
//
// Cooperative scheduler for api.Computation values.
//
// A Scheduler owns a task table and a FIFO ready queue. Run drains the queue,
// driving each dequeued task exactly once with a WakeHandle bound to it. A
// task that reports pending stays in the table but leaves the queue; it comes
// back only when its WakeHandle fires. When the queue is empty and tasks are
// still live, Run parks until a wake arrives.
//
// Wake handles touch only the ready queue and the parker, never the task
// table, so a wake can be fired from any goroutine while a drive is running.
//
// Pool shards work across several schedulers, one per OS thread.
package executor
