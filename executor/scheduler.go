// File: executor/scheduler.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-threaded cooperative scheduler: task table, FIFO ready queue, park/unpark.

package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/internal/concurrency"
)

// Metric keys published by a Scheduler.
const (
	MetricScheduled = "tasks.scheduled"
	MetricCompleted = "tasks.completed"
	MetricPanicked  = "tasks.panicked"
	MetricDrives    = "drives"
	MetricStale     = "drives.stale"
	MetricWakes     = "wakes"
	MetricParks     = "parks"
	MetricLive      = "tasks.live"
	MetricQueued    = "queue.len"
)

// Scheduler drives computations to completion on the goroutine calling Run.
type Scheduler struct {
	cfg control.Config
	log *zap.Logger

	mu    sync.Mutex
	tasks map[api.TaskID]task

	nextID   atomic.Uint64
	idStride uint64

	ready   *concurrency.ReadyQueue
	parker  *concurrency.Parker
	running atomic.Bool
	group   *shardGroup

	metrics    *control.MetricsRegistry
	scheduled  *atomic.Int64
	completed  *atomic.Int64
	panicked   *atomic.Int64
	drives     *atomic.Int64
	staleDrive *atomic.Int64
	wakes      *atomic.Int64
	parks      *atomic.Int64
}

var _ api.Spawner = (*Scheduler)(nil)

// NewScheduler creates an idle scheduler. Zero fields of cfg take their defaults.
func NewScheduler(cfg control.Config) *Scheduler {
	return newScheduler(cfg.WithDefaults(), 0, 1, nil)
}

// newScheduler assigns ids base, base+stride, base+2*stride, ...
// g is nil for a standalone scheduler.
func newScheduler(cfg control.Config, base, stride uint64, g *shardGroup) *Scheduler {
	m := control.NewMetricsRegistry()
	s := &Scheduler{
		cfg:        cfg,
		log:        control.Logger().Named("executor"),
		tasks:      make(map[api.TaskID]task),
		idStride:   stride,
		ready:      concurrency.NewReadyQueue(),
		parker:     concurrency.NewParker(),
		group:      g,
		metrics:    m,
		scheduled:  m.Counter(MetricScheduled),
		completed:  m.Counter(MetricCompleted),
		panicked:   m.Counter(MetricPanicked),
		drives:     m.Counter(MetricDrives),
		staleDrive: m.Counter(MetricStale),
		wakes:      m.Counter(MetricWakes),
		parks:      m.Counter(MetricParks),
	}
	s.nextID.Store(base)
	return s
}

// Schedule queues c and returns its task id. Safe from any goroutine,
// including from inside a Drive call of another task.
func (s *Scheduler) Schedule(c api.Computation[struct{}]) api.TaskID {
	return Spawn(s, c).ID()
}

// Spawn queues c on s and returns a handle to its result.
func Spawn[T any](s *Scheduler, c api.Computation[T]) *JoinHandle[T] {
	id := api.TaskID(s.nextID.Add(s.idStride) - s.idStride)
	h := newJoinHandle[T](id)
	s.group.spawned()

	s.mu.Lock()
	s.tasks[id] = &typedTask[T]{c: c, h: h}
	s.mu.Unlock()

	s.scheduled.Add(1)
	s.ready.Push(uint64(id))
	s.parker.Unpark()
	return h
}

// Run drives every scheduled task, including tasks spawned while it runs,
// until the task table is empty. It parks while tasks are live but none is
// ready. A shard of a Pool also parks on an empty table while other shards
// still hold live tasks. Cancelling ctx tears the run down: Run returns ctx.Err() and the
// remaining tasks stay in the table for a later Run.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return api.ErrAlreadyRunning
	}
	defer s.running.Store(false)

	for {
		for {
			id, ok := s.ready.Pop()
			if !ok {
				break
			}
			s.driveOne(api.TaskID(id))
		}

		live := s.Len()
		if live == 0 && !s.group.busy() {
			s.log.Debug("all tasks done")
			return nil
		}

		s.parks.Add(1)
		s.log.Debug("parking", zap.Int("live", live))
		if err := s.parker.Park(ctx); err != nil {
			return err
		}
		s.log.Debug("unparked", zap.Int("queued", s.ready.Len()))
	}
}

// Block runs to completion without a deadline.
func (s *Scheduler) Block() {
	_ = s.Run(context.Background())
}

// Len returns the number of live tasks. The task being driven at the moment
// of the call is not counted.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Stats returns a snapshot of the scheduler metrics.
func (s *Scheduler) Stats() map[string]any {
	s.metrics.Set(MetricLive, s.Len())
	s.metrics.Set(MetricQueued, s.ready.Len())
	return s.metrics.GetSnapshot()
}

func (s *Scheduler) driveOne(id api.TaskID) {
	s.mu.Lock()
	t, ok := s.tasks[id]
	if ok {
		delete(s.tasks, id)
	}
	s.mu.Unlock()

	if !ok {
		// Duplicate wake for a task that already finished or is queued twice.
		s.staleDrive.Add(1)
		return
	}

	s.drives.Add(1)
	w := WakeHandle{id: id, ready: s.ready, parker: s.parker, wakes: s.wakes}
	if s.drive(id, t, w) {
		s.group.finished()
		return
	}

	s.mu.Lock()
	s.tasks[id] = t
	s.mu.Unlock()
}

// drive runs one step of t. A panic is turned into a failed result for that
// task only, unless the configuration asks for panics to propagate.
func (s *Scheduler) drive(id api.TaskID, t task, w WakeHandle) (done bool) {
	if s.cfg.PropagatePanics {
		done = t.drive(w)
		if done {
			s.completed.Add(1)
		}
		return done
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if err, ok := r.(error); ok && errors.Is(err, api.ErrAlreadyResolved) {
			panic(r)
		}
		s.panicked.Add(1)
		s.log.Error("task panicked",
			zap.Uint64("task", uint64(id)),
			zap.Any("panic", r),
			zap.ByteString("stack", debug.Stack()))
		t.fail(panicError(id, r))
		done = true
	}()

	done = t.drive(w)
	if done {
		s.completed.Add(1)
	}
	return done
}

func panicError(id api.TaskID, r any) *api.Error {
	var e *api.Error
	if err, ok := r.(error); ok {
		e = api.NewError(api.ErrCodeTaskPanic, "task panicked").WithCause(err)
	} else {
		e = api.NewError(api.ErrCodeTaskPanic, fmt.Sprintf("task panicked: %v", r))
	}
	e.Op = "drive"
	return e.WithContext("task", uint64(id))
}
