// File: timer/service.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package timer

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
)

// entry is one armed deadline.
type entry struct {
	at    time.Time
	seq   uint64
	waker api.Waker
	index int
}

// deadlines is a min-heap ordered by deadline, then by arming order.
type deadlines []*entry

func (h deadlines) Len() int { return len(h) }
func (h deadlines) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}
func (h deadlines) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *deadlines) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *deadlines) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Service is an api.TimerSource running every deadline on one goroutine.
type Service struct {
	mu     sync.Mutex
	pq     deadlines
	seq    uint64
	wakeup chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	log    *zap.Logger
}

var _ api.TimerSource = (*Service)(nil)

// NewService starts the timer goroutine. Call Stop to release it.
func NewService() *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		wakeup: make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		log:    control.Logger().Named("timer"),
	}
	go s.loop()
	return s
}

// AfterFunc arms w to fire once after d.
func (s *Service) AfterFunc(d time.Duration, w api.Waker) error {
	if w == nil {
		return api.ErrInvalidArgument
	}
	if s.ctx.Err() != nil {
		return api.ErrTimerStopped
	}

	s.mu.Lock()
	s.seq++
	e := &entry{at: time.Now().Add(d), seq: s.seq, waker: w}
	heap.Push(&s.pq, e)
	head := e.index == 0
	s.mu.Unlock()

	if head {
		select {
		case s.wakeup <- struct{}{}:
		default:
		}
	}
	return nil
}

// Len returns the number of armed deadlines.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pq)
}

// Stop ends the timer goroutine. Armed deadlines are dropped without firing.
func (s *Service) Stop() {
	s.cancel()
	<-s.done

	s.mu.Lock()
	dropped := len(s.pq)
	s.pq = nil
	s.mu.Unlock()
	if dropped > 0 {
		s.log.Debug("timer service stopped with armed deadlines", zap.Int("dropped", dropped))
	}
}

func (s *Service) loop() {
	defer close(s.done)

	t := time.NewTimer(time.Hour)
	t.Stop()

	for {
		if wait, ok := s.fireExpired(); ok {
			t.Reset(wait)
		} else {
			t.Stop()
		}

		select {
		case <-s.ctx.Done():
			t.Stop()
			return
		case <-t.C:
		case <-s.wakeup:
		}
	}
}

// fireExpired fires every deadline that passed and returns the time until
// the next one. ok is false when nothing is armed.
func (s *Service) fireExpired() (wait time.Duration, ok bool) {
	s.mu.Lock()
	now := time.Now()
	var expired []api.Waker
	for len(s.pq) > 0 {
		head := s.pq[0]
		if head.at.After(now) {
			wait, ok = head.at.Sub(now), true
			break
		}
		heap.Pop(&s.pq)
		expired = append(expired, head.waker)
	}
	s.mu.Unlock()

	// Fire outside the lock: a waker may arm the next timer.
	for _, w := range expired {
		w.Wake()
	}
	return wait, ok
}
