// Package benchmarks
// Author: momentics <momentics@gmail.com>
//
// Performance benchmarks for hioload-rt components.

package benchmarks

import (
	"context"
	"testing"
	"time"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/executor"
	"github.com/momentics/hioload-rt/future"
	"github.com/momentics/hioload-rt/internal/concurrency"
	"github.com/momentics/hioload-rt/reactor"
)

// BenchmarkReadyQueue measures contended push/pop on the ready queue.
func BenchmarkReadyQueue(b *testing.B) {
	rq := concurrency.NewReadyQueue()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		var i uint64
		for pb.Next() {
			rq.Push(i)
			rq.Pop()
			i++
		}
	})
}

// BenchmarkSchedulerSpawnRun measures spawning and driving trivial tasks.
func BenchmarkSchedulerSpawnRun(b *testing.B) {
	s := executor.NewScheduler(control.Config{})
	const batch = 1024

	b.ResetTimer()
	for i := 0; i < b.N; i += batch {
		for j := 0; j < batch; j++ {
			s.Schedule(future.Yield())
		}
		if err := s.Run(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkCrossThreadWake measures a wake fired from another goroutine
// through to the task's next drive.
func BenchmarkCrossThreadWake(b *testing.B) {
	s := executor.NewScheduler(control.Config{})
	wakers := make(chan api.Waker, 1)
	remaining := b.N

	s.Schedule(api.ComputationFunc[struct{}](func(w api.Waker) api.Poll[struct{}] {
		if remaining == 0 {
			close(wakers)
			return api.Ready(struct{}{})
		}
		remaining--
		wakers <- w
		return api.Pending[struct{}]()
	}))
	go func() {
		for w := range wakers {
			w.Wake()
		}
	}()

	b.ResetTimer()
	if err := s.Run(context.Background()); err != nil {
		b.Fatal(err)
	}
}

// BenchmarkPoolThroughput measures the sharded pool on all CPUs.
func BenchmarkPoolThroughput(b *testing.B) {
	p, err := executor.NewPool(control.Config{})
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		p.Schedule(future.Yield())
	}

	b.ResetTimer()
	if err := p.Run(context.Background()); err != nil {
		b.Fatal(err)
	}
}

// BenchmarkEmptyPoll measures one non-blocking poll of an idle event queue.
func BenchmarkEmptyPoll(b *testing.B) {
	p, err := reactor.New()
	if err != nil {
		b.Skip(err)
	}
	defer p.Close()
	events := reactor.NewEvents(64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := p.Poll(events, 0); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkReactorTimer measures a timerfd round trip through the driver.
func BenchmarkReactorTimer(b *testing.B) {
	d, err := reactor.NewDriver(control.Config{})
	if err != nil {
		b.Skip(err)
	}
	d.Start()
	defer d.Close()

	fired := make(chan struct{}, 1)
	w := api.WakerFunc(func() { fired <- struct{}{} })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := d.AfterFunc(time.Microsecond, w); err != nil {
			b.Fatal(err)
		}
		<-fired
	}
}
