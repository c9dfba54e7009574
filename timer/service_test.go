package timer_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/executor"
	"github.com/momentics/hioload-rt/fake"
	"github.com/momentics/hioload-rt/future"
	"github.com/momentics/hioload-rt/timer"
)

func executorConfig() control.Config { return control.Config{} }

func TestService_FiresInDeadlineOrder(t *testing.T) {
	svc := timer.NewService()
	defer svc.Stop()

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	for _, n := range []int{30, 10, 20, 10} {
		wg.Add(1)
		require.NoError(t, svc.AfterFunc(time.Duration(n)*time.Millisecond, api.WakerFunc(func() {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			wg.Done()
		})))
	}
	wg.Wait()
	assert.Equal(t, []int{10, 10, 20, 30}, order)
	assert.Zero(t, svc.Len())
}

func TestService_ZeroDurationFiresPromptly(t *testing.T) {
	svc := timer.NewService()
	defer svc.Stop()

	done := make(chan struct{})
	require.NoError(t, svc.AfterFunc(0, api.WakerFunc(func() { close(done) })))
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("zero timer never fired")
	}
}

func TestService_StopDropsArmedTimers(t *testing.T) {
	svc := timer.NewService()
	fired := make(chan struct{}, 1)
	require.NoError(t, svc.AfterFunc(time.Hour, api.WakerFunc(func() { fired <- struct{}{} })))
	assert.Equal(t, 1, svc.Len())

	svc.Stop()
	svc.Stop()
	assert.Zero(t, svc.Len())
	assert.ErrorIs(t, svc.AfterFunc(time.Millisecond, api.NoopWaker), api.ErrTimerStopped)
	assert.ErrorIs(t, svc.AfterFunc(time.Millisecond, nil), api.ErrInvalidArgument)
	assert.Empty(t, fired)
}

func TestDelay_WithService(t *testing.T) {
	svc := timer.NewService()
	defer svc.Stop()

	s := executor.NewScheduler(executorConfig())
	var log []string
	seq := future.Seq(
		future.Stage{
			Name:  "long",
			Await: func() api.Computation[struct{}] { return future.Discard(timer.Delay(svc, 20*time.Millisecond)) },
			Exit:  func() { log = append(log, "long") },
		},
	)
	s.Schedule(seq)
	s.Schedule(future.Seq(future.Stage{
		Await: func() api.Computation[struct{}] { return future.Discard(timer.Delay(svc, 5*time.Millisecond)) },
		Exit:  func() { log = append(log, "short") },
	}))

	start := time.Now()
	require.NoError(t, s.Run(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, []string{"short", "long"}, log)
}

func TestDelay_ArmingErrorResolvesImmediately(t *testing.T) {
	svc := timer.NewService()
	svc.Stop()

	p := timer.Delay(svc, time.Second).Drive(api.NoopWaker)
	require.True(t, p.Ready)
	assert.ErrorIs(t, p.Value, api.ErrTimerStopped)
}

func TestDelay_ManualClock(t *testing.T) {
	clock := &fake.FakeTimers{}
	var wakes int
	w := api.WakerFunc(func() { wakes++ })

	d := timer.Delay(clock, 3*time.Second)
	require.True(t, d.Drive(w).IsPending())
	assert.Equal(t, 1, clock.Armed())

	assert.Zero(t, clock.Advance(2*time.Second))
	require.True(t, d.Drive(w).IsPending(), "spurious drive before the deadline")

	assert.Equal(t, 1, clock.Advance(time.Second))
	assert.Equal(t, 1, wakes)
	p := d.Drive(w)
	require.True(t, p.Ready)
	assert.NoError(t, p.Value)

	ph, _ := future.PhaseOf(d)
	assert.Equal(t, future.PhaseResolved, ph)
}

func TestDelay_ManualClockArmingError(t *testing.T) {
	clock := &fake.FakeTimers{Err: api.ErrNotSupported}
	p := timer.Delay(clock, time.Second).Drive(api.NoopWaker)
	require.True(t, p.Ready)
	assert.ErrorIs(t, p.Value, api.ErrNotSupported)
}
