package executor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/executor"
	"github.com/momentics/hioload-rt/future"
	"github.com/momentics/hioload-rt/timer"
)

func TestPool_RunsEveryShardToCompletion(t *testing.T) {
	p, err := executor.NewPool(control.Config{Workers: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, p.NumShards())

	const n = 30
	handles := make([]*executor.JoinHandle[int], n)
	for i := range handles {
		handles[i] = executor.SpawnIn(p, future.Then(future.Yield(), func(struct{}) api.Computation[int] {
			return future.Ready(i * i)
		}))
	}
	assert.Equal(t, n, p.Len())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, p.Run(ctx))

	ids := make(map[api.TaskID]bool, n)
	for i, h := range handles {
		v, err := h.Result()
		require.NoError(t, err)
		assert.Equal(t, i*i, v)
		assert.False(t, ids[h.ID()], "duplicate task id %d", h.ID())
		ids[h.ID()] = true
	}

	var completed int64
	for _, st := range p.Stats() {
		completed += st[executor.MetricCompleted].(int64)
		assert.EqualValues(t, n/3, st[executor.MetricScheduled], "round-robin placement")
	}
	assert.EqualValues(t, n, completed)
	assert.Zero(t, p.Len())

	state := p.DumpState()
	assert.Contains(t, state, "shard.0")
	assert.Contains(t, state, "shard.2")
	assert.Contains(t, state, "platform.cpus")
	assert.Contains(t, p.ProbeNames(), "shard.1")
}

func TestPool_AwaitsChildSpawnedOnAnotherShard(t *testing.T) {
	p, err := executor.NewPool(control.Config{Workers: 2})
	require.NoError(t, err)

	var child *executor.JoinHandle[int]
	parent := executor.SpawnIn(p, future.Then(timer.Sleep(20*time.Millisecond),
		func(struct{}) api.Computation[api.Result[int]] {
			// Round-robin puts the child on the other shard, which has been
			// idle since the run started.
			child = executor.SpawnIn(p, future.Ready(7))
			return child.Await()
		}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Run(ctx))

	res, err := parent.Result()
	require.NoError(t, err)
	require.NoError(t, res.Err)
	assert.Equal(t, 7, res.Value)
	assert.NotEqual(t, parent.ID()%2, child.ID()%2, "child ran on the parent's shard")
	assert.Zero(t, p.Len())
	assert.EqualValues(t, 1, p.Shard(1).Stats()[executor.MetricCompleted])
}

func TestPool_RunWaitsForDetachedSpawns(t *testing.T) {
	p, err := executor.NewPool(control.Config{Workers: 3})
	require.NoError(t, err)

	var children []*executor.JoinHandle[int]
	p.Schedule(future.Map(timer.Sleep(20*time.Millisecond), func(struct{}) struct{} {
		for i := range 4 {
			children = append(children, executor.SpawnIn(p,
				future.Map(timer.Sleep(time.Millisecond), func(struct{}) int { return i })))
		}
		return struct{}{}
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Run(ctx))

	assert.Zero(t, p.Len())
	require.Len(t, children, 4)
	for i, h := range children {
		select {
		case <-h.Done():
		default:
			t.Fatalf("child %d still pending after Run", i)
		}
		v, err := h.Result()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
}

func TestPool_PinnedWorkers(t *testing.T) {
	p, err := executor.NewPool(control.Config{Workers: 2, PinWorkers: true})
	require.NoError(t, err)

	h := executor.SpawnIn(p, future.Map(timer.Sleep(time.Millisecond), func(struct{}) string { return "ok" }))
	p.Schedule(future.Yield())

	require.NoError(t, p.Run(context.Background()))
	v, err := h.Result()
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestPool_CancelStopsAllShards(t *testing.T) {
	p, err := executor.NewPool(control.Config{Workers: 2})
	require.NoError(t, err)
	p.Schedule(newParked())
	p.Schedule(newParked())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Run(ctx), context.DeadlineExceeded)
	assert.Equal(t, 2, p.Len())
}

func TestPool_RejectsInvalidConfig(t *testing.T) {
	_, err := executor.NewPool(control.Config{Workers: -1})
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestBlockOn(t *testing.T) {
	v, err := executor.BlockOn(context.Background(),
		future.Map(timer.Sleep(unit), func(struct{}) int { return 5 }))
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = executor.BlockOn[struct{}](ctx, newParked())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
