// File: executor/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool shards computations across independent schedulers, one per OS thread.
// There is no stealing between shards: a task stays on the shard it was
// spawned on for its whole life.

package executor

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-rt/affinity"
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
)

// Pool owns cfg.Workers schedulers.
type Pool struct {
	cfg    control.Config
	shards []*Scheduler
	group  *shardGroup
	next   atomic.Uint64
	probes *control.DebugProbes
	log    *zap.Logger
}

var _ api.Spawner = (*Pool)(nil)

// NewPool creates the shards. Zero fields of cfg take their defaults.
func NewPool(cfg control.Config) (*Pool, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pool{
		cfg:    cfg,
		shards: make([]*Scheduler, cfg.Workers),
		group:  &shardGroup{},
		probes: control.NewDebugProbes(),
		log:    control.Logger().Named("pool"),
	}
	stride := uint64(cfg.Workers)
	for i := range p.shards {
		// Interleaved ids keep task ids unique across the whole pool.
		s := newScheduler(cfg, uint64(i), stride, p.group)
		p.shards[i] = s
		p.group.parkers = append(p.group.parkers, s.parker)
		p.probes.RegisterProbe(fmt.Sprintf("shard.%d", i), func() any { return s.Stats() })
	}
	control.RegisterPlatformProbes(p.probes)
	return p, nil
}

// NumShards returns the number of schedulers.
func (p *Pool) NumShards() int { return len(p.shards) }

// Shard returns the i-th scheduler.
func (p *Pool) Shard(i int) *Scheduler { return p.shards[i] }

// pick chooses the next shard round-robin.
func (p *Pool) pick() *Scheduler {
	n := p.next.Add(1) - 1
	return p.shards[n%uint64(len(p.shards))]
}

// Schedule queues c on the next shard.
func (p *Pool) Schedule(c api.Computation[struct{}]) api.TaskID {
	return Spawn(p.pick(), c).ID()
}

// SpawnIn queues c on the next shard of p and returns a handle to its result.
func SpawnIn[T any](p *Pool, c api.Computation[T]) *JoinHandle[T] {
	return Spawn(p.pick(), c)
}

// Run runs every shard to completion, each on its own locked OS thread.
// It returns once no shard holds a live task, so tasks may spawn onto any
// shard with SpawnIn while the pool runs. The first error of any shard
// cancels the other shards and is returned.
func (p *Pool) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	ncpu := affinity.NumCPU()
	for i, s := range p.shards {
		g.Go(func() error {
			runtime.LockOSThread()
			if p.cfg.PinWorkers {
				cpu := i % ncpu
				if err := affinity.SetAffinity(cpu); err != nil {
					p.log.Warn("pinning shard failed", zap.Int("shard", i), zap.Int("cpu", cpu), zap.Error(err))
				} else {
					// Leave the thread locked: the Go runtime then retires it
					// when the goroutine exits instead of reusing a pinned thread.
					return s.Run(ctx)
				}
			}
			defer runtime.UnlockOSThread()
			return s.Run(ctx)
		})
	}
	return g.Wait()
}

// Len returns the number of live tasks across all shards.
func (p *Pool) Len() int {
	n := 0
	for _, s := range p.shards {
		n += s.Len()
	}
	return n
}

// Stats returns per-shard metric snapshots.
func (p *Pool) Stats() []map[string]any {
	out := make([]map[string]any, len(p.shards))
	for i, s := range p.shards {
		out[i] = s.Stats()
	}
	return out
}

// ProbeNames lists the pool's debug probes in sorted order.
func (p *Pool) ProbeNames() []string {
	return p.probes.Names()
}

// DumpState returns the output of the pool's debug probes.
func (p *Pool) DumpState() map[string]any {
	return p.probes.DumpState()
}
