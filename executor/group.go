// File: executor/group.go
// Author: momentics <momentics@gmail.com>

package executor

import (
	"sync/atomic"

	"github.com/momentics/hioload-rt/internal/concurrency"
)

// shardGroup counts live tasks across the shards of a Pool. A shard with an
// empty table keeps parking while the group is busy, since a task on another
// shard may still spawn onto it.
type shardGroup struct {
	live    atomic.Int64
	parkers []*concurrency.Parker
}

// spawned must be called before the task becomes visible to any shard.
func (g *shardGroup) spawned() {
	if g != nil {
		g.live.Add(1)
	}
}

// finished unparks every shard once the last task of the group is done.
func (g *shardGroup) finished() {
	if g == nil {
		return
	}
	if g.live.Add(-1) == 0 {
		for _, p := range g.parkers {
			p.Unpark()
		}
	}
}

func (g *shardGroup) busy() bool {
	return g != nil && g.live.Load() > 0
}
