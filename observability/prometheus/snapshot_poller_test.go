package prometheus

import (
	"context"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/executor"
	"github.com/momentics/hioload-rt/future"
)

type statsStub map[string]any

func (s statsStub) Stats() map[string]any { return s }

func TestSnapshotPoller_ExportsNumericValues(t *testing.T) {
	reg := prom.NewRegistry()
	p, err := NewSnapshotPoller(reg, "", time.Hour)
	require.NoError(t, err)

	p.AddSource("driver", statsStub{"reactor.polls": int64(4), "reactor.sources": 2, "note": "skipped"})
	p.CollectOnce()

	assert.Equal(t, 4.0, testutil.ToFloat64(p.stat.WithLabelValues("driver", "0", "reactor.polls")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.stat.WithLabelValues("driver", "0", "reactor.sources")))
	assert.Equal(t, 2, testutil.CollectAndCount(p.stat))
}

func TestSnapshotPoller_PoolShards(t *testing.T) {
	reg := prom.NewRegistry()
	p, err := NewSnapshotPoller(reg, "rt", 5*time.Millisecond)
	require.NoError(t, err)

	pool, err := executor.NewPool(control.Config{Workers: 2})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		pool.Schedule(future.Yield())
	}
	require.NoError(t, pool.Run(context.Background()))

	p.AddSharded("pool", pool)
	p.Start(context.Background())
	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(p.stat.WithLabelValues("pool", "1", executor.MetricCompleted)) == 2
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(p.stat.WithLabelValues("pool", "0", executor.MetricCompleted)))
}

func TestSnapshotPoller_ReusesRegisteredCollector(t *testing.T) {
	reg := prom.NewRegistry()
	a, err := NewSnapshotPoller(reg, "rt", time.Second)
	require.NoError(t, err)
	b, err := NewSnapshotPoller(reg, "rt", time.Second)
	require.NoError(t, err)
	assert.Same(t, a.stat, b.stat)

	b.Stop()
}
