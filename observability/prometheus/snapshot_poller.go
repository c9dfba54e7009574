// File: observability/prometheus/snapshot_poller.go
// Author: momentics <momentics@gmail.com>
//
// Periodic export of scheduler, pool and reactor Stats() snapshots to Prometheus.

package prometheus

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// StatsProvider is satisfied by executor.Scheduler and reactor.Driver.
type StatsProvider interface {
	Stats() map[string]any
}

// ShardedStatsProvider is satisfied by executor.Pool.
type ShardedStatsProvider interface {
	Stats() []map[string]any
}

// SnapshotPoller copies numeric snapshot values into one gauge vector
// labelled by source name, shard and metric key.
type SnapshotPoller struct {
	interval time.Duration
	stat     *prom.GaugeVec

	mu      sync.RWMutex
	sources map[string]StatsProvider
	sharded map[string]ShardedStatsProvider

	stateMu sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSnapshotPoller creates a poller and registers its gauge with reg, or
// with the default registerer when reg is nil.
func NewSnapshotPoller(reg prom.Registerer, namespace string, interval time.Duration) (*SnapshotPoller, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "hioload_rt"
	}
	if interval <= 0 {
		interval = time.Second
	}

	stat := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "stat",
		Help:      "Last observed value of a runtime counter or gauge.",
	}, []string{"source", "shard", "key"})

	stat, err := registerCollector(reg, stat)
	if err != nil {
		return nil, err
	}
	return &SnapshotPoller{
		interval: interval,
		stat:     stat,
		sources:  make(map[string]StatsProvider),
		sharded:  make(map[string]ShardedStatsProvider),
	}, nil
}

// AddSource adds or replaces a single-shard provider.
func (p *SnapshotPoller) AddSource(name string, s StatsProvider) {
	if s == nil {
		return
	}
	p.mu.Lock()
	p.sources[normalizeLabel(name, "source")] = s
	p.mu.Unlock()
}

// AddSharded adds or replaces a provider reporting one snapshot per shard.
func (p *SnapshotPoller) AddSharded(name string, s ShardedStatsProvider) {
	if s == nil {
		return
	}
	p.mu.Lock()
	p.sharded[normalizeLabel(name, "pool")] = s
	p.mu.Unlock()
}

// Start begins periodic polling; repeated calls are no-ops.
func (p *SnapshotPoller) Start(ctx context.Context) {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	if p.running {
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true
	go p.loop(pollCtx, p.done)
}

// Stop ends polling; repeated calls are safe.
func (p *SnapshotPoller) Stop() {
	p.stateMu.Lock()
	if !p.running {
		p.stateMu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.running, p.cancel, p.done = false, nil, nil
	p.stateMu.Unlock()

	cancel()
	<-done
}

func (p *SnapshotPoller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.CollectOnce()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.CollectOnce()
		}
	}
}

// CollectOnce takes one snapshot of every provider.
func (p *SnapshotPoller) CollectOnce() {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for name, s := range p.sources {
		p.export(name, "0", s.Stats())
	}
	for name, s := range p.sharded {
		for i, snap := range s.Stats() {
			p.export(name, strconv.Itoa(i), snap)
		}
	}
}

func (p *SnapshotPoller) export(source, shard string, snap map[string]any) {
	for key, v := range snap {
		if f, ok := toFloat(v); ok {
			p.stat.WithLabelValues(source, shard, key).Set(f)
		}
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var already prom.AlreadyRegisteredError
	if errors.As(err, &already) {
		existing, ok := already.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}
	return collector, err
}
