// File: reactor/driver.go
// Author: momentics <momentics@gmail.com>
//
// Dispatch loop: maps event tokens back to the wakers parked on them.

package reactor

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
)

// wakeToken is reserved for the driver's own wake descriptor.
const wakeToken api.Token = 0

// Metric keys published by a Driver.
const (
	MetricPolls      = "reactor.polls"
	MetricEvents     = "reactor.events"
	MetricDispatched = "reactor.dispatched"
	MetricStale      = "reactor.stale"
	MetricSources    = "reactor.sources"
)

// source is one armed registration.
type source struct {
	fd    int
	waker api.Waker
	ready api.Interest
	// release, when set, makes the source single-use: dispatch removes it and
	// calls release after the first event.
	release func()
}

// Driver runs the poll loop and wakes the computations waiting on it.
type Driver struct {
	cfg    control.Config
	poller *Poller
	wake   *wakeFD
	log    *zap.Logger

	mu      sync.Mutex
	sources map[api.Token]*source
	closed  bool
	nextTok atomic.Uint64

	started atomic.Bool
	done    chan struct{}

	metrics    *control.MetricsRegistry
	polls      *atomic.Int64
	events     *atomic.Int64
	dispatched *atomic.Int64
	stale      *atomic.Int64
}

// NewDriver creates the event queue and the wake descriptor. The loop does not
// run until Start or Run is called.
func NewDriver(cfg control.Config) (*Driver, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := New()
	if err != nil {
		return nil, err
	}
	wk, err := newWakeFD()
	if err != nil {
		p.Close()
		return nil, err
	}
	if err := p.Register(wk.fd, wakeToken, api.EventRead); err != nil {
		p.Close()
		_ = wk.close()
		return nil, err
	}
	m := control.NewMetricsRegistry()
	return &Driver{
		cfg:        cfg,
		poller:     p,
		wake:       wk,
		log:        control.Logger().Named("reactor"),
		sources:    make(map[api.Token]*source),
		done:       make(chan struct{}),
		metrics:    m,
		polls:      m.Counter(MetricPolls),
		events:     m.Counter(MetricEvents),
		dispatched: m.Counter(MetricDispatched),
		stale:      m.Counter(MetricStale),
	}, nil
}

// Poller exposes the underlying event queue.
func (d *Driver) Poller() *Poller { return d.poller }

// Start runs the poll loop on a new goroutine.
func (d *Driver) Start() {
	go func() {
		if err := d.Run(context.Background()); err != nil {
			d.log.Error("poll loop stopped", zap.Error(err))
		}
	}()
}

// Run polls and dispatches until the driver is closed, ctx is done, or the
// OS reports an error. Only one Run may be active.
func (d *Driver) Run(ctx context.Context) error {
	if !d.started.CompareAndSwap(false, true) {
		return api.ErrAlreadyRunning
	}
	defer close(d.done)

	stop := context.AfterFunc(ctx, func() { _ = d.wake.signal() })
	defer stop()

	events := NewEvents(d.cfg.EventCapacity)
	for {
		if d.isClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.poller.Poll(events, d.cfg.PollTimeout); err != nil {
			if d.isClosed() {
				return nil
			}
			return err
		}
		d.polls.Add(1)
		d.events.Add(int64(events.Len()))
		d.dispatch(events)
	}
}

func (d *Driver) dispatch(events *Events) {
	var (
		fire    []api.Waker
		release []func()
	)
	d.mu.Lock()
	for _, ev := range events.Items() {
		if ev.Token == wakeToken {
			d.wake.drain()
			continue
		}
		src, ok := d.sources[ev.Token]
		if !ok {
			d.stale.Add(1)
			continue
		}
		src.ready |= ev.Kind
		if src.release != nil {
			delete(d.sources, ev.Token)
			release = append(release, src.release)
		}
		if src.waker != nil {
			fire = append(fire, src.waker)
			src.waker = nil
		}
	}
	d.mu.Unlock()

	for _, fn := range release {
		fn()
	}
	d.dispatched.Add(int64(len(fire)))
	for _, w := range fire {
		w.Wake()
	}
}

// register arms a oneshot interest for fd and parks w on it. On error
// release has already run, so the caller no longer owns what it frees.
func (d *Driver) register(fd int, interest api.Interest, w api.Waker, release func()) (api.Token, error) {
	tok, err := d.track(fd, w, release)
	if err != nil {
		if release != nil {
			release()
		}
		return 0, err
	}
	if err := d.poller.Register(fd, tok, interest|api.EventOneshot); err != nil {
		return d.armFailed(tok, err)
	}
	return tok, nil
}

// track adds a source for fd before it is armed with the poller.
func (d *Driver) track(fd int, w api.Waker, release func()) (api.Token, error) {
	tok := api.Token(d.nextTok.Add(1))
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, api.ErrReactorClosed
	}
	d.sources[tok] = &source{fd: fd, waker: w, release: release}
	return tok, nil
}

// armFailed undoes track after the poller refused tok. Whoever removes the
// source from the table owns it: if Close got there first it has already
// released the source and fired its waker, so the registration stands and
// the next poll of tok reports api.ErrReactorClosed.
func (d *Driver) armFailed(tok api.Token, err error) (api.Token, error) {
	d.mu.Lock()
	src, owned := d.sources[tok]
	delete(d.sources, tok)
	d.mu.Unlock()

	if !owned {
		return tok, nil
	}
	if src.release != nil {
		src.release()
	}
	return 0, err
}

// poll returns what was observed for tok and forgets it, or parks w and
// reports false when nothing was observed yet. A token the driver no longer
// knows means the driver was closed.
func (d *Driver) poll(tok api.Token, w api.Waker) (api.Interest, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	src, ok := d.sources[tok]
	if !ok {
		return 0, true, api.ErrReactorClosed
	}
	if src.ready == 0 {
		src.waker = w
		return 0, false, nil
	}
	delete(d.sources, tok)
	return src.ready, true, nil
}

// Pending returns the number of armed registrations.
func (d *Driver) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sources)
}

// Stats returns a snapshot of the driver metrics.
func (d *Driver) Stats() map[string]any {
	d.metrics.Set(MetricSources, d.Pending())
	return d.metrics.GetSnapshot()
}

func (d *Driver) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Close stops the loop and releases the event queue. Every parked waker is
// fired so its computation can observe api.ErrReactorClosed; pending timers
// fire early. Close is idempotent and never fails: teardown errors are logged.
func (d *Driver) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	sources := d.sources
	d.sources = make(map[api.Token]*source)
	d.mu.Unlock()

	for _, src := range sources {
		if src.release != nil {
			src.release()
		}
		if src.waker != nil {
			src.waker.Wake()
		}
	}

	if err := d.wake.signal(); err != nil {
		d.log.Error("signalling poll loop", zap.Error(err))
	}
	if d.started.Load() {
		<-d.done
	}
	d.poller.Close()
	if err := d.wake.close(); err != nil {
		d.log.Error("closing wake descriptor", zap.Error(err))
	}
}
