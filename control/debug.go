// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Named probes reporting scheduler, pool and platform state on demand.

package control

import (
	"sort"
	"sync"
)

// Probe reports one piece of state. It may take locks of its own.
type Probe func() any

// DebugProbes is a registry of named probes.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]Probe
}

// NewDebugProbes creates an empty registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{probes: make(map[string]Probe)}
}

// RegisterProbe adds fn under name, replacing any previous probe.
func (dp *DebugProbes) RegisterProbe(name string, fn Probe) {
	dp.mu.Lock()
	dp.probes[name] = fn
	dp.mu.Unlock()
}

// Unregister drops the probe under name, if any.
func (dp *DebugProbes) Unregister(name string) {
	dp.mu.Lock()
	delete(dp.probes, name)
	dp.mu.Unlock()
}

// Names returns the registered probe names in sorted order.
func (dp *DebugProbes) Names() []string {
	dp.mu.RLock()
	names := make([]string, 0, len(dp.probes))
	for k := range dp.probes {
		names = append(names, k)
	}
	dp.mu.RUnlock()
	sort.Strings(names)
	return names
}

// DumpState runs every probe and collects the results by name.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	snapshot := make(map[string]Probe, len(dp.probes))
	for k, fn := range dp.probes {
		snapshot[k] = fn
	}
	dp.mu.RUnlock()

	// Run outside the lock: a probe calling back into the registry must not deadlock.
	out := make(map[string]any, len(snapshot))
	for k, fn := range snapshot {
		out[k] = fn()
	}
	return out
}
