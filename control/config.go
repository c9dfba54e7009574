// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Runtime configuration shared by schedulers, pools and the reactor driver.

package control

import (
	"fmt"
	"runtime"
	"time"

	"github.com/momentics/hioload-rt/api"
)

// Config holds tunables for the runtime components.
type Config struct {
	// EventCapacity is the size of the event batch filled by one reactor poll.
	EventCapacity int

	// PollTimeout bounds a single reactor poll. Negative blocks until an event arrives.
	PollTimeout time.Duration

	// Workers is the number of scheduler shards in a Pool.
	Workers int

	// PinWorkers pins shard i to CPU i modulo the CPU count.
	PinWorkers bool

	// PropagatePanics lets a panic inside Drive escape Scheduler.Run
	// instead of being delivered to the task's JoinHandle.
	PropagatePanics bool
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		EventCapacity: 128,
		PollTimeout:   -1,
		Workers:       runtime.NumCPU(),
	}
}

// Validate checks the configuration for values no component can work with.
func (c Config) Validate() error {
	if c.EventCapacity <= 0 {
		return fmt.Errorf("event capacity %d: %w", c.EventCapacity, api.ErrInvalidArgument)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers %d: %w", c.Workers, api.ErrInvalidArgument)
	}
	return nil
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.EventCapacity == 0 {
		c.EventCapacity = def.EventCapacity
	}
	if c.PollTimeout == 0 {
		c.PollTimeout = def.PollTimeout
	}
	if c.Workers == 0 {
		c.Workers = def.Workers
	}
	return c
}
