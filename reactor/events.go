// File: reactor/events.go
// Author: momentics <momentics@gmail.com>

package reactor

import "github.com/momentics/hioload-rt/api"

// Events is a fixed-capacity batch filled by one Poll call.
// Only the first Len entries are meaningful.
type Events struct {
	items []api.Event
}

// NewEvents allocates a batch able to hold capacity events per poll.
// Capacities below one are raised to one.
func NewEvents(capacity int) *Events {
	if capacity < 1 {
		capacity = 1
	}
	return &Events{items: make([]api.Event, 0, capacity)}
}

// Len returns the number of events observed by the last poll.
func (e *Events) Len() int { return len(e.items) }

// Cap returns the maximum number of events one poll can report.
func (e *Events) Cap() int { return cap(e.items) }

// At returns the i-th event. It panics if i >= Len.
func (e *Events) At(i int) api.Event { return e.items[i] }

// Items returns the observed events. The slice is reused by the next poll.
func (e *Events) Items() []api.Event { return e.items }

func (e *Events) reset() { e.items = e.items[:0] }

func (e *Events) push(ev api.Event) { e.items = append(e.items, ev) }
