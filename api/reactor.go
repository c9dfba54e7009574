// File: api/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Readiness types exchanged between the OS multiplexer and its callers.

package api

import "strings"

// Interest is a bitmask of readiness kinds.
type Interest uint32

const (
	// EventRead means the handle can be read without blocking.
	EventRead Interest = 1 << iota
	// EventWrite means the handle can be written without blocking.
	EventWrite
	// EventError reports an error condition on the handle. Always delivered.
	EventError
	// EventHangup reports that the peer closed its end. Always delivered.
	EventHangup
	// EventOneshot disarms the registration after the first delivered event.
	EventOneshot
)

// Has reports whether all bits of k are set.
func (i Interest) Has(k Interest) bool { return i&k == k }

func (i Interest) String() string {
	if i == 0 {
		return "none"
	}
	var parts []string
	for _, n := range []struct {
		k    Interest
		name string
	}{
		{EventRead, "read"},
		{EventWrite, "write"},
		{EventError, "error"},
		{EventHangup, "hangup"},
		{EventOneshot, "oneshot"},
	} {
		if i&n.k != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Token is the opaque identifier attached to a registration and echoed in events.
type Token uint64

// Event is one (token, observed kind) pair produced by a poll call.
type Event struct {
	Token Token
	Kind  Interest
}

// Registry associates raw OS handles with tokens.
type Registry interface {
	Register(fd int, token Token, interest Interest) error
	Reregister(fd int, token Token, interest Interest) error
	Deregister(fd int) error
}
