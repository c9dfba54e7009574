// File: future/phase.go
// Author: momentics <momentics@gmail.com>

package future

import (
	"math"
	"strconv"
)

// Phase is the position of a state machine. Larger is later.
type Phase int

const (
	// PhaseStart is the phase of a machine that has never been driven.
	PhaseStart Phase = 0
	// PhaseResolved is the terminal phase.
	PhaseResolved Phase = math.MaxInt32
)

// Waiting returns the phase of the k-th suspension point, k >= 1.
func Waiting(k int) Phase {
	if k < 1 || k >= int(PhaseResolved) {
		panic("future: waiting phase out of range: " + strconv.Itoa(k))
	}
	return Phase(k)
}

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseResolved:
		return "resolved"
	default:
		return "waiting(" + strconv.Itoa(int(p)) + ")"
	}
}
