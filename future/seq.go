// File: future/seq.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package future

import "github.com/momentics/hioload-rt/api"

// Stage is one suspension point of a Sequence.
type Stage struct {
	// Name labels the stage in logs and tests.
	Name string
	// Enter runs once when the stage becomes current.
	Enter func()
	// Await builds the computation the stage waits on. Nil, or a nil result,
	// means the stage does not suspend.
	Await func() api.Computation[struct{}]
	// Exit runs once after the awaited computation is done.
	Exit func()
}

// Sequence is an N-phase machine: stage k is phase Waiting(k).
type Sequence struct {
	stages  []Stage
	phase   Phase
	nested  api.Computation[struct{}]
	entered bool
	observe func(Phase)
}

// Seq builds a Sequence over stages.
func Seq(stages ...Stage) *Sequence {
	return &Sequence{stages: stages}
}

// Observe registers fn to be called on every phase transition.
func (s *Sequence) Observe(fn func(Phase)) *Sequence {
	s.observe = fn
	return s
}

// Phase returns the current phase.
func (s *Sequence) Phase() Phase { return s.phase }

// Stages returns the number of suspension points.
func (s *Sequence) Stages() int { return len(s.stages) }

func (s *Sequence) moveTo(p Phase) {
	s.phase = p
	s.entered = false
	if s.observe != nil {
		s.observe(p)
	}
}

// Drive runs stages until one of them is pending or all are done.
func (s *Sequence) Drive(w api.Waker) api.Poll[struct{}] {
	if s.phase == PhaseResolved {
		panic(api.ErrAlreadyResolved)
	}
	for {
		if s.phase == PhaseStart {
			if len(s.stages) == 0 {
				s.moveTo(PhaseResolved)
				return api.Ready(struct{}{})
			}
			s.moveTo(Waiting(1))
		}
		st := &s.stages[int(s.phase)-1]
		if !s.entered {
			s.entered = true
			if st.Enter != nil {
				st.Enter()
			}
			if st.Await != nil {
				s.nested = st.Await()
			}
		}
		if s.nested != nil {
			if s.nested.Drive(w).IsPending() {
				return api.Pending[struct{}]()
			}
			s.nested = nil
		}
		if st.Exit != nil {
			st.Exit()
		}
		if int(s.phase) == len(s.stages) {
			s.moveTo(PhaseResolved)
			return api.Ready(struct{}{})
		}
		s.moveTo(s.phase + 1)
	}
}
