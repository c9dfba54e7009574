package executor_test

import (
	"context"
	"fmt"
	"time"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/executor"
	"github.com/momentics/hioload-rt/future"
	"github.com/momentics/hioload-rt/timer"
)

func ExampleScheduler() {
	s := executor.NewScheduler(control.Config{})

	for _, d := range []time.Duration{30, 10, 20} {
		d := d * time.Millisecond
		s.Schedule(future.Seq(future.Stage{
			Await: func() api.Computation[struct{}] { return timer.Sleep(d) },
			Exit:  func() { fmt.Println("timer", d, "elapsed") },
		}))
	}
	if err := s.Run(context.Background()); err != nil {
		fmt.Println("run:", err)
	}
	// Output:
	// timer 10ms elapsed
	// timer 20ms elapsed
	// timer 30ms elapsed
}
