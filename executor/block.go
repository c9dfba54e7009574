// File: executor/block.go
// Author: momentics <momentics@gmail.com>

package executor

import (
	"context"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/concurrency"
)

// BlockOn drives c on the calling goroutine until it resolves, parking
// between drives. It is the single-task counterpart of Scheduler.Run.
func BlockOn[T any](ctx context.Context, c api.Computation[T]) (T, error) {
	p := concurrency.NewParker()
	w := api.WakerFunc(p.Unpark)
	for {
		if r := c.Drive(w); r.Ready {
			return r.Value, nil
		}
		if err := p.Park(ctx); err != nil {
			var zero T
			return zero, err
		}
	}
}
