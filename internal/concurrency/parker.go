// File: internal/concurrency/parker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// One-permit park/unpark primitive for idle schedulers.

package concurrency

import "context"

// Parker blocks one goroutine until another unparks it.
// Unpark stores at most one permit: an Unpark issued before Park makes the
// next Park return immediately, and repeated Unparks collapse into one.
type Parker struct {
	permit chan struct{}
}

// NewParker creates a parker without a permit.
func NewParker() *Parker {
	return &Parker{permit: make(chan struct{}, 1)}
}

// Park consumes the permit, blocking until one is available or ctx is done.
func (p *Parker) Park(ctx context.Context) error {
	select {
	case <-p.permit:
		return nil
	default:
	}
	select {
	case <-p.permit:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unpark makes a permit available. It never blocks.
func (p *Parker) Unpark() {
	select {
	case p.permit <- struct{}{}:
	default:
	}
}
