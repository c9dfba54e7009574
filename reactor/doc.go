// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the OS readiness multiplexer and the dispatch loop
// that turns readiness events into api.Waker calls.
//
// Poller is a thin layer over the OS event queue (epoll on Linux): register a
// raw descriptor under a token, poll for (token, kind) pairs. Driver owns a
// Poller and a goroutine running the poll loop; computations built by
// Driver.WaitFor register interest, park their waker with the driver, and
// resolve once the driver observed the descriptor ready. Driver also serves as
// an api.TimerSource backed by timerfd, so timers and I/O share one thread.
//
// Platforms without an implementation return api.ErrNotSupported from New.
package reactor
