// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package timer provides background timer sources for computations.
//
// Sleep is the simplest source: its first drive starts a goroutine that sleeps
// and then fires the waker. Service multiplexes any number of deadlines onto
// one goroutine. Delay turns any api.TimerSource, including a reactor
// Driver, into a computation.
package timer
