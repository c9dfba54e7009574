//go:build !linux && !windows

// File: affinity/affinity_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package affinity

import (
	"fmt"
	"runtime"

	"github.com/momentics/hioload-rt/api"
)

// setAffinityPlatform is a stub for platforms where CPU affinity is not supported.
func setAffinityPlatform(cpuID int) error {
	return fmt.Errorf("affinity: %w on this platform", api.ErrNotSupported)
}

func numCPUPlatform() int {
	return runtime.NumCPU()
}
