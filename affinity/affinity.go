// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.

package affinity

// SetAffinity pins the current OS thread to a given logical CPU.
// Callers must hold the thread with runtime.LockOSThread first, otherwise the
// goroutine may migrate and leave an unrelated thread pinned.
// On unsupported platforms returns an error wrapping api.ErrNotSupported.
func SetAffinity(cpuID int) error {
	return setAffinityPlatform(cpuID)
}

// NumCPU returns the number of CPUs the process may run on.
func NumCPU() int {
	return numCPUPlatform()
}
