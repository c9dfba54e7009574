//go:build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>

package control

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// RegisterPlatformProbes adds the CPU count the process may use, the poller
// backend and the kernel release.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		var set unix.CPUSet
		if err := unix.SchedGetaffinity(0, &set); err != nil {
			return runtime.NumCPU()
		}
		return set.Count()
	})
	dp.RegisterProbe("platform.poller", func() any { return "epoll" })
	dp.RegisterProbe("platform.kernel", func() any {
		var uts unix.Utsname
		if err := unix.Uname(&uts); err != nil {
			return "unknown"
		}
		return unix.ByteSliceToString(uts.Release[:])
	})
}
