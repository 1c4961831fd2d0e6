//go:build !windows
// +build !windows

// control/platform_other.go
// Author: momentics <momentics@gmail.com>
//
// Platform probes for non-Windows builds (fake-provider development).

package control

import (
	"runtime"
)

// RegisterPlatformProbes sets generic debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
}
