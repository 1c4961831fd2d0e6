//go:build windows
// +build windows

// control/platform_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific metrics/debug introspection points.

package control

import (
	"runtime"

	"github.com/momentics/winnotify/api"
)

// RegisterPlatformProbes sets Windows-specific debug probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.max_wait_objects", func() any {
		return api.MaxWaitObjects
	})
}
