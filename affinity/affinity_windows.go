//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity.
//
// Uses SetThreadAffinityMask from the Windows API to bind the current
// thread to a logical processor.
//
// Reference: https://learn.microsoft.com/en-us/windows/win32/api/winbase/nf-winbase-setthreadaffinitymask

package affinity

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/windows"
)

var (
	modkernel32               = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask = modkernel32.NewProc("SetThreadAffinityMask")
	procGetCurrentThread      = modkernel32.NewProc("GetCurrentThread")
)

// pinPlatform binds the current thread to one logical CPU for Windows.
func pinPlatform(cpuID int) error {
	if cpuID < 0 || cpuID >= 64 {
		return fmt.Errorf("affinity: invalid CPU index %d (valid: 0..63)", cpuID)
	}
	handle, _, _ := procGetCurrentThread.Call()
	mask := uintptr(1) << uint(cpuID)
	old, _, err := procSetThreadAffinityMask.Call(handle, mask)
	if old == 0 {
		return fmt.Errorf("affinity: SetThreadAffinityMask failed: %v", err)
	}
	return nil
}

// unpinPlatform resets affinity to all CPUs.
func unpinPlatform() error {
	handle, _, _ := procGetCurrentThread.Call()
	total := runtime.NumCPU()
	if total <= 0 || total > 64 {
		total = 64
	}
	mask := uintptr(1)<<uint(total) - 1
	old, _, err := procSetThreadAffinityMask.Call(handle, mask)
	if old == 0 {
		return fmt.Errorf("affinity: SetThreadAffinityMask(unpin) failed: %v", err)
	}
	return nil
}
