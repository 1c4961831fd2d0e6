//go:build linux
// +build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific implementation for setting thread CPU affinity,
// pure Go via sched_setaffinity(2).

package affinity

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// pinPlatform binds the current thread to one logical CPU for Linux.
func pinPlatform(cpuID int) error {
	if cpuID < 0 {
		return fmt.Errorf("affinity: invalid CPU index %d", cpuID)
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: sched_setaffinity failed: %w", err)
	}
	return nil
}

// unpinPlatform resets affinity to all CPUs.
func unpinPlatform() error {
	var set unix.CPUSet
	set.Zero()
	for i := 0; i < runtime.NumCPU(); i++ {
		set.Set(i)
	}
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: sched_setaffinity(unpin) failed: %w", err)
	}
	return nil
}
