// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity of the current OS thread.
// Platform-specific implementations are located in separate files
// (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.

package affinity

// Pin binds the current OS thread to a given logical CPU on supported
// platforms. The caller is expected to hold runtime.LockOSThread for the
// lifetime of the pin. On unsupported platforms returns an error.
func Pin(cpuID int) error {
	return pinPlatform(cpuID)
}

// Unpin restores the current thread's affinity to all CPUs.
func Unpin() error {
	return unpinPlatform()
}
