//go:build windows
// +build windows

// File: waiter/waiter_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows WaitForMultipleObjects-based wait provider and factory.

package waiter

import (
	"fmt"
	"time"

	"golang.org/x/sys/windows"

	"github.com/momentics/winnotify/api"
)

// windowsWaiter blocks in WaitForMultipleObjects over the registered
// handles plus one auto-reset wake event it owns.
type windowsWaiter struct {
	wake windows.Handle
}

// New constructs a new platform-specific WaitProvider for Windows.
func New() (api.WaitProvider, error) {
	// Auto-reset, initially unsignalled. One SetEvent releases exactly
	// one wait.
	ev, err := windows.CreateEvent(nil, 0, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("waiter: create wake event: %w", err)
	}
	return &windowsWaiter{wake: ev}, nil
}

// Wait blocks until one handle signals, Wake fires, or timeout elapses.
// Slot 0 of the underlying wait set is always the wake event, so a
// signalled handle at index i maps to WAIT_OBJECT_0+1+i. When several
// handles are signalled at once the OS reports the lowest-indexed one;
// the rest surface on subsequent calls.
func (w *windowsWaiter) Wait(handles []api.Handle, timeout time.Duration) (api.WaitResult, error) {
	if len(handles) > api.MaxNotifiers {
		return api.WaitResult{}, api.ErrCapacityExceeded
	}
	set := make([]windows.Handle, 0, len(handles)+1)
	set = append(set, w.wake)
	for _, h := range handles {
		set = append(set, windows.Handle(h))
	}

	ms := uint32(windows.INFINITE)
	if timeout >= 0 {
		ms = uint32(timeout / time.Millisecond)
	}

	r, err := windows.WaitForMultipleObjects(set, false, ms)
	switch {
	case r == windows.WAIT_OBJECT_0:
		return api.WaitResult{Kind: api.WaitWoken}, nil
	case r > windows.WAIT_OBJECT_0 && r < windows.WAIT_OBJECT_0+uint32(len(set)):
		return api.WaitResult{Kind: api.WaitSignaled, Index: int(r - windows.WAIT_OBJECT_0 - 1)}, nil
	case r >= windows.WAIT_ABANDONED && r < windows.WAIT_ABANDONED+uint32(len(set)):
		// An abandoned mutex still counts as signalled; slot 0 is ours
		// and cannot be a mutex.
		return api.WaitResult{Kind: api.WaitSignaled, Index: int(r - windows.WAIT_ABANDONED - 1)}, nil
	case r == uint32(windows.WAIT_TIMEOUT):
		return api.WaitResult{Kind: api.WaitTimedOut}, nil
	}
	return api.WaitResult{}, fmt.Errorf("waiter: wait failed: %w", err)
}

// Wake releases one pending (or the next) Wait call. Safe from any goroutine.
func (w *windowsWaiter) Wake() error {
	return windows.SetEvent(w.wake)
}

// Close releases the wake event. Watched handles are never touched.
func (w *windowsWaiter) Close() error {
	return windows.CloseHandle(w.wake)
}
