// File: api/waiter.go
// Package api defines the blocking multi-object wait contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "time"

// WaitKind classifies the outcome of one blocking wait call.
type WaitKind int

const (
	// WaitSignaled means one watched handle became signalled.
	WaitSignaled WaitKind = iota
	// WaitWoken means the provider's wake primitive fired.
	WaitWoken
	// WaitTimedOut means the timeout elapsed with nothing signalled.
	WaitTimedOut
)

func (k WaitKind) String() string {
	switch k {
	case WaitSignaled:
		return "signaled"
	case WaitWoken:
		return "woken"
	case WaitTimedOut:
		return "timedout"
	default:
		return "unknown"
	}
}

// WaitResult reports which single object fired. When several handles are
// signalled at once the provider reports exactly one per call, the
// lowest-indexed in the set; the rest surface on later calls. Index is
// valid only for WaitSignaled.
type WaitResult struct {
	Kind  WaitKind
	Index int
}

// WaitProvider performs one blocking wait over a handle set plus its own
// internal wake primitive. Implementations must reject sets larger than
// MaxNotifiers with ErrCapacityExceeded, must never modify the state of a
// watched handle, and must tolerate Wake from any goroutine.
type WaitProvider interface {
	// Wait blocks until a handle in the set signals, Wake is called, or
	// timeout elapses. A negative timeout blocks indefinitely.
	Wait(handles []Handle, timeout time.Duration) (WaitResult, error)

	// Wake interrupts a Wait in flight (or the next one). Thread-safe.
	Wake() error

	// Close releases provider-owned resources. Watched handles are the
	// caller's and are left alone.
	Close() error
}
