// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Waiter is an in-memory WaitProvider: tests signal and reset handles
// programmatically instead of going through OS synchronization objects.

package fake

import (
	"errors"
	"sync"
	"time"

	"github.com/momentics/winnotify/api"
)

// Waiter implements api.WaitProvider over an in-memory signalled set.
// Signal and Reset stand in for the OS-side state transitions of real
// wait objects. Like the real primitive, Wait reports the lowest-indexed
// signalled handle and never modifies handle state itself.
type Waiter struct {
	mu        sync.Mutex
	signalled map[api.Handle]bool
	woken     bool
	changed   chan struct{}
	closed    bool

	// WaitCalls counts Wait invocations, for loop-iteration assertions.
	WaitCalls int
}

// NewWaiter creates an empty fake wait provider.
func NewWaiter() *Waiter {
	return &Waiter{
		signalled: make(map[api.Handle]bool),
		changed:   make(chan struct{}),
	}
}

// Signal marks h signalled, releasing any Wait that includes it.
func (f *Waiter) Signal(h api.Handle) {
	f.mu.Lock()
	f.signalled[h] = true
	f.broadcast()
	f.mu.Unlock()
}

// Reset clears h back to unsignalled, like resetting a manual-reset event.
func (f *Waiter) Reset(h api.Handle) {
	f.mu.Lock()
	delete(f.signalled, h)
	f.broadcast()
	f.mu.Unlock()
}

// IsSignalled reports the current state of h.
func (f *Waiter) IsSignalled(h api.Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signalled[h]
}

// Wait blocks until a handle in the set is signalled, Wake is called, or
// timeout elapses. A negative timeout blocks indefinitely.
func (f *Waiter) Wait(handles []api.Handle, timeout time.Duration) (api.WaitResult, error) {
	if len(handles) > api.MaxNotifiers {
		return api.WaitResult{}, api.ErrCapacityExceeded
	}

	f.mu.Lock()
	f.WaitCalls++
	f.mu.Unlock()

	var deadline <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}

	for {
		f.mu.Lock()
		if f.closed {
			f.mu.Unlock()
			return api.WaitResult{}, errors.New("fake: waiter is closed")
		}
		if f.woken {
			// Auto-reset semantics: one Wake releases one Wait.
			f.woken = false
			f.mu.Unlock()
			return api.WaitResult{Kind: api.WaitWoken}, nil
		}
		for i, h := range handles {
			if f.signalled[h] {
				f.mu.Unlock()
				return api.WaitResult{Kind: api.WaitSignaled, Index: i}, nil
			}
		}
		changed := f.changed
		f.mu.Unlock()

		select {
		case <-changed:
		case <-deadline:
			return api.WaitResult{Kind: api.WaitTimedOut}, nil
		}
	}
}

// Wake releases one pending (or the next) Wait call.
func (f *Waiter) Wake() error {
	f.mu.Lock()
	f.woken = true
	f.broadcast()
	f.mu.Unlock()
	return nil
}

// Close fails all pending and future Wait calls.
func (f *Waiter) Close() error {
	f.mu.Lock()
	f.closed = true
	f.broadcast()
	f.mu.Unlock()
	return nil
}

// broadcast wakes every blocked Wait. Caller holds f.mu.
func (f *Waiter) broadcast() {
	close(f.changed)
	f.changed = make(chan struct{})
}
