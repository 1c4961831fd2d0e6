// File: notifier/notifier.go
// Package notifier provides asynchronous notification for OS wait handles.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package notifier makes OS wait functions usable asynchronously: register
// a handle to a synchronization object (event, process, thread, waitable
// timer) and receive a callback on the owning loop's thread whenever the
// object becomes signalled. The object's own state is not modified in the
// process; a manual-reset event must be reset by the callback itself.
//
// An EventNotifier is confined to the thread of the loop it is bound to.
// Construction, SetHandle, SetEnabled and Close are loop-thread
// operations; migrating to another loop goes through MoveToLoop, which is
// the only supported cross-loop transition.
package notifier

import (
	"errors"
	"log"

	"github.com/momentics/winnotify/api"
	"github.com/momentics/winnotify/loop"
)

// ActivatedFunc receives the signalled handle, on the loop thread.
type ActivatedFunc func(h api.Handle)

// EventNotifier watches one wait handle through one loop. The loop holds
// only a non-owning back-reference while the notifier is registered; the
// handle itself is never owned, duplicated, or closed here.
type EventNotifier struct {
	loop        *loop.Loop
	handle      api.Handle
	enabled     bool
	onActivated ActivatedFunc
}

var _ api.HandleNotifier = (*EventNotifier)(nil)

// New constructs a disabled notifier bound to lp with no handle yet.
// lp may be nil; enabling before a loop is bound is a programming error
// and panics.
func New(lp *loop.Loop, fn ActivatedFunc) *EventNotifier {
	return &EventNotifier{loop: lp, onActivated: fn}
}

// NewWithHandle constructs a notifier watching h and enables it
// immediately. It is generally advisable to enable and disable
// explicitly; this constructor mirrors the common create-and-arm case.
func NewWithHandle(lp *loop.Loop, h api.Handle, fn ActivatedFunc) (*EventNotifier, error) {
	if lp == nil {
		panic("notifier: cannot create an armed notifier without an event loop")
	}
	n := &EventNotifier{loop: lp, handle: h, onActivated: fn}
	if err := n.SetEnabled(true); err != nil {
		return nil, err
	}
	return n, nil
}

// Handle returns the currently watched handle.
func (n *EventNotifier) Handle() api.Handle {
	return n.handle
}

// SetHandle replaces the watched handle. The notifier is disabled as a
// side effect and needs to be re-enabled explicitly.
func (n *EventNotifier) SetHandle(h api.Handle) {
	_ = n.SetEnabled(false)
	n.handle = h
}

// IsEnabled reports whether the notifier is armed.
func (n *EventNotifier) IsEnabled() bool {
	return n.enabled
}

// SetEnabled arms or disarms the notifier. Idempotent: repeating the
// current state is a no-op. Enabling with no loop bound panics (a
// programming error, not a runtime condition); enabling on a loop that
// is already torn down is silently absorbed. A full wait set surfaces as
// ErrCapacityExceeded and leaves the notifier disabled.
func (n *EventNotifier) SetEnabled(enable bool) error {
	if n.enabled == enable { // no change
		return nil
	}
	n.enabled = enable

	if n.loop == nil {
		if enable {
			panic("notifier: no event loop bound to this notifier")
		}
		return nil
	}
	if n.loop.Closed() { // perhaps the owner is shutting down
		return nil
	}

	if enable {
		if n.handle == api.InvalidHandle {
			// Armed but nothing to watch yet; SetHandle then re-enable.
			return nil
		}
		if err := n.loop.RegisterEventNotifier(n); err != nil {
			n.enabled = false
			return err
		}
		return nil
	}
	n.loop.UnregisterEventNotifier(n)
	return nil
}

// Close disarms the notifier and detaches it from its loop. The watched
// handle is left open.
func (n *EventNotifier) Close() {
	_ = n.SetEnabled(false)
	n.loop = nil
}

// MoveToLoop migrates the notifier to newLoop. Must be called on the
// current owner's thread. An enabled notifier is revoked from the old
// loop synchronously, then re-armed by a task posted to newLoop, so the
// registration lands on the new loop's thread after the transfer
// completes. A synchronous re-enable here would race loop teardown and
// could bind to the wrong loop, which is why the second step is always
// deferred. Until that task runs, the old loop delivers nothing for this
// notifier and the new loop does not watch it yet.
func (n *EventNotifier) MoveToLoop(newLoop *loop.Loop) error {
	if newLoop == n.loop {
		return nil
	}
	wasEnabled := n.enabled
	if wasEnabled {
		_ = n.SetEnabled(false)
	}
	n.loop = newLoop
	if !wasEnabled || newLoop == nil {
		return nil
	}
	err := newLoop.Post(func() {
		if err := n.SetEnabled(true); err != nil {
			log.Printf("[notifier] re-enable after move failed: %v", err)
		}
	})
	if errors.Is(err, api.ErrLoopClosed) {
		// Target torn down mid-transfer; same silent outcome as any
		// registration against a dead loop.
		return nil
	}
	return err
}

// WaitHandle implements api.HandleNotifier.
func (n *EventNotifier) WaitHandle() api.Handle {
	return n.handle
}

// Activated implements api.HandleNotifier: runs the callback on the loop
// thread. A notifier disarmed after the wait set was built is skipped.
func (n *EventNotifier) Activated(h api.Handle) {
	if !n.enabled || n.onActivated == nil {
		return
	}
	n.onActivated(h)
}
