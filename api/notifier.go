// File: api/notifier.go
// Package api defines the loop-facing notifier contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// HandleNotifier is the loop-facing side of a notifier registration.
// The loop keeps only a non-owning reference while the notifier is
// registered.
type HandleNotifier interface {
	// WaitHandle returns the handle this notifier watches.
	WaitHandle() Handle

	// Activated delivers one notification for the signalled handle.
	// Called synchronously on the loop thread, before the loop blocks
	// again, so disabling or re-registering from inside the callback
	// takes effect on the very next iteration. The signalled object's
	// own state is not touched; resetting a manual-reset event stays
	// the callback's job.
	Activated(h Handle)
}
