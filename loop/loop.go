// File: loop/loop.go
// Package loop implements the notification loop core.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Iteration shape: drain posted tasks, snapshot the wait set from the
// registry, block in the provider's multi-object wait, then either run
// newly posted tasks (wake) or deliver exactly one activation
// (signalled handle). Registrations changed during dispatch are picked
// up by the next iteration's snapshot, never the current one.

package loop

import (
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/winnotify/affinity"
	"github.com/momentics/winnotify/api"
)

// Loop multiplexes wait handles for the notifiers registered with it.
// All methods except Post, Stop, Close and Counters must be called on
// the loop's own thread; Post is the sanctioned cross-thread path.
type Loop struct {
	provider api.WaitProvider
	reg      *handleRegistry
	opts     Options

	tasksMu sync.Mutex
	tasks   *queue.Queue // of func(), guarded by tasksMu
	closed  bool         // guarded by tasksMu

	stopping bool // loop-thread only
	running  int32

	// counters, read cross-thread by probes
	iterations  int64
	dispatches  int64
	wakeups     int64
	timeouts    int64
	stale       int64
	waitSetSize int64
}

// New creates a loop over the given wait provider. The loop takes
// ownership of the provider and closes it on Close.
func New(provider api.WaitProvider, opts ...Option) *Loop {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Loop{
		provider: provider,
		reg:      newHandleRegistry(),
		opts:     o,
		tasks:    queue.New(),
	}
}

// RegisterEventNotifier inserts or replaces the registry entry for n.
// Loop-thread only. A torn-down loop makes this a silent no-op: shutdown
// is an expected condition, not an error. A full wait set is caller
// misuse and is surfaced as ErrCapacityExceeded.
func (lp *Loop) RegisterEventNotifier(n api.HandleNotifier) error {
	if lp.Closed() {
		return nil
	}
	h := n.WaitHandle()
	if h == api.InvalidHandle {
		return api.ErrInvalidArgument
	}
	if lp.reg.size() >= api.MaxNotifiers && !lp.reg.contains(n) {
		return api.ErrCapacityExceeded
	}
	lp.reg.insert(n, h)
	atomic.StoreInt64(&lp.waitSetSize, int64(lp.reg.size()))
	return nil
}

// UnregisterEventNotifier removes the entry for n if present. Idempotent,
// loop-thread only.
func (lp *Loop) UnregisterEventNotifier(n api.HandleNotifier) {
	lp.reg.remove(n)
	atomic.StoreInt64(&lp.waitSetSize, int64(lp.reg.size()))
}

// Post schedules fn to run on the loop thread and interrupts the wait in
// flight. Thread-safe. Returns ErrLoopClosed once the loop is closed.
func (lp *Loop) Post(fn func()) error {
	lp.tasksMu.Lock()
	if lp.closed {
		lp.tasksMu.Unlock()
		return api.ErrLoopClosed
	}
	lp.tasks.Add(fn)
	lp.tasksMu.Unlock()
	return lp.provider.Wake()
}

// RunOnce performs a single loop iteration with the given wait timeout
// (negative blocks indefinitely). Returns which kind of object ended the
// wait. Embedders and tests step the loop with this; Run is the
// conventional driver.
func (lp *Loop) RunOnce(timeout time.Duration) (api.WaitKind, error) {
	lp.drainTasks()

	handles := lp.reg.waitSet()
	res, err := lp.provider.Wait(handles, timeout)
	if err != nil {
		return 0, err
	}
	atomic.AddInt64(&lp.iterations, 1)

	switch res.Kind {
	case api.WaitWoken:
		atomic.AddInt64(&lp.wakeups, 1)
		lp.drainTasks()
	case api.WaitTimedOut:
		atomic.AddInt64(&lp.timeouts, 1)
	case api.WaitSignaled:
		if res.Index < 0 || res.Index >= len(handles) {
			atomic.AddInt64(&lp.stale, 1)
			break
		}
		h := handles[res.Index]
		if n, ok := lp.reg.lookup(h); ok {
			atomic.AddInt64(&lp.dispatches, 1)
			n.Activated(h)
		} else {
			// Unregistered between the wait returning and dispatch;
			// expected race, dropped without retry.
			atomic.AddInt64(&lp.stale, 1)
		}
	}
	return res.Kind, nil
}

// Run drives the loop on the calling goroutine until Stop or Close. The
// goroutine is locked to its OS thread for the duration; with PinnedCPU
// set it is also bound to that logical CPU.
func (lp *Loop) Run() error {
	if !atomic.CompareAndSwapInt32(&lp.running, 0, 1) {
		return api.NewError(api.ErrCodeInternal, "loop already running")
	}
	defer atomic.StoreInt32(&lp.running, 0)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if lp.opts.PinnedCPU >= 0 {
		if err := affinity.Pin(lp.opts.PinnedCPU); err != nil {
			// Degrade gracefully: an unpinned loop is still correct.
			log.Printf("[loop] cpu pin failed: %v", err)
		} else {
			defer func() { _ = affinity.Unpin() }()
		}
	}

	for {
		if lp.stopping || lp.Closed() {
			return nil
		}
		if _, err := lp.RunOnce(lp.opts.WaitTimeout); err != nil {
			if lp.Closed() {
				return nil
			}
			return err
		}
		if lp.opts.Metrics != nil {
			lp.publishMetrics()
		}
	}
}

// Stop asks the loop to exit after the current iteration. Thread-safe.
func (lp *Loop) Stop() {
	_ = lp.Post(func() { lp.stopping = true })
}

// Close tears the loop down: pending and future Post calls fail, the
// registry is dropped, and the provider is closed. Call after Run has
// returned; idempotent.
func (lp *Loop) Close() error {
	lp.tasksMu.Lock()
	if lp.closed {
		lp.tasksMu.Unlock()
		return nil
	}
	lp.closed = true
	lp.tasksMu.Unlock()

	lp.reg.clear()
	atomic.StoreInt64(&lp.waitSetSize, 0)
	return lp.provider.Close()
}

// Closed reports whether Close has been called. Thread-safe.
func (lp *Loop) Closed() bool {
	lp.tasksMu.Lock()
	defer lp.tasksMu.Unlock()
	return lp.closed
}

// drainTasks runs every task posted so far. Tasks may post further tasks;
// those run within the same drain.
func (lp *Loop) drainTasks() {
	for {
		lp.tasksMu.Lock()
		if lp.tasks.Length() == 0 {
			lp.tasksMu.Unlock()
			return
		}
		fn := lp.tasks.Remove().(func())
		lp.tasksMu.Unlock()
		fn()
	}
}
