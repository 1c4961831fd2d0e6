// Package loop_test drives the notification loop against the fake wait
// provider, so the tests run on every platform.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop_test

import (
	"errors"
	"testing"
	"time"

	"github.com/momentics/winnotify/api"
	"github.com/momentics/winnotify/fake"
	"github.com/momentics/winnotify/loop"
)

// recordingNotifier captures activations and optionally reacts to them.
type recordingNotifier struct {
	handle api.Handle
	fired  []api.Handle
	onFire func(h api.Handle)
}

func (r *recordingNotifier) WaitHandle() api.Handle { return r.handle }

func (r *recordingNotifier) Activated(h api.Handle) {
	r.fired = append(r.fired, h)
	if r.onFire != nil {
		r.onFire(h)
	}
}

// TestLoop_SignalDispatchesOnce tests that one signalled handle produces
// exactly one activation per iteration, carrying the handle as payload.
func TestLoop_SignalDispatchesOnce(t *testing.T) {
	fw := fake.NewWaiter()
	lp := loop.New(fw)
	defer lp.Close()

	n := &recordingNotifier{handle: 42}
	if err := lp.RegisterEventNotifier(n); err != nil {
		t.Fatalf("register: %v", err)
	}

	fw.Signal(42)
	kind, err := lp.RunOnce(time.Second)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if kind != api.WaitSignaled {
		t.Errorf("Expected WaitSignaled, got %v", kind)
	}
	if len(n.fired) != 1 || n.fired[0] != 42 {
		t.Errorf("Expected one activation with handle 42, got %v", n.fired)
	}

	// The loop never resets the object. A still-signalled handle fires
	// again on the next iteration.
	if _, err := lp.RunOnce(time.Second); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(n.fired) != 2 {
		t.Errorf("Expected a second activation for the still-signalled handle, got %d", len(n.fired))
	}
	if fw.WaitCalls != 2 {
		t.Errorf("Expected one wait call per iteration, got %d", fw.WaitCalls)
	}
}

// TestLoop_ManyHandlesEachFireOnce registers several handles, signals
// them all at once, and expects exactly one activation per handle with
// the correct payload. Callbacks reset their own handle, as an
// auto-reset object owner would.
func TestLoop_ManyHandlesEachFireOnce(t *testing.T) {
	fw := fake.NewWaiter()
	lp := loop.New(fw)
	defer lp.Close()

	const count = 5
	seen := make(map[api.Handle]int)
	notifiers := make([]*recordingNotifier, 0, count)
	for i := 0; i < count; i++ {
		h := api.Handle(100 + i)
		n := &recordingNotifier{handle: h}
		n.onFire = func(fired api.Handle) {
			seen[fired]++
			fw.Reset(fired)
		}
		if err := lp.RegisterEventNotifier(n); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
		notifiers = append(notifiers, n)
	}

	// Arbitrary signal order; the wait primitive reports one handle per
	// iteration regardless.
	for _, h := range []api.Handle{103, 100, 104, 102, 101} {
		fw.Signal(h)
	}
	for i := 0; i < count; i++ {
		kind, err := lp.RunOnce(time.Second)
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if kind != api.WaitSignaled {
			t.Fatalf("iteration %d: expected WaitSignaled, got %v", i, kind)
		}
	}

	for _, n := range notifiers {
		if seen[n.handle] != 1 {
			t.Errorf("Expected handle %d to fire exactly once, got %d", n.handle, seen[n.handle])
		}
		if len(n.fired) != 1 || n.fired[0] != n.handle {
			t.Errorf("Expected notifier for %d to receive its own handle, got %v", n.handle, n.fired)
		}
	}
}

// TestLoop_LowestIndexWins tests the documented tie-break: with several
// handles signalled at once, the earliest-registered one is reported
// first. No round-robin fairness is promised.
func TestLoop_LowestIndexWins(t *testing.T) {
	fw := fake.NewWaiter()
	lp := loop.New(fw)
	defer lp.Close()

	a := &recordingNotifier{handle: 1}
	b := &recordingNotifier{handle: 2}
	if err := lp.RegisterEventNotifier(a); err != nil {
		t.Fatalf("register a: %v", err)
	}
	if err := lp.RegisterEventNotifier(b); err != nil {
		t.Fatalf("register b: %v", err)
	}

	fw.Signal(2)
	fw.Signal(1)
	if _, err := lp.RunOnce(time.Second); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(a.fired) != 1 || len(b.fired) != 0 {
		t.Errorf("Expected the earliest-registered handle to win the tie, got a=%v b=%v", a.fired, b.fired)
	}
}

// TestLoop_CapacityExceeded tests that the registration beyond the wait
// ceiling surfaces an error instead of truncating the wait set.
func TestLoop_CapacityExceeded(t *testing.T) {
	fw := fake.NewWaiter()
	lp := loop.New(fw)
	defer lp.Close()

	for i := 0; i < api.MaxNotifiers; i++ {
		n := &recordingNotifier{handle: api.Handle(1000 + i)}
		if err := lp.RegisterEventNotifier(n); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
	}

	extra := &recordingNotifier{handle: 9999}
	err := lp.RegisterEventNotifier(extra)
	if !errors.Is(err, api.ErrCapacityExceeded) {
		t.Errorf("Expected ErrCapacityExceeded for notifier %d, got %v", api.MaxNotifiers+1, err)
	}
	if got := lp.Counters().WaitSetSize; got != api.MaxNotifiers {
		t.Errorf("Expected wait set to stay at %d, got %d", api.MaxNotifiers, got)
	}

	if err := lp.RegisterEventNotifier(&recordingNotifier{handle: 9999}); !errors.Is(err, api.ErrCapacityExceeded) {
		t.Errorf("Expected capacity error to persist, got %v", err)
	}
}

// TestLoop_RegisterOnClosedLoop_NoOp tests the shutdown contract:
// registering against a torn-down loop is silently absorbed.
func TestLoop_RegisterOnClosedLoop_NoOp(t *testing.T) {
	fw := fake.NewWaiter()
	lp := loop.New(fw)
	if err := lp.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	n := &recordingNotifier{handle: 1}
	if err := lp.RegisterEventNotifier(n); err != nil {
		t.Errorf("Expected silent no-op on closed loop, got %v", err)
	}
	if got := lp.Counters().WaitSetSize; got != 0 {
		t.Errorf("Expected empty wait set, got %d", got)
	}
	if err := lp.Post(func() {}); !errors.Is(err, api.ErrLoopClosed) {
		t.Errorf("Expected ErrLoopClosed from Post, got %v", err)
	}
}

// TestLoop_UnregisterIdempotent tests that unregistering an absent
// notifier is a no-op, not an error.
func TestLoop_UnregisterIdempotent(t *testing.T) {
	fw := fake.NewWaiter()
	lp := loop.New(fw)
	defer lp.Close()

	n := &recordingNotifier{handle: 8}
	if err := lp.RegisterEventNotifier(n); err != nil {
		t.Fatalf("register: %v", err)
	}
	lp.UnregisterEventNotifier(n)
	lp.UnregisterEventNotifier(n)
	if got := lp.Counters().WaitSetSize; got != 0 {
		t.Errorf("Expected empty wait set, got %d", got)
	}
}

// TestLoop_PostWakesBlockedWait tests that Post interrupts an indefinite
// wait and runs the task on the loop thread before the next wait.
func TestLoop_PostWakesBlockedWait(t *testing.T) {
	fw := fake.NewWaiter()
	lp := loop.New(fw)
	defer lp.Close()

	ran := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		if err := lp.Post(func() { close(ran) }); err != nil {
			t.Errorf("post: %v", err)
		}
	}()

	kind, err := lp.RunOnce(-1)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if kind != api.WaitWoken {
		t.Errorf("Expected WaitWoken, got %v", kind)
	}
	select {
	case <-ran:
	default:
		t.Errorf("Expected posted task to have run before RunOnce returned")
	}
}

// TestLoop_RegistrationDuringDispatchVisibleNextIteration tests snapshot
// semantics: a notifier registered from inside a callback joins the wait
// set on the next iteration, not the current one.
func TestLoop_RegistrationDuringDispatchVisibleNextIteration(t *testing.T) {
	fw := fake.NewWaiter()
	lp := loop.New(fw)
	defer lp.Close()

	late := &recordingNotifier{handle: 2}
	first := &recordingNotifier{handle: 1}
	first.onFire = func(h api.Handle) {
		fw.Reset(h)
		if err := lp.RegisterEventNotifier(late); err != nil {
			t.Errorf("register during dispatch: %v", err)
		}
	}
	if err := lp.RegisterEventNotifier(first); err != nil {
		t.Fatalf("register: %v", err)
	}

	fw.Signal(1)
	fw.Signal(2)
	if _, err := lp.RunOnce(time.Second); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(late.fired) != 0 {
		t.Errorf("Expected late notifier to stay silent in the iteration that registered it")
	}
	if _, err := lp.RunOnce(time.Second); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(late.fired) != 1 || late.fired[0] != 2 {
		t.Errorf("Expected late notifier to fire on the next iteration, got %v", late.fired)
	}
}

// scriptedWaiter replays canned results, standing in for a provider that
// reports an index the registry no longer covers.
type scriptedWaiter struct {
	results []api.WaitResult
	pos     int
}

func (s *scriptedWaiter) Wait([]api.Handle, time.Duration) (api.WaitResult, error) {
	if s.pos >= len(s.results) {
		return api.WaitResult{Kind: api.WaitTimedOut}, nil
	}
	r := s.results[s.pos]
	s.pos++
	return r, nil
}

func (s *scriptedWaiter) Wake() error  { return nil }
func (s *scriptedWaiter) Close() error { return nil }

// TestLoop_StaleResultDroppedSilently tests that a fired slot with no
// surviving registry entry is dropped without error or retry.
func TestLoop_StaleResultDroppedSilently(t *testing.T) {
	sw := &scriptedWaiter{results: []api.WaitResult{{Kind: api.WaitSignaled, Index: 0}}}
	lp := loop.New(sw)
	defer lp.Close()

	kind, err := lp.RunOnce(0)
	if err != nil {
		t.Fatalf("Expected silent drop, got error %v", err)
	}
	if kind != api.WaitSignaled {
		t.Errorf("Expected WaitSignaled result, got %v", kind)
	}
	if got := lp.Counters().Stale; got != 1 {
		t.Errorf("Expected one stale drop recorded, got %d", got)
	}
	if got := lp.Counters().Dispatches; got != 0 {
		t.Errorf("Expected zero dispatches, got %d", got)
	}
}

// TestLoop_RunStop tests the conventional driver: Run blocks in wait
// until Stop is posted from another goroutine.
func TestLoop_RunStop(t *testing.T) {
	fw := fake.NewWaiter()
	lp := loop.New(fw)
	defer lp.Close()

	done := make(chan error, 1)
	go func() { done <- lp.Run() }()

	time.Sleep(10 * time.Millisecond)
	lp.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after Stop")
	}
}
