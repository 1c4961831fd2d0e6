// File: loop/registry.go
// Package loop implements the handle registry.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import "github.com/momentics/winnotify/api"

// handleRegistry maps registered notifiers to their watched handles in
// both directions. Owned by one Loop and mutated only on its thread, so
// no locking. Insertion order is kept because it defines wait-set
// indexing and therefore which of several simultaneously signalled
// handles is reported first.
type handleRegistry struct {
	byHandle   map[api.Handle]api.HandleNotifier
	byNotifier map[api.HandleNotifier]api.Handle
	order      []api.Handle
}

func newHandleRegistry() *handleRegistry {
	return &handleRegistry{
		byHandle:   make(map[api.Handle]api.HandleNotifier),
		byNotifier: make(map[api.HandleNotifier]api.Handle),
	}
}

// insert adds or replaces the entry for n. A handle belongs to at most
// one notifier; re-registering a live handle evicts the previous owner
// (last writer wins).
func (r *handleRegistry) insert(n api.HandleNotifier, h api.Handle) {
	if prev, ok := r.byNotifier[n]; ok {
		r.removeHandle(prev)
		delete(r.byNotifier, n)
	}
	if prevOwner, ok := r.byHandle[h]; ok {
		delete(r.byNotifier, prevOwner)
		r.removeHandle(h)
	}
	r.byHandle[h] = n
	r.byNotifier[n] = h
	r.order = append(r.order, h)
}

// remove drops the entry for n if present. Idempotent.
func (r *handleRegistry) remove(n api.HandleNotifier) bool {
	h, ok := r.byNotifier[n]
	if !ok {
		return false
	}
	delete(r.byNotifier, n)
	delete(r.byHandle, h)
	r.removeHandle(h)
	return true
}

// lookup resolves a fired handle back to its notifier.
func (r *handleRegistry) lookup(h api.Handle) (api.HandleNotifier, bool) {
	n, ok := r.byHandle[h]
	return n, ok
}

// contains reports whether n currently has an entry.
func (r *handleRegistry) contains(n api.HandleNotifier) bool {
	_, ok := r.byNotifier[n]
	return ok
}

func (r *handleRegistry) size() int {
	return len(r.order)
}

// waitSet returns a fresh copy of the registered handles in insertion
// order. The copy stays stable while dispatch mutates the registry.
func (r *handleRegistry) waitSet() []api.Handle {
	out := make([]api.Handle, len(r.order))
	copy(out, r.order)
	return out
}

// clear drops every entry. Used at loop teardown; no entry outlives its loop.
func (r *handleRegistry) clear() {
	r.byHandle = make(map[api.Handle]api.HandleNotifier)
	r.byNotifier = make(map[api.HandleNotifier]api.Handle)
	r.order = r.order[:0]
}

func (r *handleRegistry) removeHandle(h api.Handle) {
	for i, v := range r.order {
		if v == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
