// File: loop/options.go
// Package loop defines functional options for Loop construction.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package loop

import (
	"time"

	"github.com/momentics/winnotify/control"
)

// Options holds tunables applied at New.
type Options struct {
	// WaitTimeout bounds each Run iteration's blocking wait. Negative
	// means block indefinitely until a handle signals or Post wakes
	// the loop.
	WaitTimeout time.Duration

	// PinnedCPU pins the loop thread to a logical CPU when >= 0.
	PinnedCPU int

	// Metrics, when set, receives the loop counters after every
	// iteration of Run.
	Metrics *control.MetricsRegistry
}

// Option customizes loop initialization.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		WaitTimeout: -1,
		PinnedCPU:   -1,
	}
}

// WithWaitTimeout bounds the per-iteration blocking wait.
func WithWaitTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.WaitTimeout = d
	}
}

// WithPinnedCPU pins the loop thread to the given logical CPU.
func WithPinnedCPU(cpuID int) Option {
	return func(o *Options) {
		o.PinnedCPU = cpuID
	}
}

// WithMetrics publishes loop counters into mr while Run iterates.
func WithMetrics(mr *control.MetricsRegistry) Option {
	return func(o *Options) {
		o.Metrics = mr
	}
}

// OptionsFromConfig derives loop options from a config snapshot.
// Recognized keys: "loop.wait_timeout_ms" and "loop.pinned_cpu".
func OptionsFromConfig(snap map[string]any) []Option {
	var opts []Option
	if ms, ok := configInt(snap, "loop.wait_timeout_ms"); ok {
		opts = append(opts, WithWaitTimeout(time.Duration(ms)*time.Millisecond))
	}
	if cpu, ok := configInt(snap, "loop.pinned_cpu"); ok {
		opts = append(opts, WithPinnedCPU(cpu))
	}
	return opts
}

// configInt coerces YAML/JSON numeric config values to int.
func configInt(snap map[string]any, key string) (int, bool) {
	v, ok := snap[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
