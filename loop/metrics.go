// File: loop/metrics.go
// Package loop exposes loop counters to the control layer.
// Author: momentics <momentics@gmail.com>

package loop

import (
	"sync/atomic"

	"github.com/momentics/winnotify/control"
)

// Counters is a point-in-time snapshot of loop activity. Safe to take
// from any goroutine.
type Counters struct {
	Iterations  int64
	Dispatches  int64
	Wakeups     int64
	Timeouts    int64
	Stale       int64
	WaitSetSize int64
}

// Counters returns the current loop counters.
func (lp *Loop) Counters() Counters {
	return Counters{
		Iterations:  atomic.LoadInt64(&lp.iterations),
		Dispatches:  atomic.LoadInt64(&lp.dispatches),
		Wakeups:     atomic.LoadInt64(&lp.wakeups),
		Timeouts:    atomic.LoadInt64(&lp.timeouts),
		Stale:       atomic.LoadInt64(&lp.stale),
		WaitSetSize: atomic.LoadInt64(&lp.waitSetSize),
	}
}

// publishMetrics pushes the counters into the configured registry.
func (lp *Loop) publishMetrics() {
	c := lp.Counters()
	mr := lp.opts.Metrics
	mr.Set("loop.iterations", c.Iterations)
	mr.Set("loop.dispatches", c.Dispatches)
	mr.Set("loop.wakeups", c.Wakeups)
	mr.Set("loop.timeouts", c.Timeouts)
	mr.Set("loop.stale_drops", c.Stale)
	mr.Set("loop.waitset_size", c.WaitSetSize)
}

// RegisterDebugProbes exposes the loop through a probe registry.
func (lp *Loop) RegisterDebugProbes(dp *control.DebugProbes) {
	dp.RegisterProbe("loop.counters", func() any {
		return lp.Counters()
	})
	dp.RegisterProbe("loop.closed", func() any {
		return lp.Closed()
	})
}
