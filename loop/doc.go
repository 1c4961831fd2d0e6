// Package loop
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-threaded cooperative notification loop. One Loop owns one OS
// thread; every registry mutation and every activation dispatch for that
// loop happens on that thread. Each iteration rebuilds the wait set from
// the enabled registrations, blocks in one multi-object wait, and
// delivers at most one activation before blocking again.
//
// Multiple loops may coexist in a process, one per worker thread, with no
// shared state; registrations migrate between loops only through the
// notifier package's transfer protocol. Post is the sole cross-thread
// entry point: it enqueues a task and interrupts the wait so the task
// runs on the loop thread.
package loop
