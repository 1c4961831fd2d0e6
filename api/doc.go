// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Contracts shared across the winnotify library: wait-handle types,
// the notifier and wait-provider interfaces, and common error values.
//
// The library lets application code observe OS synchronization objects
// (events, processes, threads, waitable timers) asynchronously: a loop
// blocks in one multi-object wait over all enabled handles and delivers
// one activation per signalled handle per iteration, on the loop thread.
package api
