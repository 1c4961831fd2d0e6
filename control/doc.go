// Package control
// Author: momentics <momentics@gmail.com>
//
// Hot-reload, runtime metrics, configuration control, and debug
// introspection layer for winnotify.
//
// Provides concurrent-safe state handling primitives including:
//   - Immutable snapshot config reads, atomic updates, YAML file loading
//   - File watchers and runtime observers for hot-reload
//   - Metrics telemetry with JSON export
//   - State export, debug hooks, and probe registration
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
