// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Wait-handle type and platform wait-set limits.

package api

// Handle is an opaque reference to an OS synchronization object.
// The library never owns, duplicates, or closes a Handle; lifetime and
// validity stay with the registering caller. Waiting on a closed handle
// is a caller contract violation with OS-level undefined behavior.
type Handle uintptr

// InvalidHandle is the zero, unset handle value.
const InvalidHandle Handle = 0

const (
	// MaxWaitObjects is the ceiling on objects a single multi-object
	// wait call can cover (MAXIMUM_WAIT_OBJECTS on Windows).
	MaxWaitObjects = 64

	// MaxNotifiers is the number of handles one loop can watch. One
	// wait slot is reserved for the loop's own wake primitive.
	MaxNotifiers = MaxWaitObjects - 1
)
