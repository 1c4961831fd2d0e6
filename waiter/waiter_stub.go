//go:build !windows
// +build !windows

// File: waiter/waiter_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for platforms without native wait-handle support.
// Use fake.NewWaiter for portable development and tests.

package waiter

import (
	"errors"

	"github.com/momentics/winnotify/api"
)

// New returns an error on platforms without a native multi-object wait.
func New() (api.WaitProvider, error) {
	return nil, errors.New("waiter: this platform is not supported")
}
