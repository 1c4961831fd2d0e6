// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package waiter provides the platform implementations of the blocking multi-object wait used by the notification loop (WaitForMultipleObjects on Windows).
package waiter
