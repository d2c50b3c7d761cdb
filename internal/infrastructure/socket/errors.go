package socket

import "errors"

// Domain-specific errors for transport operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrConnectionFailed is returned when a dial attempt fails.
	// This is a transient transport error: retry with backoff.
	ErrConnectionFailed = errors.New("socket: connection failed")

	// ErrConnectionClosed is returned when a read or write hits a closed
	// or broken connection. The connection must be discarded and redialled.
	ErrConnectionClosed = errors.New("socket: connection closed")
)
