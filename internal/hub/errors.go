package hub

import "errors"

// Domain-specific errors for the hub protocol session.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrAuthInvalid is returned when the hub rejects the access token.
	// Fatal for that token: retrying with a known-bad token is pointless,
	// so Run aborts instead of entering the reconnect cycle.
	ErrAuthInvalid = errors.New("hub: authentication rejected")

	// ErrHandshake is returned when the auth phase does not complete,
	// including the configurable handshake timeout. Transient: feeds
	// the backoff cycle like any connect failure.
	ErrHandshake = errors.New("hub: handshake failed")

	// ErrProtocol marks a malformed frame or unexpected message shape.
	// A single occurrence is logged and tolerated; recurrence past the
	// threshold tears the connection down.
	ErrProtocol = errors.New("hub: protocol error")

	// ErrCommandFailed is returned when the hub reports success=false
	// for a correlated command the session depends on.
	ErrCommandFailed = errors.New("hub: command failed")

	// ErrCancelled marks pending requests abandoned at connection
	// teardown.
	ErrCancelled = errors.New("hub: request cancelled")
)
