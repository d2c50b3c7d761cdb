package hub

// State is the protocol session's position in the per-connection
// lifecycle. Disconnected is terminal for a connection and triggers the
// reconnect cycle; every other state belongs to exactly one phase of the
// handshake, except Live which persists for the life of the connection.
type State int32

const (
	StateConnecting State = iota
	StateAwaitingAuthRequired
	StateAwaitingAuthResult
	StateFetchingSnapshot
	StateSubscribing
	StateLive
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAwaitingAuthRequired:
		return "awaiting_auth_required"
	case StateAwaitingAuthResult:
		return "awaiting_auth_result"
	case StateFetchingSnapshot:
		return "fetching_snapshot"
	case StateSubscribing:
		return "subscribing"
	case StateLive:
		return "live"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Status is the coarse connection signal surfaced to the UI. The
// renderer never sees raw protocol errors, only whether the registry
// content can currently be trusted.
type Status int

const (
	// StatusStale means the connection is down (or not yet live) and
	// the registry shows last-known data.
	StatusStale Status = iota

	// StatusConnected means the subscription is live and the registry
	// tracks the hub.
	StatusConnected
)

func (s Status) String() string {
	if s == StatusConnected {
		return "connected"
	}
	return "stale"
}
