// Package hub implements the protocol session that keeps the entity
// registry synchronised with a running hub over a persistent WebSocket
// connection.
//
// One Session owns one logical connection. Its lifecycle is a fixed
// sequence of phases:
//
//	connecting → awaiting auth_required → auth sent → auth_ok
//	           → get_states → snapshot applied
//	           → subscribe_events(state_changed) → live
//
// In the live phase every state_changed event is applied to the
// registry as an upsert. Any transport or protocol failure tears the
// connection down, flags the registry stale, cancels in-flight
// requests and redials with exponential backoff. The one fatal
// condition is auth_invalid: a rejected token is rejected forever, so
// Run returns ErrAuthInvalid instead of retrying.
//
// Commands carry monotonically increasing request ids, valid for a
// single connection. Responses correlate by id; results that match no
// pending request are discarded without error. The auth exchange is
// the exception: it has no id and correlates by message type.
//
// Malformed frames are tolerated individually (logged, skipped) but a
// run of consecutive failures past a fixed threshold is treated as a
// broken connection.
package hub
