// Package entity provides the entity registry for hearth.
//
// The registry is the single source of truth the renderer reads from: a
// map of entity id to current record, built from the hub's initial
// full-state snapshot and kept current by applying state_changed events
// in arrival order.
//
// # Key Types
//
//   - ID: "<domain>.<object_id>" entity identifier
//   - Record: current state + dynamic attribute bag + timestamps
//   - Registry: snapshot/update application with ordered change
//     notifications and a staleness flag for disconnected periods
//
// # Consistency
//
// The registry reflects exactly the fold of updates over the last
// snapshot, in arrival order: a later update for the same id always
// wins. No listener ever observes an entity in a partially-updated
// state; records are swapped in whole.
//
// # Thread Safety
//
// Mutations come from a single logical writer (the protocol session).
// Change listeners run synchronously on that writer. Reads from other
// goroutines are safe via the internal mutex; returned records are deep
// copies.
package entity
