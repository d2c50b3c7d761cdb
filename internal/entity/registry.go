package entity

import (
	"sort"
	"sync"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ChangeListener is invoked synchronously after each registry mutation
// with the set of changed ids: one batched call for a snapshot, one
// singular call per incremental update. Listeners run on the registry's
// single writer, in mutation order, and must not block.
type ChangeListener func(changed []ID)

// Registry is the authoritative in-memory map of entity id to current
// record. It reflects exactly the result of applying, in arrival order,
// the initial snapshot followed by every event received since.
//
// Writes are expected from a single logical writer (the protocol
// session's receive loop). The mutex exists so reads from outside the
// change-notification path (a periodic repaint, a test) stay safe.
//
// While the connection is down the registry is flagged stale rather than
// cleared, so the last-known state stays on screen instead of flashing
// "no data". Only a fresh snapshot clears the flag.
type Registry struct {
	mu        sync.RWMutex
	records   map[ID]*Record
	stale     bool
	listeners []ChangeListener
	logger    Logger
}

// NewRegistry creates an empty registry, flagged stale until the first
// snapshot lands.
func NewRegistry() *Registry {
	return &Registry{
		records: make(map[ID]*Record),
		stale:   true,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// SubscribeChanges registers a listener invoked synchronously after each
// mutation. Registration is not safe concurrently with mutations; wire
// listeners up before the protocol session starts.
func (r *Registry) SubscribeChanges(fn ChangeListener) {
	r.listeners = append(r.listeners, fn)
}

// ApplySnapshot replaces all entries wholesale and clears the stale flag.
// Listeners receive one batched notification with every id in the
// snapshot, sorted for deterministic iteration.
func (r *Registry) ApplySnapshot(records []Record) {
	changed := make([]ID, 0, len(records))

	r.mu.Lock()
	r.records = make(map[ID]*Record, len(records))
	for i := range records {
		rec := records[i]
		r.records[rec.ID] = rec.DeepCopy()
		changed = append(changed, rec.ID)
	}
	r.stale = false
	r.mu.Unlock()

	sort.Slice(changed, func(i, j int) bool { return changed[i] < changed[j] })

	r.logger.Info("snapshot applied", "entities", len(changed))
	r.notify(changed)
}

// ApplyUpdate upserts a single entry. An update for an id absent from
// the registry inserts a new record: the hub may add entities at
// runtime and they must not be dropped.
func (r *Registry) ApplyUpdate(rec Record) {
	r.mu.Lock()
	_, existed := r.records[rec.ID]
	r.records[rec.ID] = rec.DeepCopy()
	r.mu.Unlock()

	if !existed {
		r.logger.Debug("new entity inserted via update", "entity_id", string(rec.ID))
	}
	r.notify([]ID{rec.ID})
}

// Get retrieves a record by id.
// Returns ErrNotFound if the entity does not exist.
// The returned record is a deep copy; callers can safely modify it.
func (r *Registry) Get(id ID) (*Record, error) {
	r.mu.RLock()
	rec, ok := r.records[id]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return rec.DeepCopy(), nil
}

// List returns deep copies of all records, sorted by id.
func (r *Registry) List() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec.DeepCopy())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of entities currently held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// MarkStale flags the registry as possibly outdated. Called on
// disconnect; the last-known state remains readable.
func (r *Registry) MarkStale() {
	r.mu.Lock()
	r.stale = true
	r.mu.Unlock()
}

// Stale reports whether the registry content predates the current
// connection.
func (r *Registry) Stale() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stale
}

// notify runs outside the mutex: the mutation is already complete and
// atomic, and listeners are free to call Get/List.
func (r *Registry) notify(changed []ID) {
	if len(changed) == 0 {
		return
	}
	for _, fn := range r.listeners {
		fn(changed)
	}
}
