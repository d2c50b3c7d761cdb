package render

import (
	"sort"
	"sync"

	"github.com/nerrad567/hearth/internal/entity"
	"github.com/nerrad567/hearth/internal/hub"
	"github.com/nerrad567/hearth/internal/projection"
)

// Logger defines the logging interface used by the Adapter.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Adapter bridges the entity registry to a rendering surface. It
// subscribes to registry changes, recomputes the display projection for
// each changed entity and pushes it to the surface.
//
// Widget tracking is lazy: an entity gets a widget the first time it is
// seen and keeps it for the life of the process. There is no deletion
// protocol; an entity that vanishes from a fresh snapshot simply stops
// updating.
//
// Thread Safety:
//   - Change callbacks run synchronously on the registry's writer.
//   - Order and HandleStatus are safe from any goroutine.
type Adapter struct {
	registry *entity.Registry
	surface  Surface
	hidden   map[string]struct{}
	logger   Logger

	mu    sync.Mutex
	seen  map[entity.ID]struct{}
	order []entity.ID
}

// NewAdapter creates an adapter pushing projections to surface. Domains
// listed in hiddenDomains are tracked in the registry but never drawn.
func NewAdapter(registry *entity.Registry, surface Surface, hiddenDomains []string) *Adapter {
	hidden := make(map[string]struct{}, len(hiddenDomains))
	for _, d := range hiddenDomains {
		hidden[d] = struct{}{}
	}
	return &Adapter{
		registry: registry,
		surface:  surface,
		hidden:   hidden,
		logger:   noopLogger{},
		seen:     make(map[entity.ID]struct{}),
	}
}

// SetLogger sets the logger for the adapter.
func (a *Adapter) SetLogger(logger Logger) {
	a.logger = logger
}

// Attach subscribes the adapter to registry changes. Call before the
// protocol session starts so no mutation is missed.
func (a *Adapter) Attach() {
	a.registry.SubscribeChanges(a.handleChanges)
}

// HandleStatus forwards the session's connection status to the surface.
// Wire it up via hub.Session.OnStatus.
func (a *Adapter) HandleStatus(status hub.Status) {
	if status == hub.StatusConnected {
		a.surface.SetConnectionState(ConnectionLive)
	} else {
		a.surface.SetConnectionState(ConnectionStale)
	}
}

// Order returns the ids of every widget ever drawn, ordered by
// (domain, id). The ordering is stable: repainting an entity never
// moves it.
func (a *Adapter) Order() []entity.ID {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]entity.ID, len(a.order))
	copy(out, a.order)
	return out
}

// handleChanges recomputes and pushes projections for changed ids.
// Snapshot batches arrive sorted; updates arrive one at a time.
func (a *Adapter) handleChanges(changed []entity.ID) {
	for _, id := range changed {
		if _, skip := a.hidden[id.Domain()]; skip {
			continue
		}

		rec, err := a.registry.Get(id)
		if err != nil {
			// Changed then removed before we read it; nothing to draw.
			a.logger.Debug("skipping vanished entity", "entity_id", string(id))
			continue
		}

		a.track(id)
		a.surface.CreateOrUpdateWidget(id, projection.Project(rec))
	}
}

// track records the widget in the stable display order on first sight.
func (a *Adapter) track(id entity.ID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.seen[id]; ok {
		return
	}
	a.seen[id] = struct{}{}

	i := sort.Search(len(a.order), func(i int) bool {
		return !orderBefore(a.order[i], id)
	})
	a.order = append(a.order, "")
	copy(a.order[i+1:], a.order[i:])
	a.order[i] = id
}

// orderBefore sorts by domain first, then full id, so widgets group by
// domain regardless of object id spelling.
func orderBefore(a, b entity.ID) bool {
	if da, db := a.Domain(), b.Domain(); da != db {
		return da < db
	}
	return a < b
}
