package render

import (
	"github.com/nerrad567/hearth/internal/entity"
	"github.com/nerrad567/hearth/internal/projection"
)

// ConnectionState is the coarse connection signal forwarded to the
// surface so it can show a stale marker while keeping the last-known
// widgets on screen.
type ConnectionState int

const (
	// ConnectionStale means the hub link is down or not yet live and
	// displayed values may be outdated.
	ConnectionStale ConnectionState = iota

	// ConnectionLive means the subscription is active and widgets track
	// the hub in real time.
	ConnectionLive
)

func (s ConnectionState) String() string {
	if s == ConnectionLive {
		return "live"
	}
	return "stale"
}

// Surface is the rendering engine contract. The adapter pushes display
// models through it; what a "widget" is (a terminal cell, a GUI tile)
// is the implementation's business.
//
// Calls arrive synchronously on the protocol session's goroutine and
// must not block.
type Surface interface {
	// CreateOrUpdateWidget creates the widget for an entity on first
	// sight and repaints it on every subsequent change.
	CreateOrUpdateWidget(id entity.ID, p projection.Projection)

	// SetConnectionState updates the surface's stale marker.
	SetConnectionState(state ConnectionState)
}
