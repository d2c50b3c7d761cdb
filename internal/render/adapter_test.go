package render

import (
	"reflect"
	"testing"

	"github.com/nerrad567/hearth/internal/entity"
	"github.com/nerrad567/hearth/internal/hub"
	"github.com/nerrad567/hearth/internal/projection"
)

type mockSurface struct {
	widgets map[entity.ID]projection.Projection
	paints  []entity.ID
	states  []ConnectionState
}

func newMockSurface() *mockSurface {
	return &mockSurface{widgets: make(map[entity.ID]projection.Projection)}
}

func (m *mockSurface) CreateOrUpdateWidget(id entity.ID, p projection.Projection) {
	m.widgets[id] = p
	m.paints = append(m.paints, id)
}

func (m *mockSurface) SetConnectionState(state ConnectionState) {
	m.states = append(m.states, state)
}

func record(id, state string, attrs entity.Attributes) entity.Record {
	return entity.Record{ID: entity.ID(id), State: state, Attributes: attrs}
}

func newAttachedAdapter(hidden []string) (*entity.Registry, *mockSurface, *Adapter) {
	reg := entity.NewRegistry()
	surface := newMockSurface()
	adapter := NewAdapter(reg, surface, hidden)
	adapter.Attach()
	return reg, surface, adapter
}

func TestAdapterDrawsSnapshotBatch(t *testing.T) {
	reg, surface, _ := newAttachedAdapter([]string{"camera"})

	reg.ApplySnapshot([]entity.Record{
		record("light.kitchen", "on", entity.Attributes{"friendly_name": "Kitchen"}),
		record("sensor.lounge_temp", "21.5", entity.Attributes{"unit_of_measurement": "°C"}),
		record("camera.front_door", "recording", nil),
	})

	if len(surface.widgets) != 2 {
		t.Fatalf("surface holds %d widgets, want 2", len(surface.widgets))
	}

	kitchen, ok := surface.widgets[entity.ID("light.kitchen")]
	if !ok {
		t.Fatal("no widget for light.kitchen")
	}
	if kitchen.Label != "Kitchen" {
		t.Errorf("label = %q, want Kitchen", kitchen.Label)
	}

	temp := surface.widgets[entity.ID("sensor.lounge_temp")]
	if temp.ValueText != "21.5°C" {
		t.Errorf("value = %q, want 21.5°C", temp.ValueText)
	}

	if _, ok := surface.widgets[entity.ID("camera.front_door")]; ok {
		t.Error("hidden domain was drawn")
	}
	// Hidden means not drawn, not not tracked.
	if _, err := reg.Get(entity.ID("camera.front_door")); err != nil {
		t.Errorf("hidden entity missing from registry: %v", err)
	}
}

func TestAdapterUpdatesExistingWidget(t *testing.T) {
	reg, surface, adapter := newAttachedAdapter(nil)

	reg.ApplySnapshot([]entity.Record{
		record("light.kitchen", "on", nil),
	})
	reg.ApplyUpdate(record("light.kitchen", "off", nil))

	if len(surface.widgets) != 1 {
		t.Fatalf("surface holds %d widgets, want 1", len(surface.widgets))
	}
	if got := surface.widgets[entity.ID("light.kitchen")].ValueText; got != "Off" {
		t.Errorf("value = %q after update, want Off", got)
	}
	if len(surface.paints) != 2 {
		t.Errorf("paint count = %d, want 2", len(surface.paints))
	}
	if got := adapter.Order(); len(got) != 1 {
		t.Errorf("order has %d entries after repaint, want 1", len(got))
	}
}

func TestAdapterOrderGroupsByDomain(t *testing.T) {
	reg, _, adapter := newAttachedAdapter(nil)

	reg.ApplySnapshot([]entity.Record{
		record("sensor.zulu", "1", nil),
		record("light.alpha", "on", nil),
	})
	// Runtime insert lands in domain order, not arrival order.
	reg.ApplyUpdate(record("binary_sensor.motion", "on", nil))
	// Repaint must not move or duplicate.
	reg.ApplyUpdate(record("light.alpha", "off", nil))

	want := []entity.ID{"binary_sensor.motion", "light.alpha", "sensor.zulu"}
	if got := adapter.Order(); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestAdapterWidgetsSurviveSnapshotReplace(t *testing.T) {
	reg, surface, adapter := newAttachedAdapter(nil)

	reg.ApplySnapshot([]entity.Record{
		record("light.alpha", "on", nil),
		record("switch.retired", "off", nil),
	})
	reg.ApplySnapshot([]entity.Record{
		record("light.alpha", "off", nil),
	})

	// The vanished entity keeps its widget and its slot; it just stops
	// updating.
	if _, ok := surface.widgets[entity.ID("switch.retired")]; !ok {
		t.Error("widget for vanished entity was lost")
	}
	want := []entity.ID{"light.alpha", "switch.retired"}
	if got := adapter.Order(); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestAdapterHandleStatus(t *testing.T) {
	_, surface, adapter := newAttachedAdapter(nil)

	adapter.HandleStatus(hub.StatusConnected)
	adapter.HandleStatus(hub.StatusStale)

	want := []ConnectionState{ConnectionLive, ConnectionStale}
	if !reflect.DeepEqual(surface.states, want) {
		t.Errorf("states = %v, want %v", surface.states, want)
	}
}
