package entity

import (
	"errors"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		domain  string
		object  string
	}{
		{name: "simple", input: "light.kitchen", domain: "light", object: "kitchen"},
		{name: "object with dots", input: "sensor.outdoor.temp", domain: "sensor", object: "outdoor.temp"},
		{name: "missing separator", input: "kitchen", wantErr: true},
		{name: "empty domain", input: ".kitchen", wantErr: true},
		{name: "empty object", input: "light.", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidID) {
					t.Fatalf("ParseID(%q) error = %v, want ErrInvalidID", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseID(%q) error = %v", tt.input, err)
			}
			if id.Domain() != tt.domain {
				t.Errorf("Domain() = %q, want %q", id.Domain(), tt.domain)
			}
			if id.ObjectID() != tt.object {
				t.Errorf("ObjectID() = %q, want %q", id.ObjectID(), tt.object)
			}
		})
	}
}

func TestAttributes_TypedLookups(t *testing.T) {
	attrs := Attributes{
		"friendly_name": "Kitchen Lamp",
		"brightness":    float64(200),
		"count":         3,
		"assumed_state": true,
		"rgb_color":     []any{float64(255), float64(0), float64(0)},
		"int_color":     []int{1, 2, 3},
		"mixed":         []any{"a", float64(1)},
		"nested":        map[string]any{"x": 1},
	}

	if s, ok := attrs.String("friendly_name"); !ok || s != "Kitchen Lamp" {
		t.Errorf("String(friendly_name) = %q, %v", s, ok)
	}
	if _, ok := attrs.String("brightness"); ok {
		t.Error("String(brightness) should fail on non-string")
	}
	if _, ok := attrs.String("missing"); ok {
		t.Error("String(missing) should report absence")
	}

	if f, ok := attrs.Float("brightness"); !ok || f != 200 {
		t.Errorf("Float(brightness) = %v, %v", f, ok)
	}
	if f, ok := attrs.Float("count"); !ok || f != 3 {
		t.Errorf("Float(count) = %v, %v (int should coerce)", f, ok)
	}
	if _, ok := attrs.Float("friendly_name"); ok {
		t.Error("Float(friendly_name) should fail on string")
	}

	if b, ok := attrs.Bool("assumed_state"); !ok || !b {
		t.Errorf("Bool(assumed_state) = %v, %v", b, ok)
	}

	if rgb, ok := attrs.Ints("rgb_color"); !ok || len(rgb) != 3 || rgb[0] != 255 {
		t.Errorf("Ints(rgb_color) = %v, %v", rgb, ok)
	}
	if rgb, ok := attrs.Ints("int_color"); !ok || rgb[2] != 3 {
		t.Errorf("Ints(int_color) = %v, %v", rgb, ok)
	}
	if _, ok := attrs.Ints("mixed"); ok {
		t.Error("Ints(mixed) should fail on non-numeric element")
	}
	if _, ok := attrs.Ints("nested"); ok {
		t.Error("Ints(nested) should fail on map value")
	}
}

func TestRecord_WellKnownLookups(t *testing.T) {
	rec := Record{
		ID:    "sensor.outside",
		State: "21.5",
		Attributes: Attributes{
			"friendly_name":       "Outside",
			"unit_of_measurement": "°C",
			"device_class":        "temperature",
			"state_class":         "measurement",
			"icon":                "mdi:thermometer",
		},
	}

	if rec.FriendlyName() != "Outside" {
		t.Errorf("FriendlyName() = %q", rec.FriendlyName())
	}
	if rec.UnitOfMeasurement() != "°C" {
		t.Errorf("UnitOfMeasurement() = %q", rec.UnitOfMeasurement())
	}
	if rec.DeviceClass() != "temperature" {
		t.Errorf("DeviceClass() = %q", rec.DeviceClass())
	}
	if rec.StateClass() != "measurement" {
		t.Errorf("StateClass() = %q", rec.StateClass())
	}
	if rec.Icon() != "mdi:thermometer" {
		t.Errorf("Icon() = %q", rec.Icon())
	}

	empty := Record{ID: "sensor.bare", State: "1"}
	if empty.FriendlyName() != "" || empty.UnitOfMeasurement() != "" {
		t.Error("lookups on nil attribute bag should return empty strings")
	}
}
