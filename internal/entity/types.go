package entity

import (
	"strings"
	"time"
)

// ID identifies an entity in the form "<domain>.<object_id>",
// e.g. "light.kitchen". IDs are opaque and immutable once assigned;
// the domain prefix drives humanization rules.
type ID string

// ParseID validates a raw entity id string.
//
// Returns:
//   - ID: The validated id
//   - error: ErrInvalidID if the string is not "<domain>.<object_id>"
func ParseID(raw string) (ID, error) {
	domain, object, ok := strings.Cut(raw, ".")
	if !ok || domain == "" || object == "" {
		return "", ErrInvalidID
	}
	return ID(raw), nil
}

// Domain returns the part before the first ".". An id that never passed
// ParseID may return "".
func (id ID) Domain() string {
	domain, _, _ := strings.Cut(string(id), ".")
	return domain
}

// ObjectID returns the part after the first ".".
func (id ID) ObjectID() string {
	_, object, _ := strings.Cut(string(id), ".")
	return object
}

// Attributes is the dynamic per-entity attribute bag. Keys and value
// shapes vary by domain and integration, so access goes through narrow
// typed lookups that never assume shape.
type Attributes map[string]any

// String returns the attribute as a string if present and string-typed.
func (a Attributes) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Float returns the attribute as a float64. JSON numbers decode as
// float64; int is accepted for records constructed in code.
func (a Attributes) Float(key string) (float64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// Bool returns the attribute as a bool if present and bool-typed.
func (a Attributes) Bool(key string) (bool, bool) {
	v, ok := a[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Ints returns the attribute as a slice of ints. JSON arrays decode as
// []any of float64; []int is accepted for records constructed in code.
func (a Attributes) Ints(key string) ([]int, bool) {
	v, ok := a[key]
	if !ok {
		return nil, false
	}
	switch list := v.(type) {
	case []int:
		out := make([]int, len(list))
		copy(out, list)
		return out, true
	case []any:
		out := make([]int, 0, len(list))
		for _, item := range list {
			switch n := item.(type) {
			case float64:
				out = append(out, int(n))
			case int:
				out = append(out, n)
			default:
				return nil, false
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// Record is the authoritative in-memory state of one entity. A record
// exists fully or not at all in the registry; it is never partially
// constructed.
type Record struct {
	ID          ID         `json:"entity_id"`
	State       string     `json:"state"`
	Attributes  Attributes `json:"attributes"`
	LastChanged time.Time  `json:"last_changed"`
	LastUpdated time.Time  `json:"last_updated"`
}

// Well-known attribute lookups used across the humanization pipeline.

// FriendlyName returns the friendly_name attribute, or "" if absent.
func (r *Record) FriendlyName() string {
	name, _ := r.Attributes.String("friendly_name")
	return name
}

// UnitOfMeasurement returns the unit_of_measurement attribute, or "".
func (r *Record) UnitOfMeasurement() string {
	unit, _ := r.Attributes.String("unit_of_measurement")
	return unit
}

// DeviceClass returns the device_class attribute, or "".
func (r *Record) DeviceClass() string {
	class, _ := r.Attributes.String("device_class")
	return class
}

// StateClass returns the state_class attribute, or "".
func (r *Record) StateClass() string {
	class, _ := r.Attributes.String("state_class")
	return class
}

// Icon returns the explicit icon attribute override, or "".
func (r *Record) Icon() string {
	icon, _ := r.Attributes.String("icon")
	return icon
}

// DeepCopy creates a complete independent copy of the Record.
// The attribute bag is cloned recursively so modifications to the copy
// do not affect the original. This is essential for registry isolation.
func (r *Record) DeepCopy() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.Attributes = deepCopyAttributes(r.Attributes)
	return &out
}

func deepCopyAttributes(attrs Attributes) Attributes {
	if attrs == nil {
		return nil
	}
	out := make(Attributes, len(attrs))
	for k, v := range attrs {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	case []int:
		out := make([]int, len(val))
		copy(out, val)
		return out
	default:
		// Scalars are immutable.
		return v
	}
}
