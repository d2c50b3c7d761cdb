package projection

import (
	"strings"
	"unicode"

	"github.com/nerrad567/hearth/internal/entity"
)

// RGB is a 24-bit colour. Surfaces map it onto whatever palette the
// terminal supports.
type RGB struct {
	R, G, B uint8
}

// Projection is the derived, display-ready view of one entity record.
// It is ephemeral: recomputed on demand, never stored, and holds no
// state of its own.
type Projection struct {
	// Label is the human-readable entity name.
	Label string

	// ValueText is the humanized state, e.g. "21.5°C", "Detected", "On".
	ValueText string

	// Icon is the glyph rendered beside the label.
	Icon string

	// Color is the icon/value colour, or nil for the surface default.
	Color *RGB
}

// placeholderText stands in for the raw "unknown"/"unavailable" tokens.
const placeholderText = "—"

// Project derives a display projection from an entity record.
//
// It is a pure function: the same record always yields the same
// projection. The single exception is device_class=timestamp, whose
// wording is relative to the wall clock by definition.
func Project(rec *entity.Record) Projection {
	return Projection{
		Label:     labelFor(rec),
		ValueText: valueText(rec),
		Icon:      resolveIcon(rec),
		Color:     colorFor(rec),
	}
}

// labelFor prefers the friendly_name attribute and falls back to a
// prettified object id: "light.kitchen_lamp" becomes "Kitchen Lamp".
func labelFor(rec *entity.Record) string {
	if name := rec.FriendlyName(); name != "" {
		return name
	}
	return prettifyObjectID(rec.ID.ObjectID())
}

func prettifyObjectID(objectID string) string {
	words := strings.Split(objectID, "_")
	for i, word := range words {
		words[i] = titleWord(word)
	}
	return strings.Join(words, " ")
}

func titleWord(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// isUnsettled reports whether the raw state carries no usable value.
func isUnsettled(state string) bool {
	return state == "unknown" || state == "unavailable"
}
