package projection

import "github.com/nerrad567/hearth/internal/entity"

// Icon resolution precedence: explicit icon attribute override, then
// device-class icon, then domain default, then the generic fallback
// glyph. Each stage that names an icon with no known glyph falls
// through to the next rather than failing.

// genericGlyph is the last-resort icon (mdi:help-circle).
const genericGlyph = "\U000F02D6"

// deviceClassIcons maps a device_class to an mdi icon name, independent
// of domain. Narrower than the hub frontend's full table; covers the
// classes the value formatters know about.
var deviceClassIcons = map[string]string{
	"temperature":  "mdi:thermometer",
	"humidity":     "mdi:water-percent",
	"battery":      "mdi:battery",
	"power":        "mdi:flash",
	"energy":       "mdi:lightning-bolt",
	"illuminance":  "mdi:brightness-5",
	"motion":       "mdi:motion-sensor",
	"occupancy":    "mdi:home-account",
	"door":         "mdi:door",
	"window":       "mdi:window-closed",
	"garage_door":  "mdi:garage",
	"connectivity": "mdi:wifi",
	"moisture":     "mdi:water",
	"smoke":        "mdi:smoke-detector",
	"gas":          "mdi:gas-cylinder",
	"problem":      "mdi:alert-circle",
	"presence":     "mdi:account",
	"plug":         "mdi:power-plug",
	"timestamp":    "mdi:clock",
	"duration":     "mdi:timer-outline",
	"pressure":     "mdi:gauge",
	"signal_strength": "mdi:wifi",
}

// domainIcons is the fallback icon per domain, carried from the hub
// frontend's own table.
var domainIcons = map[string]string{
	"air_quality":    "mdi:air-filter",
	"alert":          "mdi:alert",
	"automation":     "mdi:robot",
	"binary_sensor":  "mdi:checkbox-marked-circle",
	"button":         "mdi:button-pointer",
	"calendar":       "mdi:calendar",
	"camera":         "mdi:video",
	"climate":        "mdi:thermostat",
	"counter":        "mdi:counter",
	"cover":          "mdi:window-shutter",
	"device_tracker": "mdi:account",
	"fan":            "mdi:fan",
	"group":          "mdi:google-circles-communities",
	"input_boolean":  "mdi:toggle-switch",
	"input_button":   "mdi:button-pointer",
	"input_datetime": "mdi:calendar-clock",
	"input_number":   "mdi:ray-vertex",
	"input_select":   "mdi:format-list-bulleted",
	"input_text":     "mdi:form-textbox",
	"light":          "mdi:lightbulb",
	"lock":           "mdi:lock",
	"media_player":   "mdi:cast",
	"number":         "mdi:ray-vertex",
	"person":         "mdi:account",
	"plant":          "mdi:flower",
	"remote":         "mdi:remote",
	"scene":          "mdi:palette",
	"script":         "mdi:script-text",
	"select":         "mdi:format-list-bulleted",
	"sensor":         "mdi:eye",
	"siren":          "mdi:bullhorn",
	"sun":            "mdi:white-balance-sunny",
	"switch":         "mdi:toggle-switch",
	"timer":          "mdi:timer-outline",
	"vacuum":         "mdi:robot-vacuum",
	"weather":        "mdi:weather-partly-cloudy",
	"zone":           "mdi:map-marker-radius",
}

// mdiAlternates remaps mdi names with no glyph in the font resource to
// close equivalents that do exist.
var mdiAlternates = map[string]string{
	"mdi:button-pointer":   "mdi:gesture-tap-button",
	"mdi:radiobox-blank":   "mdi:toggle-switch-off-outline",
	"mdi:radiobox-marked":  "mdi:toggle-switch",
	"mdi:lightning-bolt":   "mdi:flash",
	"mdi:checkbox-marked-circle": "mdi:check-circle",
}

// mdiGlyphs is the static glyph font lookup: mdi icon name to the
// nerd-font codepoint rendering it. This is a resource table, not
// logic; extend it as new icons show up in installations.
var mdiGlyphs = map[string]string{
	"mdi:account":                   "\U000F0004",
	"mdi:air-filter":                "\U000F0D43",
	"mdi:alert":                     "\U000F0026",
	"mdi:alert-circle":              "\U000F0028",
	"mdi:battery":                   "\U000F0079",
	"mdi:brightness-5":              "\U000F00DE",
	"mdi:bullhorn":                  "\U000F00E6",
	"mdi:calendar":                  "\U000F00ED",
	"mdi:calendar-clock":            "\U000F00F0",
	"mdi:cast":                      "\U000F0118",
	"mdi:check-circle":              "\U000F05E0",
	"mdi:clock":                     "\U000F0954",
	"mdi:counter":                   "\U000F0199",
	"mdi:door":                      "\U000F081A",
	"mdi:eye":                       "\U000F0208",
	"mdi:fan":                       "\U000F0210",
	"mdi:flash":                     "\U000F0241",
	"mdi:flower":                    "\U000F024A",
	"mdi:form-textbox":              "\U000F060E",
	"mdi:format-list-bulleted":      "\U000F0279",
	"mdi:garage":                    "\U000F06D9",
	"mdi:gas-cylinder":              "\U000F0647",
	"mdi:gauge":                     "\U000F029A",
	"mdi:gesture-tap-button":        "\U000F12A9",
	"mdi:google-circles-communities": "\U000F02B3",
	"mdi:home-account":              "\U000F0826",
	"mdi:lightbulb":                 "\U000F0335",
	"mdi:lightbulb-outline":         "\U000F0336",
	"mdi:lock":                      "\U000F033E",
	"mdi:lock-open-variant":         "\U000F0FC6",
	"mdi:map-marker-radius":         "\U000F035C",
	"mdi:motion-sensor":             "\U000F0D91",
	"mdi:palette":                   "\U000F03D8",
	"mdi:power-plug":                "\U000F06A5",
	"mdi:ray-vertex":                "\U000F0445",
	"mdi:remote":                    "\U000F0447",
	"mdi:robot":                     "\U000F06A9",
	"mdi:robot-vacuum":              "\U000F070D",
	"mdi:script-text":               "\U000F0BC1",
	"mdi:smoke-detector":            "\U000F0392",
	"mdi:sun-thermometer":           "\U000F18D7",
	"mdi:thermometer":               "\U000F050F",
	"mdi:thermostat":                "\U000F0393",
	"mdi:timer-outline":             "\U000F051B",
	"mdi:toggle-switch":             "\U000F0521",
	"mdi:toggle-switch-off-outline": "\U000F0A1A",
	"mdi:video":                     "\U000F0567",
	"mdi:water":                     "\U000F058C",
	"mdi:water-percent":             "\U000F058E",
	"mdi:weather-partly-cloudy":     "\U000F0595",
	"mdi:white-balance-sunny":       "\U000F05A8",
	"mdi:wifi":                      "\U000F05A9",
	"mdi:window-closed":             "\U000F05AE",
	"mdi:window-shutter":            "\U000F111C",
}

// resolveIcon walks the precedence chain and returns a glyph.
func resolveIcon(rec *entity.Record) string {
	if name := rec.Icon(); name != "" {
		if glyph, ok := glyphFor(name); ok {
			return glyph
		}
	}

	if name, ok := deviceClassIcons[rec.DeviceClass()]; ok {
		if glyph, ok := glyphFor(name); ok {
			return glyph
		}
	}

	if name := domainIcon(rec); name != "" {
		if glyph, ok := glyphFor(name); ok {
			return glyph
		}
	}

	return genericGlyph
}

// domainIcon picks the domain default, with state-sensitive variants
// for the domains whose glyph reflects on/off.
func domainIcon(rec *entity.Record) string {
	domain := rec.ID.Domain()

	switch domain {
	case "light":
		if rec.State == "on" {
			return "mdi:lightbulb"
		}
		return "mdi:lightbulb-outline"
	case "switch", "input_boolean":
		if rec.State == "on" {
			return "mdi:toggle-switch"
		}
		return "mdi:toggle-switch-off-outline"
	case "lock":
		if rec.State == "unlocked" {
			return "mdi:lock-open-variant"
		}
		return "mdi:lock"
	}

	return domainIcons[domain]
}

// glyphFor resolves an mdi icon name through the alternates table and
// the glyph resource.
func glyphFor(name string) (string, bool) {
	if alt, ok := mdiAlternates[name]; ok {
		name = alt
	}
	glyph, ok := mdiGlyphs[name]
	return glyph, ok
}
