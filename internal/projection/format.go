package projection

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nerrad567/hearth/internal/entity"
)

// valueFormatter produces the humanized value text for one record.
// Formatters are pure; adding a domain means adding a table entry.
type valueFormatter func(rec *entity.Record) string

// domainFormatters dispatches on the entity domain. Domains without an
// entry fall back to the raw state.
var domainFormatters = map[string]valueFormatter{
	"sensor":         formatSensor,
	"number":         formatSensor,
	"input_number":   formatSensor,
	"switch":         formatOnOff,
	"input_boolean":  formatOnOff,
	"light":          formatOnOff,
	"binary_sensor":  formatBinarySensor,
	"button":         formatButton,
	"input_button":   formatButton,
	"lock":           formatLock,
	"cover":          formatCover,
	"person":         formatPresence,
	"device_tracker": formatPresence,
}

// binarySensorWords maps a binary_sensor device class to its on/off
// wording, mirroring the hub dashboard's conventions.
var binarySensorWords = map[string][2]string{
	"motion":       {"Detected", "Clear"},
	"occupancy":    {"Detected", "Clear"},
	"smoke":        {"Detected", "Clear"},
	"gas":          {"Detected", "Clear"},
	"sound":        {"Detected", "Clear"},
	"vibration":    {"Detected", "Clear"},
	"tamper":       {"Detected", "Clear"},
	"door":         {"Open", "Closed"},
	"window":       {"Open", "Closed"},
	"opening":      {"Open", "Closed"},
	"garage_door":  {"Open", "Closed"},
	"connectivity": {"Connected", "Disconnected"},
	"moisture":     {"Wet", "Dry"},
	"battery":      {"Low", "Normal"},
	"problem":      {"Problem", "OK"},
	"presence":     {"Home", "Away"},
	"plug":         {"Plugged in", "Unplugged"},
	"safety":       {"Unsafe", "Safe"},
}

// coverWords humanizes the cover position states.
var coverWords = map[string]string{
	"open":    "Open",
	"closed":  "Closed",
	"opening": "Opening",
	"closing": "Closing",
}

func valueText(rec *entity.Record) string {
	if fn, ok := domainFormatters[rec.ID.Domain()]; ok {
		return fn(rec)
	}
	if isUnsettled(rec.State) {
		return placeholderText
	}
	// Fallback rule: value text = raw state.
	return rec.State
}

// formatSensor renders numeric sensors as "<value><unit>" and handles
// the duration and timestamp device classes.
func formatSensor(rec *entity.Record) string {
	if isUnsettled(rec.State) || rec.State == "" {
		return placeholderText
	}

	switch rec.DeviceClass() {
	case "timestamp":
		if t, err := time.Parse(time.RFC3339, rec.State); err == nil {
			return humanize.Time(t)
		}
		return rec.State
	case "duration":
		if rec.UnitOfMeasurement() == "s" {
			if secs, err := strconv.ParseFloat(rec.State, 64); err == nil {
				return humanizeSeconds(secs)
			}
		}
	}

	if formatted, ok := formatNumber(rec.State); ok {
		return joinUnit(formatted, rec.UnitOfMeasurement())
	}
	return rec.State
}

// formatNumber parses a raw state as a number and applies thousand
// grouping to large magnitudes. Small values keep the hub's own
// rendering ("21.5" stays "21.5").
func formatNumber(raw string) (string, bool) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n >= 10000 || n <= -10000 {
			return humanize.Comma(n), true
		}
		return raw, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		if f >= 10000 || f <= -10000 {
			return humanize.Commaf(f), true
		}
		return raw, true
	}
	return "", false
}

// joinUnit appends the unit of measurement. Percent and degree units
// join without a space; everything else gets one.
func joinUnit(value, unit string) string {
	if unit == "" {
		return value
	}
	if strings.HasPrefix(unit, "%") || strings.HasPrefix(unit, "°") {
		return value + unit
	}
	return value + " " + unit
}

// humanizeSeconds renders a second count as natural language, e.g.
// "4 minutes". Anchored to fixed instants so the result is pure.
func humanizeSeconds(secs float64) string {
	base := time.Unix(0, 0)
	then := base.Add(time.Duration(secs * float64(time.Second)))
	return strings.TrimSpace(humanize.RelTime(base, then, "", ""))
}

func formatOnOff(rec *entity.Record) string {
	switch rec.State {
	case "on":
		return "On"
	case "off":
		return "Off"
	}
	if isUnsettled(rec.State) {
		return placeholderText
	}
	return rec.State
}

func formatBinarySensor(rec *entity.Record) string {
	if words, ok := binarySensorWords[rec.DeviceClass()]; ok {
		switch rec.State {
		case "on":
			return words[0]
		case "off":
			return words[1]
		}
	}
	return formatOnOff(rec)
}

// formatButton is fixed wording: buttons carry a last-pressed timestamp
// as state, which is not useful on a glanceable dashboard.
func formatButton(*entity.Record) string {
	return "Press"
}

func formatLock(rec *entity.Record) string {
	switch rec.State {
	case "locked":
		return "Locked"
	case "unlocked":
		return "Unlocked"
	case "locking":
		return "Locking"
	case "unlocking":
		return "Unlocking"
	case "jammed":
		return "Jammed"
	}
	if isUnsettled(rec.State) {
		return placeholderText
	}
	return rec.State
}

func formatCover(rec *entity.Record) string {
	if word, ok := coverWords[rec.State]; ok {
		return word
	}
	if isUnsettled(rec.State) {
		return placeholderText
	}
	return rec.State
}

func formatPresence(rec *entity.Record) string {
	switch rec.State {
	case "home":
		return "Home"
	case "not_home":
		return "Away"
	}
	if isUnsettled(rec.State) {
		return placeholderText
	}
	return rec.State
}
