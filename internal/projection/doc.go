// Package projection is the humanization pipeline: a pure transformation
// from a raw entity record to a display-ready projection (label, value
// text, icon glyph, colour).
//
// # Design
//
// Formatting dispatches on an explicit table keyed by domain, with
// device_class refining the wording for binary sensors. New domains are
// new table entries, not new types. All attribute access goes through
// narrow typed lookups with defaults; the pipeline never assumes the
// shape of the attribute bag.
//
// Icon resolution precedence: explicit icon attribute override, then
// device-class icon, then domain default, then a generic fallback glyph.
// The mdi-name-to-glyph table is a static font resource.
//
// # Determinism
//
// Project is deterministic: identical records yield byte-identical
// projections. The only clock-relative wording is device_class=timestamp
// ("3 minutes ago"), which is inherently relative to now.
package projection
