// Package logging provides structured logging for hearth.
//
// It wraps log/slog with configuration-driven setup and default fields.
// The dashboard owns stdout, so log output goes to a file by default;
// stderr and discard are selectable for development and tests.
//
// Packages that need a logger should accept a small local interface
// (Debug/Info/Warn/Error) rather than this concrete type, so tests can
// substitute noop implementations.
package logging
