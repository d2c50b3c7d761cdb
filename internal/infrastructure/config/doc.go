// Package config provides configuration loading for hearth.
//
// Configuration is layered: hardcoded defaults, then an optional YAML
// file, then environment variable overrides. The environment alone is
// enough to run: HEARTH_WS_URL and HEARTH_TOKEN are the only required
// values, and both are validated before any connection attempt.
//
// # Usage
//
//	cfg, err := config.Load(os.Getenv("HEARTH_CONFIG"))
//	if err != nil {
//	    // startup-fatal: missing/invalid URL or token, unreadable file
//	}
//
// Validation failures are configuration errors in the sense of the error
// taxonomy: they are reported once and terminate the process, never
// retried.
package config
