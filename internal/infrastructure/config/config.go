package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for hearth.
// Configuration is loaded from YAML and can be overridden by environment
// variables. The file is optional: a hub URL and token supplied entirely
// through the environment is a valid configuration.
type Config struct {
	Hub       HubConfig       `yaml:"hub"`
	Reconnect ReconnectConfig `yaml:"reconnect"`
	Logging   LoggingConfig   `yaml:"logging"`
	UI        UIConfig        `yaml:"ui"`
}

// HubConfig contains hub connection settings.
type HubConfig struct {
	// URL is the hub WebSocket endpoint, e.g. "ws://hub.local:8123/api/websocket".
	URL string `yaml:"url"`

	// Token is the long-lived access token used during the auth handshake.
	Token string `yaml:"token"`

	// HandshakeTimeout bounds the auth phase of a connection, in seconds.
	// A handshake that does not complete in time counts as a connect
	// failure and feeds the reconnect cycle.
	HandshakeTimeout int `yaml:"handshake_timeout"`

	// WriteTimeout bounds a single outbound frame write, in seconds.
	WriteTimeout int `yaml:"write_timeout"`

	// MaxMessageSize is the largest inbound frame accepted, in bytes.
	// Snapshot results for large installations can run to megabytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// ReconnectConfig contains reconnection backoff settings.
type ReconnectConfig struct {
	// InitialDelay is the first backoff interval, in seconds.
	InitialDelay int `yaml:"initial_delay"`

	// MaxDelay caps the backoff interval, in seconds.
	MaxDelay int `yaml:"max_delay"`
}

// LoggingConfig contains logging settings.
//
// stdout belongs to the dashboard surface, so the default output is a
// file rather than the terminal.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"` // "file", "stderr" or "discard"
	Path   string `yaml:"path"`   // log file path when output is "file"
}

// UIConfig contains presentation settings consumed by the render adapter.
type UIConfig struct {
	// HiddenDomains lists entity domains excluded from display.
	// State for hidden domains is still tracked in the registry.
	HiddenDomains []string `yaml:"hidden_domains"`
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables: HEARTH_WS_URL, HEARTH_TOKEN, HEARTH_LOG_LEVEL.
//
// Parameters:
//   - path: Path to the YAML configuration file; "" skips the file stage
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be read or parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Hub: HubConfig{
			HandshakeTimeout: 10,
			WriteTimeout:     5,
			MaxMessageSize:   4 << 20,
		},
		Reconnect: ReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "file",
			Path:   "./hearth.log",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables follow the pattern: HEARTH_KEY.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HEARTH_WS_URL"); v != "" {
		cfg.Hub.URL = v
	}
	if v := os.Getenv("HEARTH_TOKEN"); v != "" {
		cfg.Hub.Token = v
	}
	if v := os.Getenv("HEARTH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// A missing hub URL or token is a startup-fatal configuration error:
// there is no point entering the connect cycle without credentials.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Hub.URL == "" {
		errs = append(errs, "hub.url is required (set HEARTH_WS_URL environment variable)")
	} else if !strings.HasPrefix(c.Hub.URL, "ws://") && !strings.HasPrefix(c.Hub.URL, "wss://") {
		errs = append(errs, "hub.url must be a ws:// or wss:// URL")
	}

	if c.Hub.Token == "" {
		errs = append(errs, "hub.token is required (set HEARTH_TOKEN environment variable)")
	}

	if c.Hub.HandshakeTimeout < 1 {
		errs = append(errs, "hub.handshake_timeout must be at least 1 second")
	}

	if c.Reconnect.InitialDelay < 1 {
		errs = append(errs, "reconnect.initial_delay must be at least 1 second")
	}

	if c.Reconnect.MaxDelay < c.Reconnect.InitialDelay {
		errs = append(errs, "reconnect.max_delay must not be less than reconnect.initial_delay")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetHandshakeTimeout returns the handshake timeout as a Duration.
func (c *Config) GetHandshakeTimeout() time.Duration {
	return time.Duration(c.Hub.HandshakeTimeout) * time.Second
}

// GetWriteTimeout returns the frame write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.Hub.WriteTimeout) * time.Second
}

// GetInitialDelay returns the initial reconnect delay as a Duration.
func (c *Config) GetInitialDelay() time.Duration {
	return time.Duration(c.Reconnect.InitialDelay) * time.Second
}

// GetMaxDelay returns the maximum reconnect delay as a Duration.
func (c *Config) GetMaxDelay() time.Duration {
	return time.Duration(c.Reconnect.MaxDelay) * time.Second
}
