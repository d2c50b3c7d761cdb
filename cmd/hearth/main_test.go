package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/hearth/internal/entity"
	"github.com/nerrad567/hearth/internal/hub"
	"github.com/nerrad567/hearth/internal/projection"
	"github.com/nerrad567/hearth/internal/render"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("HEARTH_CONFIG")
	defer os.Setenv("HEARTH_CONFIG", originalEnv)

	os.Setenv("HEARTH_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
	if got := exitCode(err); got != exitConfig {
		t.Errorf("exitCode = %d, want %d", got, exitConfig)
	}
}

// TestRun_MissingToken verifies run fails validation without a token.
func TestRun_MissingToken(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
hub:
  url: "ws://127.0.0.1:8123/api/websocket"

logging:
  level: info
  format: text
  output: discard
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("HEARTH_CONFIG")
	defer os.Setenv("HEARTH_CONFIG", originalEnv)
	os.Setenv("HEARTH_CONFIG", configPath)
	originalToken := os.Getenv("HEARTH_TOKEN")
	defer os.Setenv("HEARTH_TOKEN", originalToken)
	os.Unsetenv("HEARTH_TOKEN")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx)
	if err == nil {
		t.Fatal("run() should fail without a token")
	}
	if got := exitCode(err); got != exitConfig {
		t.Errorf("exitCode = %d, want %d", got, exitConfig)
	}
}

// TestRun_CancelledIsCleanShutdown verifies cancellation exits without
// error even while the hub is unreachable.
func TestRun_CancelledIsCleanShutdown(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
hub:
  url: "ws://127.0.0.1:1/api/websocket"
  token: "test-token"

logging:
  level: error
  format: text
  output: discard
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("HEARTH_CONFIG")
	defer os.Setenv("HEARTH_CONFIG", originalEnv)
	os.Setenv("HEARTH_CONFIG", configPath)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run() = %v on cancel, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run() did not return after cancel")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("HEARTH_CONFIG")
	defer os.Setenv("HEARTH_CONFIG", originalEnv)

	os.Unsetenv("HEARTH_CONFIG")

	path := getConfigPath()
	if path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("HEARTH_CONFIG")
	defer os.Setenv("HEARTH_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("HEARTH_CONFIG", expected)

	path := getConfigPath()
	if path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestExitCode verifies the error-to-exit-code mapping.
func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"config error", errConfig, exitConfig},
		{"wrapped config error", errors.Join(errConfig, errors.New("detail")), exitConfig},
		{"auth rejected", hub.ErrAuthInvalid, exitAuth},
		{"generic", errors.New("boom"), exitGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// TestLineSurface_Repaint verifies the built-in surface draws labels,
// values and the connection marker.
func TestLineSurface_Repaint(t *testing.T) {
	var buf bytes.Buffer
	surface := newLineSurface(&buf)

	surface.CreateOrUpdateWidget(entity.ID("sensor.lounge_temp"), projection.Projection{
		Label:     "Lounge Temp",
		ValueText: "21.5°C",
		Icon:      "T",
	})
	surface.SetConnectionState(render.ConnectionLive)

	out := buf.String()
	if !strings.Contains(out, "Lounge Temp") {
		t.Error("output missing label")
	}
	if !strings.Contains(out, "21.5°C") {
		t.Error("output missing value")
	}
	if !strings.Contains(out, "live") {
		t.Error("output missing live marker")
	}
}

// TestLineSurface_OrderGroupsByDomain verifies the widget list stays
// grouped by domain as entities arrive out of order.
func TestLineSurface_OrderGroupsByDomain(t *testing.T) {
	var buf bytes.Buffer
	surface := newLineSurface(&buf)

	surface.CreateOrUpdateWidget(entity.ID("sensor.zulu"), projection.Projection{Label: "Zulu", ValueText: "1"})
	surface.CreateOrUpdateWidget(entity.ID("light.alpha"), projection.Projection{Label: "Alpha", ValueText: "On"})

	out := buf.String()
	// Final repaint has the light before the sensor.
	last := out[strings.LastIndex(out, "\033[2J"):]
	if strings.Index(last, "Alpha") > strings.Index(last, "Zulu") {
		t.Error("widgets not grouped by domain")
	}
}
