package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nerrad567/hearth/internal/infrastructure/config"
)

func TestNew_FileOutput(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "hearth.log")

	logger := New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "file",
		Path:   path,
	}, "1.0.0")

	logger.Info("hello", "key", "value")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	line := string(data)
	if !strings.Contains(line, `"msg":"hello"`) {
		t.Errorf("log line %q missing message", line)
	}
	if !strings.Contains(line, `"service":"hearth"`) {
		t.Errorf("log line %q missing service field", line)
	}
	if !strings.Contains(line, `"version":"1.0.0"`) {
		t.Errorf("log line %q missing version field", line)
	}
}

func TestNew_StderrFormat(t *testing.T) {
	logger := New(config.LoggingConfig{
		Level:  "debug",
		Format: "text",
		Output: "stderr",
	}, "1.0.0")

	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNew_BadFileFallsBack(t *testing.T) {
	logger := New(config.LoggingConfig{
		Level:  "info",
		Output: "file",
		Path:   "/nonexistent-dir/hearth.log",
	}, "1.0.0")

	if logger == nil {
		t.Fatal("expected non-nil logger even when file cannot be opened")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestWith(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "hearth.log")

	logger := New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "file",
		Path:   path,
	}, "dev")

	child := logger.With("component", "hub")
	child.Info("attached")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"component":"hub"`) {
		t.Errorf("log line %q missing component field", string(data))
	}
}
