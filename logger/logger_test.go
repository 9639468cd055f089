package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{in: "", want: zerolog.InfoLevel},
		{in: "debug", want: zerolog.DebugLevel},
		{in: " WARN ", want: zerolog.WarnLevel},
		{in: "warning", want: zerolog.WarnLevel},
		{in: "error", want: zerolog.ErrorLevel},
		{in: "trace", want: zerolog.TraceLevel},
		{in: "loud", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWritesServiceField(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, zerolog.InfoLevel)
	l.Debug().Msg("hidden")
	l.Info().Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	var event map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", lines[0], err)
	}
	if event["service"] != "editord" {
		t.Errorf("Expected service 'editord', got %v", event["service"])
	}
	if event["message"] != "shown" {
		t.Errorf("Expected message 'shown', got %v", event["message"])
	}
}

func TestInitWithOptions_LogFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	path := filepath.Join(t.TempDir(), "editord.log")

	l, err := InitWithOptions(path, false)
	if err != nil {
		t.Fatalf("InitWithOptions failed: %v", err)
	}
	l.Debug().Msg("debug line")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "Logger initialized") || !strings.Contains(string(data), "debug line") {
		t.Errorf("Expected init and debug lines in log file, got %q", string(data))
	}
}

func TestInitWithOptions_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "editord.log")
	if _, err := InitWithOptions(path, false); err == nil {
		t.Error("Expected error for unwritable log path")
	}
}
