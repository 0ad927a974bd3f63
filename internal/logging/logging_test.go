package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected LogLevel
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"verbose", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %s, expected %s", tt.in, got, tt.expected)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: JSONFormat, Level: WarnLevel, Output: &buf})

	logger.Debug("debug message", nil)
	logger.Info("info message", nil)
	logger.Warn("warn message", nil)
	logger.Error("error message", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries at warn level, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "warn message") || !strings.Contains(lines[1], "error message") {
		t.Errorf("unexpected entries: %v", lines)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: &buf})

	logger.Info("Graph built", map[string]interface{}{"nodes": 4, "edges": 3})

	var entry struct {
		Timestamp string                 `json:"timestamp"`
		Level     string                 `json:"level"`
		Message   string                 `json:"message"`
		Fields    map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry.Level != "info" || entry.Message != "Graph built" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if entry.Fields["nodes"] != float64(4) {
		t.Errorf("expected nodes field 4, got %v", entry.Fields["nodes"])
	}
	if entry.Timestamp == "" {
		t.Error("expected a timestamp")
	}
}

func TestHumanFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: InfoLevel, Output: &buf})

	logger.Warn("Dropped edges", map[string]interface{}{"count": 2})

	out := buf.String()
	if !strings.Contains(out, "[warn] Dropped edges") {
		t.Errorf("unexpected human output %q", out)
	}
	if !strings.Contains(out, "count=2") {
		t.Errorf("expected fields in human output, got %q", out)
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: JSONFormat, Level: InfoLevel, Output: &buf})
	child := logger.With(map[string]interface{}{"component": "engine"})

	child.Info("started", map[string]interface{}{"runs": 1})

	var entry struct {
		Fields map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry.Fields["component"] != "engine" {
		t.Errorf("expected inherited field, got %v", entry.Fields)
	}
	if entry.Fields["runs"] != float64(1) {
		t.Errorf("expected call-site field, got %v", entry.Fields)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNopLogger()
	// Must not panic or write anywhere.
	logger.Error("ignored", map[string]interface{}{"k": "v"})
}
