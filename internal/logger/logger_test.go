package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWithWriter_JSONIncludesService(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "info")

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "posts-service")
	l.Info("Post created", "post_id", 7)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "posts-service" {
		t.Errorf("expected service attribute, got %v", entry["service"])
	}
	if entry["msg"] != "Post created" {
		t.Errorf("unexpected msg %v", entry["msg"])
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("LOG_LEVEL", "error")

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "")
	l.Info("hidden")
	l.Error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line should be filtered at error level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("error line missing")
	}
}

func TestGetLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		t.Setenv("LOG_LEVEL", in)
		if got := getLogLevel(); got != want {
			t.Errorf("LOG_LEVEL=%q: got %v, want %v", in, got, want)
		}
	}
}
