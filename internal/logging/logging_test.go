package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, want := range tests {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestValidLevel(t *testing.T) {
	if !ValidLevel("Info") || !ValidLevel("") {
		t.Fatalf("expected info and empty to be valid")
	}
	if ValidLevel("verbose") {
		t.Fatalf("expected verbose to be rejected")
	}
}

func TestComponentTagsRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(New(&buf, "debug"), ComponentStore)
	logger.Debug("fetched", FieldWeekID, "week-2025-11-10")

	out := buf.String()
	if !strings.Contains(out, "component=store") || !strings.Contains(out, "week_id=week-2025-11-10") {
		t.Fatalf("unexpected log line %q", out)
	}
}

func TestComponentNilLogger(t *testing.T) {
	Component(nil, ComponentUI).Info("dropped")
}

func TestOpenFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gaji.log")

	logger, closer, err := OpenFile(path, "info")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	logger.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "msg=hello") {
		t.Fatalf("log file = %q", data)
	}
}
