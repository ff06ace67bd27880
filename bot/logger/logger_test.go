package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWithWriterJSONAndWith(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, Options{Level: "debug", Format: "json"})

	log.With("user_id", int64(7)).Info("queued", "url", "https://youtu.be/x")

	out := buf.String()
	for _, want := range []string{`"msg":"queued"`, `"user_id":7`, `"url":"https://youtu.be/x"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, Options{Level: "warn"})
	log.Debug("hidden")
	log.Info("hidden too")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestLogOutputCreatesDatedFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.Local)

	file, _, err := logOutput(dir, now)
	if err != nil {
		t.Fatalf("logOutput: %v", err)
	}
	defer file.Close()

	if _, err := os.Stat(filepath.Join(dir, "2026-03-04.log")); err != nil {
		t.Fatalf("expected dated log file: %v", err)
	}
}

func TestLogOutputWithoutDir(t *testing.T) {
	file, w, err := logOutput("", time.Now())
	if err != nil {
		t.Fatalf("logOutput: %v", err)
	}
	if file != nil || w != os.Stdout {
		t.Fatalf("expected stdout only")
	}
	if err := (&Logger{}).Close(); err != nil {
		t.Fatalf("close without file: %v", err)
	}
}
