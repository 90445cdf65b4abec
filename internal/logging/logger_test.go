package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"crosstalk/internal/services"
)

func newTestLogger(buf *bytes.Buffer, format string) *slog.Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)
	if format == "json" {
		return slog.New(newJSONHandler(buf, levelVar, false))
	}
	return slog.New(newConsoleHandler(buf, levelVar, false))
}

func TestConsoleHandlerComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(newTestLogger(&buf, "console"), "whisper")
	logger.Info("transcription finished", String("model", "base"), Int("segments", 12))

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, " INF whisper: transcription finished") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "model=base") || !strings.Contains(line, "segments=12") {
		t.Fatalf("attrs missing: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component must be a prefix, not a field: %q", line)
	}
}

func TestConsoleHandlerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "console")
	logger.Warn("conversion failed", String("detail", "no such file"))
	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, `detail="no such file"`) {
		t.Fatalf("value not quoted: %q", line)
	}
	if !strings.Contains(line, " WRN ") {
		t.Fatalf("level label missing: %q", line)
	}
}

func TestConsoleHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "console").WithGroup("engine")
	logger.Info("ready", String("name", "pyannote"))
	if !strings.Contains(buf.String(), "engine.name=pyannote") {
		t.Fatalf("group prefix missing: %q", buf.String())
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "json")
	logger.Info("run complete", String("run_id", "abc"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("parse json log: %v", err)
	}
	if record["msg"] != "run complete" {
		t.Fatalf("msg = %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("level = %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("ts missing")
	}
	if record["run_id"] != "abc" {
		t.Fatalf("run_id = %v", record["run_id"])
	}
}

func TestWithContextAddsRunID(t *testing.T) {
	var buf bytes.Buffer
	base := newTestLogger(&buf, "console")
	ctx := services.WithRunID(context.Background(), "run-42")
	WithContext(ctx, base).Info("step")
	if !strings.Contains(buf.String(), "run_id=run-42") {
		t.Fatalf("run id missing: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
