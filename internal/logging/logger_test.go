package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"info", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"Trace", LevelTrace},
		{"", slog.LevelInfo},
		{"garbage", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("info", &buf)

	log.Debug("hidden")
	log.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message should be filtered at info level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("info message missing from output")
	}
}

func TestNewLogger_TraceLabel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("trace", &buf)

	log.Log(context.Background(), LevelTrace, "edge detail")

	if !strings.Contains(buf.String(), "TRACE") {
		t.Errorf("expected TRACE level label, got %q", buf.String())
	}
}

func TestNewTraceLogger_NilAtInfoLevel(t *testing.T) {
	tl := NewTraceLogger(t.TempDir(), "info")
	if tl != nil {
		t.Fatal("expected nil trace logger at info level")
	}
	// Nil receiver must be safe.
	tl.Log(map[string]any{"event": "noop"})
	if err := tl.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestTraceLogger_WritesJSONL(t *testing.T) {
	dir := t.TempDir()
	tl := NewTraceLogger(dir, "debug")
	if tl == nil {
		t.Fatal("expected a trace logger at debug level")
	}

	tl.Log(map[string]any{"event": "edge_transmit", "src": "BFA", "dst": "MLI"})
	tl.Log(map[string]any{"event": "edge_transmit", "src": "BFA", "dst": "NER"})
	if err := tl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "trace.jsonl"))
	if err != nil {
		t.Fatalf("opening trace file: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines+1, err)
		}
		if entry["event"] != "edge_transmit" {
			t.Errorf("line %d event = %v", lines+1, entry["event"])
		}
		if _, ok := entry["time"]; !ok {
			t.Errorf("line %d missing time field", lines+1)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("expected 2 trace lines, got %d", lines)
	}
}

func TestTraceLogger_DoesNotMutateCallerMap(t *testing.T) {
	tl := NewTraceLogger(t.TempDir(), "debug")
	if tl == nil {
		t.Fatal("expected a trace logger")
	}
	defer tl.Close()

	event := map[string]any{"event": "step"}
	tl.Log(event)
	if _, ok := event["time"]; ok {
		t.Error("Log mutated the caller's map")
	}
}
