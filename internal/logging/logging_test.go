package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/nibzard/kanban-go/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{" DEBUG ", log.DebugLevel},
		{"invalid", log.InfoLevel},
		{"", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		input string
		want  log.Formatter
	}{
		{"text", log.TextFormatter},
		{"json", log.JSONFormatter},
		{"JSON", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"invalid", log.TextFormatter},
		{"", log.TextFormatter},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormatter(tt.input); got != tt.want {
				t.Errorf("ParseFormatter(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Level = log.WarnLevel
	logger := New(&buf, opts)

	logger.Info("hidden")
	logger.Warn("list snapshot unusable", "list", "doing")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "list snapshot unusable") || !strings.Contains(out, "list=doing") {
		t.Errorf("warn output = %q, want message and list=doing", out)
	}
	if !strings.Contains(out, "kanban") {
		t.Errorf("output = %q, want prefix kanban", out)
	}
}

func TestFromConfigJSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "debug", LogFormat: "json"}
	logger := FromConfig(&buf, cfg)

	logger.Debug("saved", "list", "todo", "count", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "saved" {
		t.Errorf("msg = %v, want saved", entry["msg"])
	}
	if entry["list"] != "todo" {
		t.Errorf("list = %v, want todo", entry["list"])
	}
}

func TestFromConfigNil(t *testing.T) {
	var buf bytes.Buffer
	logger := FromConfig(&buf, nil)
	if got := logger.GetLevel(); got != log.InfoLevel {
		t.Errorf("level = %v, want info", got)
	}
}

func TestOpenFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	f, err := OpenFile(dir)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	logger := New(f, DefaultOptions())
	logger.Info("first")
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err = OpenFile(dir)
	if err != nil {
		t.Fatalf("OpenFile again: %v", err)
	}
	New(f, DefaultOptions()).Info("second")
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, "kanban.log"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Errorf("log file = %q, want both entries appended", data)
	}
}

func TestOpenFileEmptyDir(t *testing.T) {
	if _, err := OpenFile(""); err == nil {
		t.Fatal("OpenFile(\"\") succeeded, want error")
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing")
}
