package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/termdesk/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, false)
	logger.Info("hidden")
	logger.Warn("shown", "window", "w1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "w1") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestRotatingFileRotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "termdesk.log")
	f, err := OpenRotatingFile(path, 0, 2)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	// Force a tiny limit so every write after the first rotates.
	f.maxBytes = 4

	for _, line := range []string{"one\n", "two\n", "three\n", "four\n"} {
		if _, err := f.Write([]byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	want := map[string]string{
		path:        "four\n",
		path + ".1": "three\n",
		path + ".2": "two\n",
	}
	for p, content := range want {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if string(data) != content {
			t.Fatalf("%s = %q, want %q", p, data, content)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected no .3 file, got %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestSetupToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "desk.log")
	logger, closer, err := Setup(config.Logging{Level: "info", File: path, MaxSizeMB: 1, MaxFiles: 1}, true, true, nil)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger.Debug("gesture start", "window", "w1")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "gesture start") {
		t.Fatalf("debug line missing with --debug: %q", data)
	}
}
