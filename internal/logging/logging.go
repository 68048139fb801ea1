// Package logging builds the slog loggers used by every termdesk command.
package logging

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/phsym/console-slog"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/runtimepath"
)

// ParseLevel converts a config level name. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a console logger writing to w.
func New(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(console.NewHandler(w, &console.HandlerOptions{
		Level:   level,
		NoColor: !color,
	}))
}

// DefaultFile is where the interactive desktop logs when no file is set.
func DefaultFile() string {
	return filepath.Join(runtimepath.StateDir(), "termdesk.log")
}

// Setup builds the logger for cfg. When toFile is set the output goes to a
// rotating file (the terminal belongs to the UI); otherwise it goes to
// stderr. debug forces the debug level. The returned closer is never nil.
func Setup(cfg config.Logging, debug bool, toFile bool, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	level := ParseLevel(cfg.Level)
	if debug {
		level = slog.LevelDebug
	}
	if !toFile {
		return New(stderr, level, true), nopCloser{}, nil
	}

	path := cfg.File
	if path == "" {
		path = DefaultFile()
	}
	f, err := OpenRotatingFile(path, cfg.MaxSizeMB, cfg.MaxFiles)
	if err != nil {
		return nil, nil, err
	}
	return New(f, level, false), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
