// Package runtimepath locates the control socket and the log directory.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// EnvSocket overrides the control socket path.
const EnvSocket = "TERMDESK_SOCKET"

const socketName = "termdesk.sock"

// Dir returns the per-user runtime directory: XDG_RUNTIME_DIR, then
// /run/user/<uid>, then a private directory under the system temp dir.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := strconv.Itoa(os.Getuid())
	if info, err := os.Stat(filepath.Join("/run/user", uid)); err == nil && info.IsDir() {
		return filepath.Join("/run/user", uid), nil
	}

	dir := filepath.Join(os.TempDir(), "termdesk-runtime-"+uid)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

// SocketPath returns TERMDESK_SOCKET when set, else termdesk.sock in Dir.
func SocketPath() (string, error) {
	if p := os.Getenv(EnvSocket); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, socketName), nil
}

// StateDir returns the directory for logs: $XDG_STATE_HOME/termdesk, then
// ~/.local/state/termdesk, then a directory under the system temp dir.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "termdesk")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "termdesk")
	}
	return filepath.Join(os.TempDir(), "termdesk")
}
