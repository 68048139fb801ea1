package runtimepath

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestDirPrefersXDGRuntimeDir(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if got != td {
		t.Fatalf("Dir = %q, want %q", got, td)
	}
}

func TestDirFallback(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	uid := strconv.Itoa(os.Getuid())
	wantRun := filepath.Join("/run/user", uid)
	wantTmp := filepath.Join(os.TempDir(), "termdesk-runtime-"+uid)
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestSocketPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)
	t.Setenv(EnvSocket, "")

	got, err := SocketPath()
	if err != nil {
		t.Fatalf("SocketPath: %v", err)
	}
	if want := filepath.Join(td, "termdesk.sock"); got != want {
		t.Fatalf("SocketPath = %q, want %q", got, want)
	}

	t.Setenv(EnvSocket, "/tmp/other.sock")
	if got, _ := SocketPath(); got != "/tmp/other.sock" {
		t.Fatalf("SocketPath with override = %q", got)
	}
}

func TestStateDirUsesXDGStateHome(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_STATE_HOME", td)

	if got, want := StateDir(), filepath.Join(td, "termdesk"); got != want {
		t.Fatalf("StateDir = %q, want %q", got, want)
	}
}
