package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/geometry"
)

func startServer(t *testing.T, reload ReloadFunc) (*Client, *desktop.Desktop, string) {
	t.Helper()

	// Unix socket paths are length limited; keep the directory short.
	dir, err := os.MkdirTemp("", "tdipc")
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	socket := filepath.Join(dir, "s.sock")

	d := desktop.New([]desktop.App{
		{Name: "Notes", URL: "/notes", Kind: "notes", DefaultLeft: 100, DefaultTop: 100, DefaultWidth: 400, DefaultHeight: 300},
	})
	srv := NewServer(socket, desktop.NewLocked(d), reload, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Errorf("server did not stop")
		}
	})

	client := NewClientWithSocket(socket)
	deadline := time.Now().Add(5 * time.Second)
	for !client.Ping() {
		if time.Now().After(deadline) {
			t.Fatalf("server did not come up on %s", socket)
		}
		time.Sleep(10 * time.Millisecond)
	}
	return client, d, socket
}

func TestServerWindowCommands(t *testing.T) {
	client, _, _ := startServer(t, nil)

	id, err := client.Open("/notes")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if id == "" {
		t.Fatalf("empty window id")
	}

	rect, err := client.Move(id, 50, -20)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	want := geometry.Rect{Left: 150, Top: 80, Width: 400, Height: 300}
	if rect != want {
		t.Fatalf("after move = %v, want %v", rect, want)
	}

	// 400-200 is below the minimum width, so nothing is committed.
	rect, err = client.Resize(id, "right", -200, 0)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if rect != want {
		t.Fatalf("after rejected resize = %v, want %v", rect, want)
	}

	rect, err = client.Resize(id, "bottom-right", 40, 20)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	want = geometry.Rect{Left: 150, Top: 80, Width: 440, Height: 320}
	if rect != want {
		t.Fatalf("after resize = %v, want %v", rect, want)
	}

	maximized, err := client.Maximize(id)
	if err != nil || !maximized {
		t.Fatalf("Maximize = %v, %v", maximized, err)
	}
	if _, err := client.Move(id, 10, 10); err == nil || !strings.Contains(err.Error(), "gesture unavailable") {
		t.Fatalf("move while maximized err = %v", err)
	}

	windows, err := client.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows: %v", err)
	}
	if len(windows) != 1 || windows[0].ID != id || !windows[0].Maximized {
		t.Fatalf("windows = %+v", windows)
	}

	if err := client.Minimize(id); err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.PID != os.Getpid() || status.Focused != "" {
		t.Fatalf("status = %+v", status)
	}

	if err := client.Close(id); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := client.Focus(id); err == nil {
		t.Fatalf("expected error focusing a closed window")
	}
}

func TestServerRejectsBadRequests(t *testing.T) {
	client, _, _ := startServer(t, nil)

	if _, err := client.Open("/nope"); err == nil || !strings.Contains(err.Error(), "unknown app") {
		t.Fatalf("Open unknown err = %v", err)
	}
	if _, err := client.Resize("w", "top-bottom", 1, 1); err == nil {
		t.Fatalf("expected error for opposite edges")
	}
	if err := client.Reload(); err == nil {
		t.Fatalf("expected error when reload is not wired")
	}

	resp, err := client.roundTrip(&Request{Command: "BOGUS"})
	if err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("unknown command = %v, %v", resp, err)
	}
	if err := client.call(CommandFocus, nil, nil); err == nil || !strings.Contains(err.Error(), "missing payload") {
		t.Fatalf("missing payload err = %v", err)
	}
}

func TestServerReloadAndCompact(t *testing.T) {
	calls := 0
	reload := func(ctx context.Context) error {
		calls++
		if calls > 1 {
			return errors.New("bad yaml")
		}
		return nil
	}
	client, _, _ := startServer(t, reload)

	if err := client.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if err := client.Reload(); err == nil || !strings.Contains(err.Error(), "bad yaml") {
		t.Fatalf("second Reload err = %v", err)
	}

	if err := client.SetCompact(true); err != nil {
		t.Fatalf("SetCompact: %v", err)
	}
	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.Compact {
		t.Fatalf("compact not reported: %+v", status)
	}
}

func TestServerRemovesSocketOnStop(t *testing.T) {
	dir, err := os.MkdirTemp("", "tdipc")
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	defer os.RemoveAll(dir)
	socket := filepath.Join(dir, "s.sock")

	srv := NewServer(socket, desktop.NewLocked(desktop.New(nil)), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	client := NewClientWithSocket(socket)
	deadline := time.Now().Add(5 * time.Second)
	for !client.Ping() {
		if time.Now().After(deadline) {
			t.Fatalf("server did not come up")
		}
		time.Sleep(10 * time.Millisecond)
	}
	info, err := os.Stat(socket)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("socket mode = %v", info.Mode().Perm())
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop")
	}
	if _, err := os.Stat(socket); !os.IsNotExist(err) {
		t.Fatalf("socket left behind: %v", err)
	}
}

func TestResponseRoundTrip(t *testing.T) {
	resp, err := NewOKResponse(OpenData{ID: "w1"})
	if err != nil {
		t.Fatalf("NewOKResponse: %v", err)
	}
	raw, err := resp.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded struct {
		Status string   `json:"status"`
		Data   OpenData `json:"data"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Status != StatusOK || decoded.Data.ID != "w1" {
		t.Fatalf("decoded = %+v", decoded)
	}
}
