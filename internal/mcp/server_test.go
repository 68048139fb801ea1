package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/geometry"
	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/window"
)

// fakeController drives a real Desktop in-process.
type fakeController struct {
	d *desktop.Desktop
}

func newFakeController() *fakeController {
	return &fakeController{d: desktop.New([]desktop.App{
		{Name: "Notes", URL: "/notes", Kind: "notes", DefaultLeft: 100, DefaultTop: 100, DefaultWidth: 400, DefaultHeight: 300},
	})}
}

func (f *fakeController) GetStatus() (*ipc.StatusData, error) {
	return &ipc.StatusData{Status: f.d.Status()}, nil
}

func (f *fakeController) ListWindows() ([]desktop.WindowInfo, error) { return f.d.Snapshot(), nil }
func (f *fakeController) Open(url string) (string, error)             { return f.d.Open(url) }
func (f *fakeController) Focus(id string) error                       { return f.d.Focus(id) }
func (f *fakeController) Close(id string) error                       { return f.d.Close(id) }
func (f *fakeController) Minimize(id string) error                    { return f.d.Minimize(id) }
func (f *fakeController) Maximize(id string) (bool, error)            { return f.d.ToggleMaximize(id) }

func (f *fakeController) Move(id string, dx, dy int) (geometry.Rect, error) {
	return f.d.Drag(id, window.Toolbar(), dx, dy)
}

func (f *fakeController) Resize(id, edges string, dx, dy int) (geometry.Rect, error) {
	set, err := geometry.ParseEdges(edges)
	if err != nil {
		return geometry.Rect{}, err
	}
	return f.d.Drag(id, window.Border(set), dx, dy)
}

func (f *fakeController) SetCompact(compact bool) error {
	f.d.SetCompact(compact)
	return nil
}

func TestToolsDriveDesktop(t *testing.T) {
	ctl := newFakeController()
	s := NewServer(ctl, nil)
	ctx := context.Background()

	_, opened, err := s.handleOpenApp(ctx, nil, OpenAppInput{URL: "notes"})
	if err != nil {
		t.Fatalf("open_app: %v", err)
	}
	if opened.URL != "/notes" || opened.ID == "" {
		t.Fatalf("open_app = %+v", opened)
	}

	_, moved, err := s.handleMoveWindow(ctx, nil, MoveWindowInput{ID: opened.ID, DX: 50, DY: -20})
	if err != nil {
		t.Fatalf("move_window: %v", err)
	}
	if !moved.Changed || moved.Rect != (geometry.Rect{Left: 150, Top: 80, Width: 400, Height: 300}) {
		t.Fatalf("move_window = %+v", moved)
	}

	_, resized, err := s.handleResizeWindow(ctx, nil, ResizeWindowInput{ID: opened.ID, Edges: "right", DX: -200})
	if err != nil {
		t.Fatalf("resize_window: %v", err)
	}
	if resized.Changed || resized.Rect != moved.Rect {
		t.Fatalf("undersized resize committed: %+v", resized)
	}

	_, listed, err := s.handleListWindows(ctx, nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if len(listed.Windows) != 1 || listed.Focused != opened.ID {
		t.Fatalf("list_windows = %+v", listed)
	}

	_, maxed, err := s.handleToggleMaximize(ctx, nil, WindowInput{ID: opened.ID})
	if err != nil || !maxed.Maximized {
		t.Fatalf("toggle_maximize = %+v, %v", maxed, err)
	}
	if _, _, err := s.handleMoveWindow(ctx, nil, MoveWindowInput{ID: opened.ID, DX: 5}); err == nil {
		t.Fatalf("expected move of a maximized window to fail")
	}

	if _, _, err := s.handleMinimizeWindow(ctx, nil, WindowInput{ID: opened.ID}); err != nil {
		t.Fatalf("minimize_window: %v", err)
	}
	_, status, err := s.handleGetStatus(ctx, nil, GetStatusInput{})
	if err != nil {
		t.Fatalf("get_status: %v", err)
	}
	if status.Focused != "" || status.Windows != 1 {
		t.Fatalf("get_status = %+v", status)
	}

	if _, _, err := s.handleFocusWindow(ctx, nil, WindowInput{ID: opened.ID}); err != nil {
		t.Fatalf("focus_window: %v", err)
	}
	_, listed, _ = s.handleListWindows(ctx, nil, ListWindowsInput{})
	if listed.Windows[0].Minimized {
		t.Fatalf("focus did not restore minimized window")
	}

	if _, out, err := s.handleCloseWindow(ctx, nil, WindowInput{ID: opened.ID}); err != nil || out.Action != "close" {
		t.Fatalf("close_window = %+v, %v", out, err)
	}
	if _, _, err := s.handleFocusWindow(ctx, nil, WindowInput{ID: opened.ID}); err == nil {
		t.Fatalf("expected focus of a closed window to fail")
	}
}

func TestToolArgumentErrors(t *testing.T) {
	s := NewServer(newFakeController(), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want string
	}{
		{"open without url", func() error { _, _, err := s.handleOpenApp(ctx, nil, OpenAppInput{}); return err }, "url is required"},
		{"open unknown", func() error { _, _, err := s.handleOpenApp(ctx, nil, OpenAppInput{URL: "/nope"}); return err }, "unknown app"},
		{"close without id", func() error { _, _, err := s.handleCloseWindow(ctx, nil, WindowInput{}); return err }, "id is required"},
		{"resize bad edges", func() error {
			_, _, err := s.handleResizeWindow(ctx, nil, ResizeWindowInput{ID: "w", Edges: "middle"})
			return err
		}, "unknown edge"},
		{"resize missing window", func() error {
			_, _, err := s.handleResizeWindow(ctx, nil, ResizeWindowInput{ID: "w", Edges: "left"})
			return err
		}, "no window"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestSetCompactTool(t *testing.T) {
	ctl := newFakeController()
	s := NewServer(ctl, nil)
	_, out, err := s.handleSetCompact(context.Background(), nil, SetCompactInput{Compact: true})
	if err != nil || !out.Compact {
		t.Fatalf("set_compact = %+v, %v", out, err)
	}
	if !ctl.d.Compact() {
		t.Fatalf("desktop not compact")
	}
}
