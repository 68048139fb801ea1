package mcp

import (
	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/geometry"
)

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []desktop.WindowInfo `json:"windows"`
	Focused string               `json:"focused,omitempty"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Windows       int    `json:"windows"`
	Focused       string `json:"focused,omitempty"`
	Compact       bool   `json:"compact"`
	Listeners     int    `json:"listeners"`
	Location      string `json:"location"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// OpenAppInput is the input for the open_app tool.
type OpenAppInput struct {
	URL string `json:"url" jsonschema:"App url from the catalog, e.g. /notes"`
}

// OpenAppOutput is the output for the open_app tool.
type OpenAppOutput struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// WindowInput addresses a single window.
type WindowInput struct {
	ID string `json:"id" jsonschema:"Window id as returned by list_windows or open_app"`
}

// WindowOutput reports the outcome of a single-window command.
type WindowOutput struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

// ToggleMaximizeOutput is the output for the toggle_maximize tool.
type ToggleMaximizeOutput struct {
	ID        string `json:"id"`
	Maximized bool   `json:"maximized"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID string `json:"id" jsonschema:"Window id"`
	DX int    `json:"dx" jsonschema:"Horizontal offset in layout units"`
	DY int    `json:"dy" jsonschema:"Vertical offset in layout units"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	ID    string `json:"id" jsonschema:"Window id"`
	Edges string `json:"edges" jsonschema:"Resize zone: top, bottom, left, right or a corner such as top-left"`
	DX    int    `json:"dx" jsonschema:"Horizontal pointer offset in layout units"`
	DY    int    `json:"dy" jsonschema:"Vertical pointer offset in layout units"`
}

// RectOutput is the committed rectangle after a move or resize.
type RectOutput struct {
	ID   string        `json:"id"`
	Rect geometry.Rect `json:"rect"`
	// Changed is false when the gesture produced no valid candidate.
	Changed bool `json:"changed"`
}

// SetCompactInput is the input for the set_compact tool.
type SetCompactInput struct {
	Compact bool `json:"compact" jsonschema:"True for the compact single-window layout"`
}

// SetCompactOutput is the output for the set_compact tool.
type SetCompactOutput struct {
	Compact bool `json:"compact"`
}
