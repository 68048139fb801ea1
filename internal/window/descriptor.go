// Package window implements the interactive desktop window: its geometry,
// move and resize gestures, minimize/maximize/close state, focus-gated
// keyboard routing and compact-layout affordances.
//
// A Window is driven from a single goroutine. The owner (window manager)
// feeds it descriptors through Sync and receives requests through Owner.
package window

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termdesk/internal/events"
)

// Descriptor is the owner's record of one window. The window never mutates
// it; changes are requested through Owner.Update.
type Descriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	URL         string `json:"url"`
	Closing     bool   `json:"closing"`
	Focused     bool   `json:"focused"`
	DefaultLeft int    `json:"default_left"`
	DefaultTop  int    `json:"default_top"`
	ZIndex      int    `json:"z_index"`
}

// Update is a partial change request for the owner. Nil fields are left
// untouched.
type Update struct {
	Closing   *bool `json:"closing,omitempty"`
	Minimized *bool `json:"minimized,omitempty"`
	Maximized *bool `json:"maximized,omitempty"`
}

// Owner is the window manager side of a window.
type Owner interface {
	// Update asks the owner to change the descriptor of window id.
	Update(id string, u Update)
	// Navigate requests focus transfer or routing to target. "/" is the
	// desktop itself.
	Navigate(target string)
}

// RootURL is the navigation target that leaves every window unfocused.
const RootURL = "/"

// Bool returns a pointer to v, for building Update values.
func Bool(v bool) *bool { return &v }

// KeyHandler wraps a keyboard callback supplied by hosted content. Handlers
// are compared by pointer: replacing the handler detaches the old listener.
type KeyHandler struct {
	fn func(events.KeyEvent)
}

// NewKeyHandler creates a handler around fn.
func NewKeyHandler(fn func(events.KeyEvent)) *KeyHandler {
	return &KeyHandler{fn: fn}
}

// Handle invokes the callback.
func (h *KeyHandler) Handle(ev events.KeyEvent) {
	if h == nil || h.fn == nil {
		return
	}
	h.fn(ev)
}

// Styles overrides the rendering of the outer frame, toolbar and content.
type Styles struct {
	Outer   lipgloss.Style
	Toolbar lipgloss.Style
	Content lipgloss.Style
}

// Props are the rendering inputs of a window supplied by its content.
type Props struct {
	ClassName     string
	Title         string
	Icon          string
	Tabs          []string
	DefaultWidth  int
	DefaultHeight int
	NoToolbar     bool
	OnKeyDown     *KeyHandler
	OnKeyPress    *KeyHandler
	Styles        Styles
	Children      any
}
