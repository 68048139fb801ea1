package window

import "github.com/1broseidon/termdesk/internal/geometry"

// State is the persistent local state of a window.
type State struct {
	Rect      geometry.Rect `json:"rect"`
	Maximized bool          `json:"maximized"`
	Minimized bool          `json:"minimized"`
}

// Interaction is the transient gesture state. It is idle unless a press to
// release sequence is in progress.
type Interaction struct {
	Moving   bool             `json:"moving"`
	Resizing bool             `json:"resizing"`
	Edges    geometry.EdgeSet `json:"edges"`
}

// Idle reports whether no gesture is active.
func (i Interaction) Idle() bool { return !i.Moving && !i.Resizing }

// Control is a toolbar button.
type Control int

const (
	ControlClose Control = iota
	ControlMinimize
	ControlMaximize
	// ControlDismiss is the single combined control of the compact layout.
	ControlDismiss
)

// String returns the control name.
func (c Control) String() string {
	switch c {
	case ControlClose:
		return "close"
	case ControlMinimize:
		return "minimize"
	case ControlMaximize:
		return "maximize"
	case ControlDismiss:
		return "dismiss"
	default:
		return "unknown"
	}
}

// TargetKind classifies the part of a window under a press.
type TargetKind int

const (
	TargetBody TargetKind = iota
	TargetToolbar
	TargetBorder
	TargetControl
)

// String returns the region name.
func (k TargetKind) String() string {
	switch k {
	case TargetBody:
		return "body"
	case TargetToolbar:
		return "toolbar"
	case TargetBorder:
		return "border"
	case TargetControl:
		return "control"
	default:
		return "unknown"
	}
}

// Target is the region a press landed on.
type Target struct {
	Kind    TargetKind
	Edges   geometry.EdgeSet
	Control Control
}

// Body targets the content area.
func Body() Target { return Target{Kind: TargetBody} }

// Toolbar targets the draggable title bar.
func Toolbar() Target { return Target{Kind: TargetToolbar} }

// Border targets the resize zone for edges.
func Border(edges geometry.EdgeSet) Target {
	return Target{Kind: TargetBorder, Edges: edges}
}

// Button targets a toolbar control.
func Button(c Control) Target { return Target{Kind: TargetControl, Control: c} }
