package window

import "github.com/1broseidon/termdesk/internal/geometry"

// Affordances lists the gestures and controls a layout mode offers.
type Affordances struct {
	Draggable bool
	Borders   []geometry.EdgeSet
	Controls  []Control
}

// LayoutAffordances returns what the compact or regular layout renders.
// Compact drops toolbar dragging and resize borders and folds the three
// buttons into one dismiss control.
func LayoutAffordances(compact bool) Affordances {
	if compact {
		return Affordances{
			Draggable: false,
			Borders:   nil,
			Controls:  []Control{ControlDismiss},
		}
	}
	borders := make([]geometry.EdgeSet, len(geometry.Zones))
	copy(borders, geometry.Zones)
	return Affordances{
		Draggable: true,
		Borders:   borders,
		Controls:  []Control{ControlClose, ControlMinimize, ControlMaximize},
	}
}

// HasControl reports whether c is rendered.
func (a Affordances) HasControl(c Control) bool {
	for _, have := range a.Controls {
		if have == c {
			return true
		}
	}
	return false
}

// HasBorder reports whether a resize zone for edges is rendered.
func (a Affordances) HasBorder(edges geometry.EdgeSet) bool {
	for _, b := range a.Borders {
		if b == edges {
			return true
		}
	}
	return false
}
