package window

import (
	"strings"

	"github.com/1broseidon/termdesk/internal/geometry"
)

// Frame is everything a renderer needs to draw one window.
type Frame struct {
	ID        string
	Classes   []string
	ZIndex    int
	Rect      geometry.Rect
	Title     string
	Icon      string
	Tabs      []string
	Toolbar   bool
	Draggable bool
	Controls  []Control
	Borders   []geometry.EdgeSet
	Focused   bool
	Closing   bool
	Minimized bool
	Maximized bool
	Moving    bool
	Resizing  bool
	Styles    Styles
	Children  any
}

// ClassString joins the classes with spaces.
func (f Frame) ClassString() string { return strings.Join(f.Classes, " ") }

// HasClass reports whether name is among the frame classes.
func (f Frame) HasClass(name string) bool {
	for _, c := range f.Classes {
		if c == name {
			return true
		}
	}
	return false
}

// Frame renders the current state.
func (w *Window) Frame() Frame {
	aff := w.layout()
	f := Frame{
		ID:        w.desc.ID,
		ZIndex:    w.desc.ZIndex,
		Rect:      w.geom.Rect(),
		Title:     w.props.Title,
		Icon:      w.props.Icon,
		Tabs:      w.props.Tabs,
		Toolbar:   !w.props.NoToolbar,
		Draggable: w.CanMove(),
		Controls:  aff.Controls,
		Borders:   aff.Borders,
		Focused:   w.desc.Focused,
		Closing:   w.desc.Closing,
		Minimized: w.minimized,
		Maximized: w.maximized,
		Moving:    w.interaction.Moving,
		Resizing:  w.interaction.Resizing,
		Styles:    w.props.Styles,
		Children:  w.props.Children,
	}
	if f.Title == "" {
		f.Title = w.desc.Name
	}
	if f.Icon == "" {
		f.Icon = w.desc.Icon
	}

	f.Classes = append(f.Classes, "Window")
	if w.props.ClassName != "" {
		f.Classes = append(f.Classes, w.props.ClassName)
	}
	flags := []struct {
		on   bool
		name string
	}{
		{w.props.NoToolbar, "no-toolbar"},
		{f.Focused, "focused"},
		{f.Closing, "closing"},
		{f.Minimized, "minimized"},
		{f.Maximized, "maximized"},
		{f.Moving, "moving"},
		{f.Resizing, "resizing"},
	}
	for _, fl := range flags {
		if fl.on {
			f.Classes = append(f.Classes, fl.name)
		}
	}
	return f
}
