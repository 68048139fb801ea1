package desktop

import (
	"github.com/1broseidon/termdesk/internal/events"
	"github.com/1broseidon/termdesk/internal/geometry"
)

// WindowInfo is a serializable view of one open window.
type WindowInfo struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	URL       string        `json:"url"`
	Title     string        `json:"title"`
	Focused   bool          `json:"focused"`
	ZIndex    int           `json:"z_index"`
	Rect      geometry.Rect `json:"rect"`
	Minimized bool          `json:"minimized"`
	Maximized bool          `json:"maximized"`
	Moving    bool          `json:"moving"`
	Resizing  bool          `json:"resizing"`
	Rejected  int           `json:"rejected_resizes"`
}

// Status summarizes the desktop.
type Status struct {
	Windows   int           `json:"windows"`
	Focused   string        `json:"focused,omitempty"`
	Compact   bool          `json:"compact"`
	Bounds    geometry.Rect `json:"bounds"`
	Listeners int           `json:"listeners"`
	KeyDown   events.Counts `json:"keydown"`
	KeyPress  events.Counts `json:"keypress"`
	Location  string        `json:"location"`
	Apps      int           `json:"apps"`
}

// Snapshot lists the open windows bottom to top.
func (d *Desktop) Snapshot() []WindowInfo {
	stack := d.Stack()
	out := make([]WindowInfo, 0, len(stack))
	for _, w := range stack {
		f := w.Frame()
		st := w.State()
		out = append(out, WindowInfo{
			ID:        f.ID,
			Name:      w.Descriptor().Name,
			URL:       w.Descriptor().URL,
			Title:     f.Title,
			Focused:   f.Focused,
			ZIndex:    f.ZIndex,
			Rect:      st.Rect,
			Minimized: st.Minimized,
			Maximized: st.Maximized,
			Moving:    f.Moving,
			Resizing:  f.Resizing,
			Rejected:  w.Rejected(),
		})
	}
	return out
}

// Status returns summary counters.
func (d *Desktop) Status() Status {
	st := Status{
		Windows:   len(d.entries),
		Compact:   d.compact,
		Bounds:    d.bounds,
		Listeners: d.bus.Live(),
		KeyDown:   d.bus.Stats(events.KeyDown),
		KeyPress:  d.bus.Stats(events.KeyPress),
		Location:  d.history.Current(),
		Apps:      len(d.catalog),
	}
	if w, ok := d.Focused(); ok {
		st.Focused = w.ID()
	}
	return st
}
