package replay

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/events"
	"github.com/1broseidon/termdesk/internal/geometry"
	"github.com/1broseidon/termdesk/internal/tui"
	"github.com/1broseidon/termdesk/internal/window"
)

// Result is the desktop state after a replay.
type Result struct {
	Windows  []desktop.WindowInfo `json:"windows"`
	Failures []string             `json:"failures,omitempty"`
}

// OK reports whether every expectation held.
func (r *Result) OK() bool { return len(r.Failures) == 0 }

// Run executes s on a fresh desktop. Step errors abort the run;
// expectation mismatches are collected in the result.
func Run(ctx context.Context, s *Script, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}

	n := 0
	d := tui.NewDesktop(cfg, logger, "replay", desktop.WithIDs(func() string {
		n++
		return fmt.Sprintf("w%d", n)
	}))
	defer d.CloseAll()

	if s.Width > 0 && s.Height > 0 {
		d.SetBounds(geometry.Rect{Width: s.Width, Height: s.Height})
	}
	d.SetCompact(s.Compact)

	r := &runner{d: d, logger: logger}
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.step(step); err != nil {
			return nil, fmt.Errorf("steps.%d: %w", i, err)
		}
	}

	res := &Result{Windows: d.Snapshot()}
	for i, exp := range s.Expect {
		res.Failures = append(res.Failures, r.check(i, exp)...)
	}
	return res, nil
}

type runner struct {
	d      *desktop.Desktop
	logger *slog.Logger
}

func (r *runner) step(s Step) error {
	action, err := s.action()
	if err != nil {
		return err
	}
	r.logger.Debug("replay step", "action", action)

	switch action {
	case "open":
		_, err := r.d.Open(s.Open)
		return err
	case "focus":
		r.d.Navigate(s.Focus)
	case "press":
		b, err := parseButton(s.Press.Button)
		if err != nil {
			return err
		}
		r.d.PointerDown(s.Press.X, s.Press.Y, b)
	case "move":
		r.d.PointerMove(s.Move.X, s.Move.Y)
	case "release":
		b, err := parseButton(s.Release.Button)
		if err != nil {
			return err
		}
		r.d.PointerUp(s.Release.X, s.Release.Y, b)
	case "key":
		r.d.KeyDown(keyEvent(s.Key))
	case "type":
		for _, ch := range s.Type {
			r.d.KeyDown(keyEvent(string(ch)))
		}
	case "click":
		return r.click(*s.Click)
	case "drag":
		return r.drag(*s.Drag)
	case "compact":
		r.d.SetCompact(*s.Compact)
	}
	return nil
}

func (r *runner) window(url string) (*window.Window, error) {
	for _, w := range r.d.Windows() {
		if w.Descriptor().URL == url {
			return w, nil
		}
	}
	return nil, fmt.Errorf("no open window for %s", url)
}

// cellPoint is the layout unit at the center of cell (col, row).
func (r *runner) cellPoint(col, row int) (int, int) {
	m := r.d.Metrics()
	x, y := m.ToUnits(col, row)
	return x + m.CellWidth/2, y + m.CellHeight/2
}

func (r *runner) click(c Click) error {
	w, err := r.window(c.Window)
	if err != nil {
		return err
	}
	control, err := parseControl(c.Control)
	if err != nil {
		return err
	}
	f := w.Frame()
	i := slices.Index(f.Controls, control)
	if i < 0 {
		return fmt.Errorf("%s has no %s control in this layout", c.Window, c.Control)
	}
	cr := r.d.Metrics().CellRect(r.d.DisplayRect(w))
	x, y := r.cellPoint(cr.Left+1+i*desktop.ControlCells+1, cr.Top+1)
	r.d.PointerDown(x, y, events.ButtonPrimary)
	r.d.PointerUp(x, y, events.ButtonPrimary)
	return nil
}

func (r *runner) drag(dr Drag) error {
	w, err := r.window(dr.Window)
	if err != nil {
		return err
	}
	cr := r.d.Metrics().CellRect(r.d.DisplayRect(w))

	var col, row int
	if strings.EqualFold(dr.Target, "toolbar") {
		col = cr.Left + 1 + len(w.Frame().Controls)*desktop.ControlCells + 1
		row = cr.Top + 1
	} else {
		edges, err := geometry.ParseEdges(dr.Target)
		if err != nil {
			return err
		}
		col, row = cr.Left+cr.Width/2, cr.Top+cr.Height/2
		switch {
		case edges.Has(geometry.EdgeLeft):
			col = cr.Left
		case edges.Has(geometry.EdgeRight):
			col = cr.Left + cr.Width - 1
		}
		switch {
		case edges.Has(geometry.EdgeTop):
			row = cr.Top
		case edges.Has(geometry.EdgeBottom):
			row = cr.Top + cr.Height - 1
		}
	}

	x, y := r.cellPoint(col, row)
	r.d.PointerDown(x, y, events.ButtonPrimary)
	r.d.PointerMove(x+dr.DX, y+dr.DY)
	r.d.PointerUp(x+dr.DX, y+dr.DY, events.ButtonPrimary)
	return nil
}

func (r *runner) check(i int, exp Expect) []string {
	var fails []string
	failf := func(format string, args ...any) {
		fails = append(fails, fmt.Sprintf("expect.%d (%s): ", i, exp.Window)+fmt.Sprintf(format, args...))
	}

	w, err := r.window(exp.Window)
	open := err == nil
	if exp.Open != nil && *exp.Open != open {
		failf("open = %v, want %v", open, *exp.Open)
		return fails
	}
	if !open {
		if exp.Open == nil {
			failf("window is not open")
		}
		return fails
	}

	st := w.State()
	if exp.Rect != nil && st.Rect != *exp.Rect {
		failf("rect = %v, want %v", st.Rect, *exp.Rect)
	}
	if exp.Focused != nil && w.Descriptor().Focused != *exp.Focused {
		failf("focused = %v, want %v", w.Descriptor().Focused, *exp.Focused)
	}
	if exp.Minimized != nil && st.Minimized != *exp.Minimized {
		failf("minimized = %v, want %v", st.Minimized, *exp.Minimized)
	}
	if exp.Maximized != nil && st.Maximized != *exp.Maximized {
		failf("maximized = %v, want %v", st.Maximized, *exp.Maximized)
	}
	if exp.Rejected != nil && w.Rejected() != *exp.Rejected {
		failf("rejected = %d, want %d", w.Rejected(), *exp.Rejected)
	}
	if exp.Notes != nil {
		lines, ok := tui.NotesText(w)
		if !ok {
			failf("not a notes window")
		} else if !slices.Equal(lines, exp.Notes) {
			failf("notes = %q, want %q", lines, exp.Notes)
		}
	}
	return fails
}

func parseButton(s string) (events.Button, error) {
	switch strings.ToLower(s) {
	case "", "primary", "left":
		return events.ButtonPrimary, nil
	case "middle":
		return events.ButtonMiddle, nil
	case "secondary", "right":
		return events.ButtonSecondary, nil
	default:
		return events.ButtonNone, fmt.Errorf("unknown button %q", s)
	}
}

func parseControl(s string) (window.Control, error) {
	for _, c := range []window.Control{window.ControlClose, window.ControlMinimize, window.ControlMaximize, window.ControlDismiss} {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown control %q", s)
}

// keyEvent builds a key event from a name such as "a", "enter" or
// "space".
func keyEvent(name string) events.KeyEvent {
	if name == "space" {
		name = " "
	}
	ev := events.KeyEvent{Key: name}
	if utf8.RuneCountInString(name) == 1 {
		ev.Runes = []rune(name)
	}
	return ev
}
