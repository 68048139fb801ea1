package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/window"
)

const resetStyle = "\x1b[0m"

var (
	focusedBorder  = lipgloss.Color("62")
	blurredBorder  = lipgloss.Color("240")
	gestureBorder  = lipgloss.Color("214")
	toolbarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	controlStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	taskbarStyle   = lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("250"))
	taskFocused    = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("15"))
	taskMinimized  = lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("241"))
	launcherButton = " ☰ "
)

// controlLabel is exactly desktop.ControlCells wide.
func controlLabel(c window.Control, maximized bool) string {
	switch c {
	case window.ControlClose:
		return "[x]"
	case window.ControlMinimize:
		return "[_]"
	case window.ControlMaximize:
		if maximized {
			return "[-]"
		}
		return "[+]"
	case window.ControlDismiss:
		return "[<]"
	default:
		return "[ ]"
	}
}

// renderWindow draws f as a width x height block of cells.
func renderWindow(f window.Frame, width, height int) string {
	if width < 2 || height < 2 {
		return ""
	}
	iw, ih := width-2, height-2

	border := blurredBorder
	if f.Focused {
		border = focusedBorder
	}
	if f.Moving || f.Resizing {
		border = gestureBorder
	}

	lines := make([]string, 0, ih)
	if ih > 0 {
		lines = append(lines, renderToolbar(f, iw))
	}
	if ih > 1 {
		body := ""
		if c, ok := f.Children.(Content); ok {
			body = c.View(iw, ih-1)
		}
		content := strings.Split(clip(strings.Split(body, "\n"), iw, ih-1), "\n")
		for _, l := range content {
			lines = append(lines, f.Styles.Content.Render(l))
		}
	}

	style := f.Styles.Outer.Inherit(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)).
		Width(iw).
		Height(ih)
	return style.Render(strings.Join(lines, "\n"))
}

func renderToolbar(f window.Frame, width int) string {
	var b strings.Builder
	for _, c := range f.Controls {
		b.WriteString(controlStyle.Render(controlLabel(c, f.Maximized)))
	}
	if f.Toolbar {
		b.WriteString(" ")
		if f.Icon != "" {
			b.WriteString(titleStyle.Render(f.Icon) + " ")
		}
		// A tab strip takes the place of the title.
		if len(f.Tabs) > 0 {
			b.WriteString(toolbarStyle.Render(strings.Join(f.Tabs, " | ")))
		} else {
			b.WriteString(titleStyle.Render(f.Title))
		}
	}
	return fit(f.Styles.Toolbar.Inherit(toolbarStyle).Render(b.String()), width)
}

// clip cuts lines to width x height, padding short lines and missing rows
// with spaces.
func clip(lines []string, width, height int) string {
	if height <= 0 {
		return ""
	}
	out := make([]string, height)
	for i := range out {
		l := ""
		if i < len(lines) {
			l = lines[i]
		}
		out[i] = fit(l, width)
	}
	return strings.Join(out, "\n")
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// overlay draws block onto canvas with its top-left cell at (x, y),
// clipping at the canvas edges.
func overlay(canvas []string, block string, x, y, width int) {
	if block == "" {
		return
	}
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 || row >= len(canvas) {
			continue
		}
		bx := x
		if bx < 0 {
			line = ansi.TruncateLeft(line, -bx, "")
			bx = 0
		}
		if bx >= width {
			continue
		}
		line = ansi.Truncate(line, width-bx, "")
		lw := ansi.StringWidth(line)
		if lw == 0 {
			continue
		}

		base := canvas[row]
		left := fit(base, bx)
		right := ansi.TruncateLeft(base, bx+lw, "")
		canvas[row] = left + resetStyle + line + resetStyle + right
	}
}

// taskItem is one clickable span of the taskbar.
type taskItem struct {
	url   string
	label string
	start int
	end   int
	style lipgloss.Style
}

// taskbarItems lays out the launcher button and one entry per window in
// opening order.
func taskbarItems(d *desktop.Desktop) []taskItem {
	items := []taskItem{{
		url:   "/launcher",
		label: launcherButton,
		start: 0,
		end:   ansi.StringWidth(launcherButton),
		style: taskbarStyle,
	}}
	col := items[0].end
	for _, w := range d.Windows() {
		f := w.Frame()
		label := " " + f.Title + " "
		if f.Icon != "" {
			label = " " + f.Icon + " " + f.Title + " "
		}
		style := taskbarStyle
		switch {
		case f.Focused:
			style = taskFocused
		case f.Minimized:
			style = taskMinimized
			label = " (" + strings.TrimSpace(label) + ") "
		}
		col++ // separator
		lw := ansi.StringWidth(label)
		items = append(items, taskItem{
			url:   w.Descriptor().URL,
			label: label,
			start: col,
			end:   col + lw,
			style: style,
		})
		col += lw
	}
	return items
}

func renderTaskbar(items []taskItem, width int) string {
	var b strings.Builder
	col := 0
	for _, it := range items {
		if it.start > col {
			b.WriteString(taskbarStyle.Render(strings.Repeat(" ", it.start-col)))
		}
		b.WriteString(it.style.Render(it.label))
		col = it.end
	}
	s := b.String()
	if w := ansi.StringWidth(s); w < width {
		return s + taskbarStyle.Render(strings.Repeat(" ", width-w))
	}
	return ansi.Truncate(s, width, "")
}

// taskAt returns the taskbar item under col.
func taskAt(items []taskItem, col int) (taskItem, bool) {
	for _, it := range items {
		if col >= it.start && col < it.end {
			return it, true
		}
	}
	return taskItem{}, false
}

// renderDesktop composites the visible windows bottom to top above the
// taskbar.
func renderDesktop(d *desktop.Desktop, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	rows := height - 1
	canvas := make([]string, max(rows, 0))
	for i := range canvas {
		canvas[i] = strings.Repeat(" ", width)
	}

	metrics := d.Metrics()
	for _, w := range d.Stack() {
		if w.State().Minimized {
			continue
		}
		cr := metrics.CellRect(d.DisplayRect(w))
		overlay(canvas, renderWindow(w.Frame(), cr.Width, cr.Height), cr.Left, cr.Top, width)
	}

	return strings.Join(append(canvas, renderTaskbar(taskbarItems(d), width)), "\n")
}
