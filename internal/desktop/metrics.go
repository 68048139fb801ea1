package desktop

import (
	"github.com/1broseidon/termdesk/internal/geometry"
	"github.com/1broseidon/termdesk/internal/window"
)

// ControlCells is the width of one toolbar control in cells ("[x]").
const ControlCells = 3

// Metrics maps between terminal cells and layout units and describes where
// the window chrome sits. Row 0 of a window is its top border, row 1 the
// toolbar, the last row its bottom border.
type Metrics struct {
	CellWidth  int
	CellHeight int
}

// DefaultMetrics uses 8x16 units per cell.
func DefaultMetrics() Metrics {
	return Metrics{CellWidth: 8, CellHeight: 16}
}

func (m Metrics) normalized() Metrics {
	if m.CellWidth <= 0 {
		m.CellWidth = 8
	}
	if m.CellHeight <= 0 {
		m.CellHeight = 16
	}
	return m
}

// ToUnits converts a cell position to layout units.
func (m Metrics) ToUnits(col, row int) (int, int) {
	m = m.normalized()
	return col * m.CellWidth, row * m.CellHeight
}

// ToCells converts layout units to a cell position, rounding toward negative
// infinity so windows dragged past the origin stay aligned.
func (m Metrics) ToCells(x, y int) (int, int) {
	m = m.normalized()
	return floorDiv(x, m.CellWidth), floorDiv(y, m.CellHeight)
}

// CellRect converts a unit rect to whole cells.
func (m Metrics) CellRect(r geometry.Rect) geometry.Rect {
	m = m.normalized()
	left, top := m.ToCells(r.Left, r.Top)
	right, bottom := m.ToCells(r.Right(), r.Bottom())
	return geometry.Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// ControlAt returns the index of the toolbar control under column offset
// dx (in cells from the window's left edge), or -1.
func ControlAt(dx, count int) int {
	if dx < 1 {
		return -1
	}
	i := (dx - 1) / ControlCells
	if i >= count {
		return -1
	}
	return i
}

// Classify hit-tests (x, y), in units, against a window drawn at rect.
// It reports false when the point is outside the window.
func (m Metrics) Classify(rect geometry.Rect, f window.Frame, x, y int) (window.Target, bool) {
	if !rect.Contains(x, y) {
		return window.Target{}, false
	}
	cr := m.CellRect(rect)
	col, row := m.ToCells(x, y)
	dx := col - cr.Left
	dy := row - cr.Top
	lastCol := cr.Width - 1
	lastRow := cr.Height - 1

	if len(f.Borders) > 0 {
		edges := geometry.EdgeSet(0)
		if dy == 0 || (dy == 1 && (dx == 0 || dx == lastCol)) {
			edges |= geometry.EdgeSet(geometry.EdgeTop)
		}
		if dy == lastRow || (dy == lastRow-1 && (dx == 0 || dx == lastCol)) {
			edges |= geometry.EdgeSet(geometry.EdgeBottom)
		}
		if dx == 0 || (dx == 1 && (dy == 0 || dy == lastRow)) {
			edges |= geometry.EdgeSet(geometry.EdgeLeft)
		}
		if dx == lastCol || (dx == lastCol-1 && (dy == 0 || dy == lastRow)) {
			edges |= geometry.EdgeSet(geometry.EdgeRight)
		}
		// Windows too small for distinct edges collapse to one side.
		if edges.Has(geometry.EdgeTop) && edges.Has(geometry.EdgeBottom) {
			edges &^= geometry.EdgeSet(geometry.EdgeBottom)
		}
		if edges.Has(geometry.EdgeLeft) && edges.Has(geometry.EdgeRight) {
			edges &^= geometry.EdgeSet(geometry.EdgeRight)
		}
		if !edges.Empty() {
			return window.Border(edges), true
		}
	}

	if dy == 1 {
		if i := ControlAt(dx, len(f.Controls)); i >= 0 {
			return window.Button(f.Controls[i]), true
		}
		if f.Toolbar {
			return window.Toolbar(), true
		}
	}
	return window.Body(), true
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
