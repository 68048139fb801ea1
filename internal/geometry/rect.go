package geometry

import (
	"fmt"
	"strings"
)

// Minimum committed window size in layout units.
const (
	MinWidth  = 280
	MinHeight = 60
)

// Rect represents a window position and size in layout units.
type Rect struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// String returns the rect as (left,top,width,height).
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", r.Left, r.Top, r.Width, r.Height)
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.Left + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Top + r.Height }

// Contains reports whether the point lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right() && y >= r.Top && y < r.Bottom()
}

// Translate returns r moved by dx, dy with its size unchanged.
func (r Rect) Translate(dx, dy int) Rect {
	r.Left += dx
	r.Top += dy
	return r
}

// Valid reports whether r satisfies the minimum size constraint.
func (r Rect) Valid() bool {
	return r.Width >= MinWidth && r.Height >= MinHeight
}

// Resize applies a pointer delta to the given edges of r. The result is not
// checked against the minimum size.
func (r Rect) Resize(edges EdgeSet, dx, dy int) Rect {
	if edges.Has(EdgeTop) {
		r.Top += dy
		r.Height -= dy
	}
	if edges.Has(EdgeBottom) {
		r.Height += dy
	}
	if edges.Has(EdgeLeft) {
		r.Left += dx
		r.Width -= dx
	}
	if edges.Has(EdgeRight) {
		r.Width += dx
	}
	return r
}

// ResizeCandidate applies the delta and reports whether the result may be
// committed. An invalid candidate is rejected as a whole; neither axis is
// applied on its own.
func ResizeCandidate(start Rect, edges EdgeSet, dx, dy int) (Rect, bool) {
	candidate := start.Resize(edges, dx, dy)
	if !candidate.Valid() {
		return start, false
	}
	return candidate, true
}

// Edge is a single side of a rect.
type Edge uint8

const (
	EdgeTop Edge = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// String returns the edge name.
func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	default:
		return "unknown"
	}
}

// EdgeSet is a combination of edges. Corners hold two edges, midpoints one.
type EdgeSet uint8

// Edges builds an EdgeSet from individual edges.
func Edges(edges ...Edge) EdgeSet {
	var s EdgeSet
	for _, e := range edges {
		s |= EdgeSet(e)
	}
	return s
}

// Has reports whether e is part of the set.
func (s EdgeSet) Has(e Edge) bool { return s&EdgeSet(e) != 0 }

// Empty reports whether no edge is set.
func (s EdgeSet) Empty() bool { return s == 0 }

// List returns the edges in top, bottom, left, right order.
func (s EdgeSet) List() []Edge {
	var out []Edge
	for _, e := range []Edge{EdgeTop, EdgeBottom, EdgeLeft, EdgeRight} {
		if s.Has(e) {
			out = append(out, e)
		}
	}
	return out
}

// String joins the edge names with "-", e.g. "top-left".
func (s EdgeSet) String() string {
	if s.Empty() {
		return "none"
	}
	names := make([]string, 0, 2)
	for _, e := range s.List() {
		names = append(names, e.String())
	}
	return strings.Join(names, "-")
}

// ParseEdges parses names such as "right", "top-left" or "bottom,right".
func ParseEdges(s string) (EdgeSet, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("edges: empty")
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == ',' || r == ' ' })
	var set EdgeSet
	for _, f := range fields {
		switch f {
		case "top":
			set |= EdgeSet(EdgeTop)
		case "bottom":
			set |= EdgeSet(EdgeBottom)
		case "left":
			set |= EdgeSet(EdgeLeft)
		case "right":
			set |= EdgeSet(EdgeRight)
		default:
			return 0, fmt.Errorf("edges: unknown edge %q", f)
		}
	}
	if set.Has(EdgeTop) && set.Has(EdgeBottom) || set.Has(EdgeLeft) && set.Has(EdgeRight) {
		return 0, fmt.Errorf("edges: %q combines opposite edges", s)
	}
	return set, nil
}

// Zones lists the eight resize zones: four midpoints then four corners.
var Zones = []EdgeSet{
	Edges(EdgeTop),
	Edges(EdgeBottom),
	Edges(EdgeLeft),
	Edges(EdgeRight),
	Edges(EdgeTop, EdgeLeft),
	Edges(EdgeTop, EdgeRight),
	Edges(EdgeBottom, EdgeLeft),
	Edges(EdgeBottom, EdgeRight),
}
