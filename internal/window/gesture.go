package window

import (
	"github.com/1broseidon/termdesk/internal/events"
	"github.com/1broseidon/termdesk/internal/geometry"
)

// gesture is one press-to-release drag. Its listeners live in scope, which
// is released exactly once by either the pointer-up listener or Unmount.
type gesture struct {
	edges  geometry.EdgeSet
	startX int
	startY int
	start  geometry.Rect
	moves  int
	scope  *events.Scope
}

func (g *gesture) resizing() bool { return !g.edges.Empty() }

// canGesture reports whether a new move or resize may start.
func (w *Window) canGesture(ev events.PointerEvent) bool {
	switch {
	case w.unmounted:
		return false
	case ev.Button != events.ButtonPrimary:
		return false
	case w.maximized, w.compact:
		return false
	case w.gesture != nil:
		// A second press while dragging is ignored; the active gesture keeps
		// its listeners until release.
		return false
	}
	return true
}

func (w *Window) beginGesture(edges geometry.EdgeSet, ev events.PointerEvent) {
	g := &gesture{
		edges:  edges,
		startX: ev.X,
		startY: ev.Y,
		start:  w.geom.Rect(),
		scope:  events.NewScope(),
	}
	w.gesture = g
	if g.resizing() {
		w.interaction = Interaction{Resizing: true, Edges: edges}
	} else {
		w.interaction = Interaction{Moving: true}
	}

	g.scope.Add(w.bus.On(events.PointerMove, func(e events.Event) {
		if pe, ok := e.(events.PointerEvent); ok {
			w.track(g, pe)
		}
	}))
	g.scope.Add(w.bus.On(events.PointerUp, func(events.Event) {
		g.scope.Release()
	}))
	g.scope.OnRelease(func() {
		if w.gesture == g {
			w.gesture = nil
			w.interaction = Interaction{}
		}
		w.logger.Debug("gesture end",
			"window", w.desc.ID,
			"moves", g.moves,
			"rect", w.geom.Rect().String(),
		)
	})

	w.logger.Debug("gesture start",
		"window", w.desc.ID,
		"kind", w.interaction.kind(),
		"edges", edges.String(),
		"rect", g.start.String(),
	)
}

// track applies one pointer move. Deltas are measured from the press point
// against the rect captured at press time, so every commit is independent of
// the previous one.
func (w *Window) track(g *gesture, ev events.PointerEvent) {
	g.moves++
	dx := ev.X - g.startX
	dy := ev.Y - g.startY

	if !g.resizing() {
		w.geom.Set(g.start.Translate(dx, dy))
		return
	}

	candidate, ok := geometry.ResizeCandidate(g.start, g.edges, dx, dy)
	if !ok {
		w.rejected++
		return
	}
	w.geom.Set(candidate)
}

func (i Interaction) kind() string {
	switch {
	case i.Moving:
		return "move"
	case i.Resizing:
		return "resize"
	default:
		return "idle"
	}
}
