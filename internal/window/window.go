package window

import (
	"log/slog"

	"github.com/1broseidon/termdesk/internal/events"
	"github.com/1broseidon/termdesk/internal/geometry"
)

// Option configures a Window.
type Option func(*Window)

// WithLogger sets the logger used for gesture and focus debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Window) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithFocusClickDrag controls whether the press that focuses an unfocused
// window may also start a drag. Enabled by default.
func WithFocusClickDrag(enabled bool) Option {
	return func(w *Window) { w.focusClickDrag = enabled }
}

// WithCompact starts the window in the compact layout.
func WithCompact(compact bool) Option {
	return func(w *Window) { w.compact = compact }
}

// Window is one mounted desktop window.
type Window struct {
	desc  Descriptor
	props Props
	owner Owner
	bus   *events.Bus

	logger         *slog.Logger
	focusClickDrag bool
	compact        bool

	geom        *geometry.Store
	maximized   bool
	minimized   bool
	interaction Interaction
	gesture     *gesture
	rejected    int

	keyDown  subscription
	keyPress subscription

	unmounted bool
}

// New mounts a window. The rect is seeded from the descriptor's default
// position and the content's default size.
func New(desc Descriptor, props Props, owner Owner, bus *events.Bus, opts ...Option) *Window {
	w := &Window{
		owner:          owner,
		bus:            bus,
		logger:         slog.New(slog.DiscardHandler),
		focusClickDrag: true,
		keyDown:        subscription{kind: events.KeyDown},
		keyPress:       subscription{kind: events.KeyPress},
	}
	for _, opt := range opts {
		opt(w)
	}
	w.geom = geometry.NewStore(geometry.Rect{
		Left:   desc.DefaultLeft,
		Top:    desc.DefaultTop,
		Width:  props.DefaultWidth,
		Height: props.DefaultHeight,
	})
	w.Sync(desc, props)
	return w
}

// ID returns the descriptor id.
func (w *Window) ID() string { return w.desc.ID }

// Descriptor returns the last descriptor passed to Sync.
func (w *Window) Descriptor() Descriptor { return w.desc }

// Props returns the last props passed to Sync.
func (w *Window) Props() Props { return w.props }

// Sync delivers a new descriptor and props from the owner. Gaining focus
// while minimized restores the window, and key listeners are attached or
// detached to follow the focus predicate.
func (w *Window) Sync(desc Descriptor, props Props) {
	if w.unmounted {
		return
	}
	gained := desc.Focused && !w.desc.Focused
	w.desc = desc
	w.props = props

	if gained && w.minimized {
		w.minimized = false
		w.logger.Debug("restored on focus", "window", desc.ID)
	}
	w.reconcileInput()
}

func (w *Window) reconcileInput() {
	focused := w.desc.Focused && !w.unmounted
	w.keyDown.reconcile(w.bus, focused && w.props.OnKeyDown != nil, w.props.OnKeyDown)
	w.keyPress.reconcile(w.bus, focused && w.props.OnKeyPress != nil, w.props.OnKeyPress)
}

// SetCompact switches the layout mode. Entering compact mode does not end a
// gesture already in progress; it only prevents new ones.
func (w *Window) SetCompact(compact bool) {
	w.compact = compact
}

// Compact reports whether the compact layout is active.
func (w *Window) Compact() bool { return w.compact }

// PointerDown handles a press on target. Focus is requested first; the drag
// decision is made independently of whether the owner has processed it.
func (w *Window) PointerDown(target Target, ev events.PointerEvent) {
	if w.unmounted {
		return
	}

	focusing := false
	if !w.desc.Focused {
		focusing = true
		w.logger.Debug("focus requested", "window", w.desc.ID, "url", w.desc.URL)
		w.owner.Navigate(w.desc.URL)
	}

	switch target.Kind {
	case TargetControl:
		if ev.Button == events.ButtonPrimary {
			w.Activate(target.Control)
		}
	case TargetToolbar:
		if focusing && !w.focusClickDrag {
			return
		}
		if w.CanMove() && w.canGesture(ev) {
			w.beginGesture(0, ev)
		}
	case TargetBorder:
		if focusing && !w.focusClickDrag {
			return
		}
		if target.Edges.Empty() || !w.layout().HasBorder(target.Edges) {
			return
		}
		if w.canGesture(ev) {
			w.beginGesture(target.Edges, ev)
		}
	}
}

// Activate triggers a toolbar control. Controls not offered by the current
// layout are ignored.
func (w *Window) Activate(c Control) {
	if w.unmounted || !w.layout().HasControl(c) {
		return
	}
	w.logger.Debug("control", "window", w.desc.ID, "control", c.String())

	switch c {
	case ControlClose, ControlDismiss:
		w.owner.Update(w.desc.ID, Update{Closing: Bool(true)})
		w.owner.Navigate(RootURL)
	case ControlMinimize:
		w.minimized = true
		w.owner.Navigate(RootURL)
	case ControlMaximize:
		w.maximized = !w.maximized
		w.owner.Navigate(w.desc.URL)
	}
}

// SetMinimized sets the minimized flag directly, for owner-side commands.
func (w *Window) SetMinimized(v bool) { w.minimized = v }

// SetMaximized sets the maximized flag directly, for owner-side commands.
func (w *Window) SetMaximized(v bool) { w.maximized = v }

// SetRect overwrites the geometry, for owner-side placement commands.
// Sub-minimum rects are refused.
func (w *Window) SetRect(r geometry.Rect) bool {
	if !r.Valid() {
		return false
	}
	w.geom.Set(r)
	return true
}

// Unmount releases every listener the window holds, including an in-flight
// gesture. It is safe to call more than once.
func (w *Window) Unmount() {
	if w.unmounted {
		return
	}
	if w.gesture != nil {
		w.gesture.scope.Release()
	}
	w.unmounted = true
	w.reconcileInput()
	w.logger.Debug("unmounted", "window", w.desc.ID)
}

// Unmounted reports whether Unmount has run.
func (w *Window) Unmounted() bool { return w.unmounted }

// State returns a copy of the persistent state.
func (w *Window) State() State {
	return State{Rect: w.geom.Rect(), Maximized: w.maximized, Minimized: w.minimized}
}

// Interaction returns the current gesture state.
func (w *Window) Interaction() Interaction { return w.interaction }

// Rect returns the committed rect.
func (w *Window) Rect() geometry.Rect { return w.geom.Rect() }

// Geometry exposes the store so renderers can observe commits.
func (w *Window) Geometry() *geometry.Store { return w.geom }

// Rejected returns how many resize candidates were discarded.
func (w *Window) Rejected() int { return w.rejected }

// CanMove reports whether a toolbar press would start a move.
func (w *Window) CanMove() bool {
	return !w.maximized && !w.props.NoToolbar && w.layout().Draggable
}

// CanResize reports whether a border press would start a resize.
func (w *Window) CanResize() bool {
	return !w.maximized && len(w.layout().Borders) > 0
}

// KeyListeners reports which key streams currently have a listener from this
// window.
func (w *Window) KeyListeners() (keyDown, keyPress bool) {
	return w.keyDown.attached(), w.keyPress.attached()
}

func (w *Window) layout() Affordances {
	return LayoutAffordances(w.compact)
}
