// Package desktop is the window manager that owns every mounted window: it
// keeps descriptors, assigns stacking order, tracks focus through navigation
// and routes pointer and keyboard input to the right window.
package desktop

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/1broseidon/termdesk/internal/events"
	"github.com/1broseidon/termdesk/internal/geometry"
	"github.com/1broseidon/termdesk/internal/window"
)

// CascadeOffset shifts each newly opened window so stacked windows stay
// visible.
const CascadeOffset = 24

// Default window size when an app does not declare one.
const (
	DefaultWidth  = 480
	DefaultHeight = 320
)

var (
	// ErrWindowNotFound is returned when an id matches no open window.
	ErrWindowNotFound = errors.New("window not found")
	// ErrUnknownApp is returned when a url matches no catalog entry.
	ErrUnknownApp = errors.New("unknown app")
	// ErrGestureUnavailable is returned when a synthesized drag could not
	// start (maximized, compact or missing toolbar).
	ErrGestureUnavailable = errors.New("gesture unavailable")
	// ErrGestureBusy is returned when a drag is requested while another
	// gesture still owns the pointer.
	ErrGestureBusy = errors.New("gesture in progress")
)

// App is a launchable catalog entry.
type App struct {
	Name          string
	URL           string
	Icon          string
	Title         string
	Kind          string
	Text          string
	DefaultLeft   int
	DefaultTop    int
	DefaultWidth  int
	DefaultHeight int
	NoToolbar     bool
	Tabs          []string
}

// ContentFunc builds the props of a newly opened window.
type ContentFunc func(app App, id string) window.Props

// Option configures a Desktop.
type Option func(*Desktop)

// WithLogger sets the logger shared with every window.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Desktop) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithBus uses bus instead of a private one.
func WithBus(bus *events.Bus) Option {
	return func(d *Desktop) { d.bus = bus }
}

// WithContent sets the props factory for new windows.
func WithContent(fn ContentFunc) Option {
	return func(d *Desktop) { d.content = fn }
}

// WithMetrics sets the cell metrics used for hit-testing.
func WithMetrics(m Metrics) Option {
	return func(d *Desktop) { d.metrics = m.normalized() }
}

// WithFocusClickDrag is passed through to every window.
func WithFocusClickDrag(enabled bool) Option {
	return func(d *Desktop) { d.focusClickDrag = enabled }
}

// WithHistoryLimit bounds the navigation history.
func WithHistoryLimit(limit int) Option {
	return func(d *Desktop) { d.history = NewHistory(limit) }
}

// WithIDs replaces the window id generator.
func WithIDs(next func() string) Option {
	return func(d *Desktop) { d.newID = next }
}

type entry struct {
	app   App
	desc  window.Descriptor
	props window.Props
	win   *window.Window
}

// Desktop owns the open windows. It is not safe for concurrent use; wrap it
// in a Dispatcher.
type Desktop struct {
	logger         *slog.Logger
	bus            *events.Bus
	content        ContentFunc
	metrics        Metrics
	focusClickDrag bool
	newID          func() string

	catalog []App
	entries []*entry
	history *History
	nextZ   int
	compact bool
	bounds  geometry.Rect
}

// New creates a desktop serving apps.
func New(apps []App, opts ...Option) *Desktop {
	d := &Desktop{
		logger:         slog.New(slog.DiscardHandler),
		metrics:        DefaultMetrics(),
		focusClickDrag: true,
		newID:          uuid.NewString,
		history:        NewHistory(DefaultHistoryLimit),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.bus == nil {
		d.bus = events.NewBus(d.logger)
	}
	if d.content == nil {
		d.content = DefaultContent
	}
	d.SetCatalog(apps)
	return d
}

// DefaultContent maps catalog fields onto window props.
func DefaultContent(app App, _ string) window.Props {
	return window.Props{
		ClassName:     app.Kind,
		Title:         app.Title,
		Icon:          app.Icon,
		Tabs:          app.Tabs,
		DefaultWidth:  app.DefaultWidth,
		DefaultHeight: app.DefaultHeight,
		NoToolbar:     app.NoToolbar,
	}
}

// Bus returns the event bus windows listen on.
func (d *Desktop) Bus() *events.Bus { return d.bus }

// Metrics returns the hit-testing metrics.
func (d *Desktop) Metrics() Metrics { return d.metrics }

// History returns the navigation history.
func (d *Desktop) History() *History { return d.history }

// SetCatalog replaces the launchable apps. Open windows keep running.
func (d *Desktop) SetCatalog(apps []App) {
	d.catalog = make([]App, 0, len(apps))
	for _, app := range apps {
		if app.DefaultWidth == 0 {
			app.DefaultWidth = DefaultWidth
		}
		if app.DefaultHeight == 0 {
			app.DefaultHeight = DefaultHeight
		}
		d.catalog = append(d.catalog, app)
	}
}

// Apps returns the catalog.
func (d *Desktop) Apps() []App {
	out := make([]App, len(d.catalog))
	copy(out, d.catalog)
	return out
}

func (d *Desktop) app(url string) (App, bool) {
	for _, app := range d.catalog {
		if app.URL == url {
			return app, true
		}
	}
	return App{}, false
}

func (d *Desktop) find(id string) (*entry, int) {
	for i, e := range d.entries {
		if e.desc.ID == id {
			return e, i
		}
	}
	return nil, -1
}

func (d *Desktop) findURL(url string) *entry {
	for _, e := range d.entries {
		if e.desc.URL == url {
			return e
		}
	}
	return nil
}

// Window returns the window with id.
func (d *Desktop) Window(id string) (*window.Window, error) {
	e, _ := d.find(id)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	return e.win, nil
}

// Stack returns the open windows bottom to top.
func (d *Desktop) Stack() []*window.Window {
	sorted := make([]*entry, len(d.entries))
	copy(sorted, d.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].desc.ZIndex < sorted[j].desc.ZIndex
	})
	out := make([]*window.Window, len(sorted))
	for i, e := range sorted {
		out[i] = e.win
	}
	return out
}

// Windows returns the open windows in the order they were opened.
func (d *Desktop) Windows() []*window.Window {
	out := make([]*window.Window, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.win
	}
	return out
}

// Focused returns the focused window, if any.
func (d *Desktop) Focused() (*window.Window, bool) {
	for _, e := range d.entries {
		if e.desc.Focused {
			return e.win, true
		}
	}
	return nil, false
}

// Navigate implements window.Owner. "/" unfocuses everything; an app url
// focuses its window, launching it first when needed.
func (d *Desktop) Navigate(target string) {
	d.history.Push(target)
	if target == window.RootURL {
		d.focus(nil)
		return
	}
	if e := d.findURL(target); e != nil {
		d.focus(e)
		return
	}
	app, ok := d.app(target)
	if !ok {
		d.logger.Warn("navigate to unknown target", "target", target)
		return
	}
	d.focus(d.launch(app))
}

// Update implements window.Owner.
func (d *Desktop) Update(id string, u window.Update) {
	e, i := d.find(id)
	if e == nil {
		d.logger.Warn("update for unknown window", "window", id)
		return
	}
	if u.Minimized != nil {
		e.win.SetMinimized(*u.Minimized)
	}
	if u.Maximized != nil {
		e.win.SetMaximized(*u.Maximized)
	}
	if u.Closing != nil && *u.Closing {
		e.desc.Closing = true
		e.desc.Focused = false
		e.win.Sync(e.desc, e.props)
		e.win.Unmount()
		d.entries = append(d.entries[:i], d.entries[i+1:]...)
		d.logger.Info("window closed", "window", id, "app", e.app.Name)
	}
}

// Open focuses or launches the app at url and returns the window id.
func (d *Desktop) Open(url string) (string, error) {
	if e := d.findURL(url); e == nil {
		if _, ok := d.app(url); !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownApp, url)
		}
	}
	d.Navigate(url)
	e := d.findURL(url)
	if e == nil {
		return "", fmt.Errorf("%w: %s", ErrWindowNotFound, url)
	}
	return e.desc.ID, nil
}

func (d *Desktop) launch(app App) *entry {
	id := d.newID()
	offset := CascadeOffset * len(d.entries)
	desc := window.Descriptor{
		ID:          id,
		Name:        app.Name,
		Icon:        app.Icon,
		URL:         app.URL,
		DefaultLeft: app.DefaultLeft + offset,
		DefaultTop:  app.DefaultTop + offset,
	}
	props := d.content(app, id)
	if props.DefaultWidth < geometry.MinWidth {
		props.DefaultWidth = max(app.DefaultWidth, geometry.MinWidth)
	}
	if props.DefaultHeight < geometry.MinHeight {
		props.DefaultHeight = max(app.DefaultHeight, geometry.MinHeight)
	}

	e := &entry{app: app, desc: desc, props: props}
	e.win = window.New(desc, props, d, d.bus,
		window.WithLogger(d.logger.With("app", app.Name)),
		window.WithFocusClickDrag(d.focusClickDrag),
		window.WithCompact(d.compact),
	)
	d.entries = append(d.entries, e)
	d.logger.Info("window opened", "window", id, "app", app.Name, "rect", e.win.Rect().String())
	return e
}

// focus makes target the only focused window and raises it. A nil target
// unfocuses all windows.
func (d *Desktop) focus(target *entry) {
	if target != nil && !target.desc.Focused {
		d.nextZ++
		target.desc.ZIndex = d.nextZ
	}
	// Unfocus first so the next focused window sees a clean edge and at most
	// one window holds key listeners at a time.
	for _, e := range d.entries {
		if e != target && e.desc.Focused {
			e.desc.Focused = false
			e.win.Sync(e.desc, e.props)
		}
	}
	if target != nil {
		target.desc.Focused = true
		target.win.Sync(target.desc, target.props)
	}
}

// SetProps replaces the props of an open window, for content that swaps its
// key handlers.
func (d *Desktop) SetProps(id string, props window.Props) error {
	e, _ := d.find(id)
	if e == nil {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	e.props = props
	e.win.Sync(e.desc, e.props)
	return nil
}

// SetCompact switches every window between compact and regular layout.
func (d *Desktop) SetCompact(compact bool) {
	if d.compact == compact {
		return
	}
	d.compact = compact
	for _, e := range d.entries {
		e.win.SetCompact(compact)
	}
	d.logger.Debug("layout changed", "compact", compact)
}

// Compact reports the current layout mode.
func (d *Desktop) Compact() bool { return d.compact }

// SetBounds records the visible desktop area, used for maximized and compact
// windows.
func (d *Desktop) SetBounds(r geometry.Rect) { d.bounds = r }

// Bounds returns the visible desktop area.
func (d *Desktop) Bounds() geometry.Rect { return d.bounds }

// DisplayRect is where w is drawn: the full desktop when maximized or
// compact, its own rect otherwise.
func (d *Desktop) DisplayRect(w *window.Window) geometry.Rect {
	if (w.State().Maximized || d.compact) && d.bounds.Width > 0 && d.bounds.Height > 0 {
		return d.bounds
	}
	return w.Rect()
}

// Focus navigates to the window with id.
func (d *Desktop) Focus(id string) error {
	e, _ := d.find(id)
	if e == nil {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	d.Navigate(e.desc.URL)
	return nil
}

// Close closes the window with id the same way its close control does.
func (d *Desktop) Close(id string) error {
	e, _ := d.find(id)
	if e == nil {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	wasFocused := e.desc.Focused
	d.Update(id, window.Update{Closing: window.Bool(true)})
	if wasFocused {
		d.Navigate(window.RootURL)
	}
	return nil
}

// Minimize minimizes the window with id and drops focus if it had it.
func (d *Desktop) Minimize(id string) error {
	e, _ := d.find(id)
	if e == nil {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	d.Update(id, window.Update{Minimized: window.Bool(true)})
	if e.desc.Focused {
		d.Navigate(window.RootURL)
	}
	return nil
}

// ToggleMaximize flips maximized and focuses the window. It returns the new
// value.
func (d *Desktop) ToggleMaximize(id string) (bool, error) {
	e, _ := d.find(id)
	if e == nil {
		return false, fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	next := !e.win.State().Maximized
	d.Update(id, window.Update{Maximized: window.Bool(next)})
	d.Navigate(e.desc.URL)
	return next, nil
}

// Drag synthesizes a press on target, one pointer move by (dx, dy) and a
// release, going through the same gesture path as real input. The window is
// focused first. It fails with ErrGestureBusy and changes nothing while any
// window is mid-gesture.
func (d *Desktop) Drag(id string, target window.Target, dx, dy int) (geometry.Rect, error) {
	e, _ := d.find(id)
	if e == nil {
		return geometry.Rect{}, fmt.Errorf("%w: %s", ErrWindowNotFound, id)
	}
	if busy, ok := d.activeGesture(); ok {
		return e.win.Rect(), fmt.Errorf("%w: %s", ErrGestureBusy, busy)
	}
	d.focus(e)

	r := d.DisplayRect(e.win)
	x, y := r.Left+r.Width/2, r.Top+r.Height/2
	e.win.PointerDown(target, events.PointerEvent{X: x, Y: y, Button: events.ButtonPrimary})
	if e.win.Interaction().Idle() {
		return e.win.Rect(), fmt.Errorf("%w: %s on %s", ErrGestureUnavailable, target.Kind, id)
	}
	d.PointerMove(x+dx, y+dy)
	d.PointerUp(x+dx, y+dy, events.ButtonPrimary)
	return e.win.Rect(), nil
}

// PointerDown hit-tests the top-most visible window at (x, y) and forwards
// the press. A press on empty desktop navigates to "/". It returns the id of
// the window hit, if any. Presses are ignored while a gesture is running.
func (d *Desktop) PointerDown(x, y int, button events.Button) (string, bool) {
	if busy, ok := d.activeGesture(); ok {
		d.logger.Debug("pointer down ignored", "gesture", busy)
		return "", false
	}
	stack := d.Stack()
	for i := len(stack) - 1; i >= 0; i-- {
		w := stack[i]
		if w.State().Minimized {
			continue
		}
		target, ok := d.metrics.Classify(d.DisplayRect(w), w.Frame(), x, y)
		if !ok {
			continue
		}
		id := w.ID()
		d.logger.Debug("pointer down", "window", id, "target", target.Kind.String(), "edges", target.Edges.String())
		w.PointerDown(target, events.PointerEvent{X: x, Y: y, Button: button})
		return id, true
	}
	if button == events.ButtonPrimary {
		d.Navigate(window.RootURL)
	}
	return "", false
}

// activeGesture returns the id of a window with a move or resize running.
func (d *Desktop) activeGesture() (string, bool) {
	for _, e := range d.entries {
		if !e.win.Interaction().Idle() {
			return e.win.ID(), true
		}
	}
	return "", false
}

// PointerMove emits a pointer move on the bus.
func (d *Desktop) PointerMove(x, y int) {
	d.bus.Emit(events.PointerEvent{Type: events.PointerMove, X: x, Y: y, Button: events.ButtonNone})
}

// PointerUp emits a pointer release on the bus.
func (d *Desktop) PointerUp(x, y int, button events.Button) {
	d.bus.Emit(events.PointerEvent{Type: events.PointerUp, X: x, Y: y, Button: button})
}

// KeyDown emits ev on the key-down stream and, for printable keys, on the
// key-press stream.
func (d *Desktop) KeyDown(ev events.KeyEvent) {
	ev.Type = events.KeyDown
	d.bus.Emit(ev)
	if ev.Printable() {
		ev.Type = events.KeyPress
		d.bus.Emit(ev)
	}
}

// CloseAll unmounts every window. Used on shutdown.
func (d *Desktop) CloseAll() {
	for _, e := range d.entries {
		e.win.Unmount()
	}
	d.entries = nil
}
