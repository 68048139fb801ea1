package window

import (
	"testing"

	"github.com/1broseidon/termdesk/internal/events"
	"github.com/1broseidon/termdesk/internal/geometry"
)

type fakeOwner struct {
	updates  []Update
	navigate []string
}

func (o *fakeOwner) Update(_ string, u Update) { o.updates = append(o.updates, u) }
func (o *fakeOwner) Navigate(target string)    { o.navigate = append(o.navigate, target) }

func newTestWindow(t *testing.T, opts ...Option) (*Window, *fakeOwner, *events.Bus) {
	t.Helper()
	owner := &fakeOwner{}
	bus := events.NewBus(nil)
	desc := Descriptor{ID: "w1", Name: "Notes", URL: "/notes", Focused: true, DefaultLeft: 100, DefaultTop: 100}
	props := Props{DefaultWidth: 400, DefaultHeight: 300}
	return New(desc, props, owner, bus, opts...), owner, bus
}

func press(x, y int) events.PointerEvent {
	return events.PointerEvent{X: x, Y: y, Button: events.ButtonPrimary}
}

func move(bus *events.Bus, x, y int) {
	bus.Emit(events.PointerEvent{Type: events.PointerMove, X: x, Y: y, Button: events.ButtonNone})
}

func release(bus *events.Bus) {
	bus.Emit(events.PointerEvent{Type: events.PointerUp, Button: events.ButtonPrimary})
}

func TestMoveGestureSumsDeltas(t *testing.T) {
	w, _, bus := newTestWindow(t)

	w.PointerDown(Toolbar(), press(10, 10))
	if !w.Interaction().Moving {
		t.Fatalf("expected moving after toolbar press")
	}
	deltas := [][2]int{{5, 0}, {-3, 7}, {40, -2}, {0, 0}, {-12, 30}}
	x, y := 10, 10
	for _, d := range deltas {
		x += d[0]
		y += d[1]
		move(bus, x, y)
	}
	release(bus)

	want := geometry.Rect{Left: 100 + x - 10, Top: 100 + y - 10, Width: 400, Height: 300}
	if got := w.Rect(); got != want {
		t.Fatalf("rect = %v, want %v", got, want)
	}
	if !w.Interaction().Idle() {
		t.Fatalf("interaction not idle after release: %+v", w.Interaction())
	}
	if live := bus.Live(); live != 0 {
		t.Fatalf("live listeners after release = %d, want 0", live)
	}
}

func TestResizeCommitsLastValidCandidate(t *testing.T) {
	w, _, bus := newTestWindow(t)

	w.PointerDown(Border(geometry.Edges(geometry.EdgeBottom, geometry.EdgeRight)), press(500, 400))
	if got := w.Interaction(); !got.Resizing || got.Edges.String() != "bottom-right" {
		t.Fatalf("interaction = %+v, want resizing bottom-right", got)
	}

	move(bus, 450, 380) // 350x280 valid
	move(bus, 300, 380) // width 200 rejected
	move(bus, 450, 150) // height 50 rejected
	release(bus)

	want := geometry.Rect{Left: 100, Top: 100, Width: 350, Height: 280}
	if got := w.Rect(); got != want {
		t.Fatalf("rect = %v, want %v", got, want)
	}
	if w.Rejected() != 2 {
		t.Fatalf("rejected = %d, want 2", w.Rejected())
	}
}

func TestResizeTopLeftMovesOrigin(t *testing.T) {
	w, _, bus := newTestWindow(t)

	w.PointerDown(Border(geometry.Edges(geometry.EdgeTop, geometry.EdgeLeft)), press(100, 100))
	move(bus, 80, 90)
	release(bus)

	want := geometry.Rect{Left: 80, Top: 90, Width: 420, Height: 310}
	if got := w.Rect(); got != want {
		t.Fatalf("rect = %v, want %v", got, want)
	}
}

func TestResizeWithNoValidCandidateKeepsOriginal(t *testing.T) {
	w, _, bus := newTestWindow(t)
	before := w.Rect()

	w.PointerDown(Border(geometry.Edges(geometry.EdgeTop)), press(200, 100))
	move(bus, 200, 400)
	move(bus, 200, 390)
	release(bus)

	if got := w.Rect(); got != before {
		t.Fatalf("rect = %v, want original %v", got, before)
	}
}

func TestZeroDeltaGestureIsIdempotent(t *testing.T) {
	tests := []struct {
		name   string
		target Target
	}{
		{"move", Toolbar()},
		{"resize", Border(geometry.Edges(geometry.EdgeLeft))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, bus := newTestWindow(t)
			before := w.Rect()
			w.PointerDown(tt.target, press(42, 17))
			move(bus, 42, 17)
			release(bus)
			if got := w.Rect(); got != before {
				t.Fatalf("rect = %v, want %v", got, before)
			}
		})
	}
}

func TestMaximizeDisablesGestures(t *testing.T) {
	w, owner, bus := newTestWindow(t)
	canMove, canResize := w.CanMove(), w.CanResize()

	w.Activate(ControlMaximize)
	if !w.State().Maximized {
		t.Fatalf("expected maximized")
	}
	if w.CanMove() || w.CanResize() {
		t.Fatalf("gestures should be unavailable while maximized")
	}
	before := w.Rect()
	w.PointerDown(Toolbar(), press(0, 0))
	move(bus, 50, 50)
	release(bus)
	w.PointerDown(Border(geometry.Edges(geometry.EdgeRight)), press(0, 0))
	move(bus, 50, 50)
	release(bus)
	if got := w.Rect(); got != before {
		t.Fatalf("maximized window changed rect: %v", got)
	}
	if bus.Stats(events.PointerMove).Attached != 0 {
		t.Fatalf("maximized window attached pointer listeners")
	}

	w.Activate(ControlMaximize)
	if w.CanMove() != canMove || w.CanResize() != canResize {
		t.Fatalf("availability not restored after second toggle")
	}
	if len(owner.navigate) != 2 || owner.navigate[0] != "/notes" {
		t.Fatalf("navigate = %v, want two navigations to /notes", owner.navigate)
	}
}

func TestFocusRestoresMinimized(t *testing.T) {
	w, owner, _ := newTestWindow(t)
	w.Activate(ControlMinimize)
	if !w.State().Minimized {
		t.Fatalf("expected minimized")
	}
	if got := owner.navigate; len(got) != 1 || got[0] != RootURL {
		t.Fatalf("navigate = %v, want [/]", got)
	}

	desc := w.Descriptor()
	desc.Focused = false
	w.Sync(desc, w.Props())
	if !w.State().Minimized {
		t.Fatalf("losing focus must not restore")
	}

	w.SetMaximized(true)
	before := w.State()
	desc.Focused = true
	w.Sync(desc, w.Props())

	after := w.State()
	if after.Minimized {
		t.Fatalf("gaining focus should clear minimized")
	}
	before.Minimized = false
	if after != before {
		t.Fatalf("state = %+v, want only minimized cleared from %+v", after, before)
	}
}

func TestMinimizedStaysWhileFocusUnchanged(t *testing.T) {
	w, _, _ := newTestWindow(t)
	w.Activate(ControlMinimize)
	// Still focused: no false->true edge, so no restore.
	w.Sync(w.Descriptor(), w.Props())
	if !w.State().Minimized {
		t.Fatalf("resync without focus edge should not restore")
	}
}

func TestKeyListenersBalanced(t *testing.T) {
	w, _, bus := newTestWindow(t)
	var got []string
	down := NewKeyHandler(func(ev events.KeyEvent) { got = append(got, ev.Key) })
	keyPress := NewKeyHandler(func(ev events.KeyEvent) {})

	props := w.Props()
	props.OnKeyDown = down
	props.OnKeyPress = keyPress
	desc := w.Descriptor()

	for i := 0; i < 5; i++ {
		desc.Focused = true
		w.Sync(desc, props)
		w.Sync(desc, props)
		if d, p := w.KeyListeners(); !d || !p {
			t.Fatalf("iteration %d: listeners = %v,%v, want both attached", i, d, p)
		}
		if bus.Stats(events.KeyDown).Live() != 1 {
			t.Fatalf("more than one keydown listener")
		}
		desc.Focused = false
		w.Sync(desc, props)
	}

	for _, k := range []events.Kind{events.KeyDown, events.KeyPress} {
		c := bus.Stats(k)
		if c.Attached != 5 || c.Detached != 5 {
			t.Fatalf("%s stats = %+v, want 5 attach / 5 detach", k, c)
		}
	}

	bus.Emit(events.KeyEvent{Type: events.KeyDown, Key: "x"})
	if len(got) != 0 {
		t.Fatalf("unfocused window received keys: %v", got)
	}
}

func TestKeyHandlerChangeReattaches(t *testing.T) {
	w, _, bus := newTestWindow(t)
	var first, second int
	props := w.Props()
	props.OnKeyDown = NewKeyHandler(func(events.KeyEvent) { first++ })
	w.Sync(w.Descriptor(), props)

	props.OnKeyDown = NewKeyHandler(func(events.KeyEvent) { second++ })
	w.Sync(w.Descriptor(), props)
	bus.Emit(events.KeyEvent{Type: events.KeyDown, Key: "a"})

	if first != 0 || second != 1 {
		t.Fatalf("first=%d second=%d, want 0 and 1", first, second)
	}
	c := bus.Stats(events.KeyDown)
	if c.Attached != 2 || c.Live() != 1 {
		t.Fatalf("stats = %+v, want 2 attached 1 live", c)
	}

	w.Unmount()
	if bus.Live() != 0 {
		t.Fatalf("live after unmount = %d", bus.Live())
	}
}

func TestScenarioMoveThenRejectedResize(t *testing.T) {
	w, _, bus := newTestWindow(t)

	w.PointerDown(Toolbar(), press(200, 110))
	move(bus, 250, 90)
	release(bus)
	want := geometry.Rect{Left: 150, Top: 80, Width: 400, Height: 300}
	if got := w.Rect(); got != want {
		t.Fatalf("after move rect = %v, want %v", got, want)
	}

	w.PointerDown(Border(geometry.Edges(geometry.EdgeRight)), press(550, 200))
	move(bus, 350, 200)
	release(bus)
	if got := w.Rect(); got != want {
		t.Fatalf("after rejected resize rect = %v, want %v", got, want)
	}
}

func TestCompactLayoutIsInert(t *testing.T) {
	w, owner, bus := newTestWindow(t, WithCompact(true))
	before := w.Rect()

	w.PointerDown(Toolbar(), press(0, 0))
	for _, zone := range geometry.Zones {
		w.PointerDown(Border(zone), press(0, 0))
	}
	move(bus, 90, 90)
	release(bus)

	if got := w.Rect(); got != before {
		t.Fatalf("compact rect changed: %v", got)
	}
	if bus.Stats(events.PointerMove).Attached != 0 {
		t.Fatalf("compact window attached pointer listeners")
	}

	f := w.Frame()
	if len(f.Controls) != 1 || f.Controls[0] != ControlDismiss {
		t.Fatalf("controls = %v, want [dismiss]", f.Controls)
	}
	if len(f.Borders) != 0 || f.Draggable {
		t.Fatalf("compact frame should have no borders and no drag")
	}

	w.Activate(ControlClose)
	if len(owner.updates) != 0 {
		t.Fatalf("close is not offered in compact layout")
	}
	w.Activate(ControlDismiss)
	if len(owner.updates) != 1 || owner.updates[0].Closing == nil || !*owner.updates[0].Closing {
		t.Fatalf("updates = %+v, want one closing request", owner.updates)
	}
}

func TestUnmountMidGestureReleasesOnce(t *testing.T) {
	w, _, bus := newTestWindow(t)
	w.PointerDown(Toolbar(), press(0, 0))
	move(bus, 10, 10)

	w.Unmount()
	w.Unmount()
	if bus.Live() != 0 {
		t.Fatalf("live after unmount = %d", bus.Live())
	}
	release(bus)
	c := bus.Stats(events.PointerUp)
	if c.Attached != 1 || c.Detached != 1 {
		t.Fatalf("pointerup stats = %+v, want 1/1", c)
	}
	if got := w.Rect(); got.Left != 110 || got.Top != 110 {
		t.Fatalf("rect = %v, want last committed move", got)
	}
}

func TestSecondPressDuringGestureIgnored(t *testing.T) {
	w, _, bus := newTestWindow(t)
	w.PointerDown(Toolbar(), press(0, 0))
	w.PointerDown(Border(geometry.Edges(geometry.EdgeRight)), press(0, 0))
	if !w.Interaction().Moving || w.Interaction().Resizing {
		t.Fatalf("interaction = %+v, want moving only", w.Interaction())
	}
	if bus.Stats(events.PointerMove).Attached != 1 {
		t.Fatalf("second press attached extra listeners")
	}
	release(bus)
}

func TestUnfocusedPressRequestsFocusFirst(t *testing.T) {
	tests := []struct {
		name       string
		clickDrag  bool
		wantMoving bool
	}{
		{"drag allowed", true, true},
		{"drag suppressed", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, owner, bus := newTestWindow(t, WithFocusClickDrag(tt.clickDrag))
			desc := w.Descriptor()
			desc.Focused = false
			w.Sync(desc, w.Props())

			w.PointerDown(Toolbar(), press(0, 0))
			if len(owner.navigate) != 1 || owner.navigate[0] != "/notes" {
				t.Fatalf("navigate = %v, want [/notes]", owner.navigate)
			}
			if w.Interaction().Moving != tt.wantMoving {
				t.Fatalf("moving = %v, want %v", w.Interaction().Moving, tt.wantMoving)
			}
			release(bus)
		})
	}
}

func TestSecondaryButtonDoesNotDrag(t *testing.T) {
	w, _, _ := newTestWindow(t)
	w.PointerDown(Toolbar(), events.PointerEvent{Button: events.ButtonSecondary})
	if !w.Interaction().Idle() {
		t.Fatalf("secondary press started a gesture")
	}
}

func TestCloseRequestsClosingThenRoot(t *testing.T) {
	w, owner, _ := newTestWindow(t)
	w.PointerDown(Button(ControlClose), press(0, 0))

	if len(owner.updates) != 1 || !*owner.updates[0].Closing {
		t.Fatalf("updates = %+v, want single closing update", owner.updates)
	}
	if len(owner.navigate) != 1 || owner.navigate[0] != RootURL {
		t.Fatalf("navigate = %v, want [/]", owner.navigate)
	}
}

func TestFrameClasses(t *testing.T) {
	w, _, _ := newTestWindow(t)
	props := w.Props()
	props.ClassName = "Notes"
	props.NoToolbar = true
	w.Sync(w.Descriptor(), props)
	w.Activate(ControlMaximize)

	f := w.Frame()
	if got, want := f.ClassString(), "Window Notes no-toolbar focused maximized"; got != want {
		t.Fatalf("classes = %q, want %q", got, want)
	}
	if f.Title != "Notes" {
		t.Fatalf("title = %q, want descriptor name fallback", f.Title)
	}
	if f.Toolbar || f.Draggable {
		t.Fatalf("no-toolbar frame should not have a draggable toolbar")
	}
}
