package replay

import (
	"context"
	"strings"
	"testing"

	"github.com/1broseidon/termdesk/internal/geometry"
)

const sketchApps = `
apps:
  - name: Sketch
    url: /sketch
    kind: text
    default_left: 100
    default_top: 100
    default_width: 400
    default_height: 300
`

func run(t *testing.T, src string) *Result {
	t.Helper()
	s, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	res, err := Run(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestGestureFile(t *testing.T) {
	s, err := Load("testdata/gestures.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	res, err := Run(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.OK() {
		t.Fatalf("failures: %v", res.Failures)
	}
	if len(res.Windows) != 1 || res.Windows[0].URL != "/notes" {
		t.Fatalf("windows = %+v", res.Windows)
	}
}

func TestMoveThenRejectedResize(t *testing.T) {
	res := run(t, sketchApps+`
steps:
  - open: /sketch
  - drag: {window: /sketch, target: toolbar, dx: 50, dy: -20}
  - drag: {window: /sketch, target: right, dx: -200, dy: 0}
expect:
  - window: /sketch
    rect: {left: 150, top: 80, width: 400, height: 300}
    rejected: 1
    focused: true
`)
	if !res.OK() {
		t.Fatalf("failures: %v", res.Failures)
	}
}

func TestCornerResize(t *testing.T) {
	res := run(t, sketchApps+`
steps:
  - open: /sketch
  - drag: {window: /sketch, target: top-left, dx: -40, dy: -16}
`)
	want := geometry.Rect{Left: 60, Top: 84, Width: 440, Height: 316}
	if got := res.Windows[0].Rect; got != want {
		t.Fatalf("rect = %v, want %v", got, want)
	}
}

func TestRawPointerSteps(t *testing.T) {
	// (204,124) is on the sketch window's toolbar row, right of its
	// controls.
	res := run(t, sketchApps+`
steps:
  - open: /sketch
  - press: {x: 204, y: 124}
  - move: {x: 214, y: 134}
  - move: {x: 224, y: 144}
  - release: {x: 224, y: 144}
`)
	want := geometry.Rect{Left: 120, Top: 120, Width: 400, Height: 300}
	if got := res.Windows[0].Rect; got != want {
		t.Fatalf("rect = %v, want %v", got, want)
	}
}

func TestCompactAndMaximizeBlockGestures(t *testing.T) {
	res := run(t, sketchApps+`
width: 960
height: 640
steps:
  - open: /sketch
  - click: {window: /sketch, control: maximize}
  - drag: {window: /sketch, target: toolbar, dx: 30, dy: 30}
  - click: {window: /sketch, control: maximize}
  - compact: true
  - drag: {window: /sketch, target: bottom-right, dx: 30, dy: 30}
expect:
  - window: /sketch
    maximized: false
    rect: {left: 100, top: 100, width: 400, height: 300}
`)
	if !res.OK() {
		t.Fatalf("failures: %v", res.Failures)
	}
}

func TestCompactOffersOnlyDismiss(t *testing.T) {
	s, err := Parse([]byte(sketchApps + `
compact: true
steps:
  - open: /sketch
  - click: {window: /sketch, control: close}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := Run(context.Background(), s, nil); err == nil || !strings.Contains(err.Error(), "no close control") {
		t.Fatalf("err = %v, want missing close control", err)
	}

	res := run(t, sketchApps+`
compact: true
steps:
  - open: /sketch
  - click: {window: /sketch, control: dismiss}
expect:
  - window: /sketch
    open: false
`)
	if !res.OK() {
		t.Fatalf("failures: %v", res.Failures)
	}
}

func TestExpectationFailuresAreReported(t *testing.T) {
	res := run(t, sketchApps+`
steps:
  - open: /sketch
expect:
  - window: /sketch
    minimized: true
  - window: /notes
`)
	if len(res.Failures) != 2 {
		t.Fatalf("failures = %v, want 2", res.Failures)
	}
	if !strings.Contains(res.Failures[0], "minimized = false, want true") {
		t.Fatalf("failure = %q", res.Failures[0])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown field", "stepz: []", "field stepz not found"},
		{"two actions", "steps:\n  - open: /a\n    key: x\n", "one action per step"},
		{"empty step", "steps:\n  - {}\n", "empty step"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestStepErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown app", "steps:\n  - open: /nope\n", "unknown app"},
		{"missing window", "steps:\n  - drag: {window: /notes, target: toolbar}\n", "no open window"},
		{"bad edges", "steps:\n  - open: /notes\n  - drag: {window: /notes, target: sideways}\n", "unknown edge"},
		{"bad button", "steps:\n  - press: {x: 1, y: 1, button: thumb}\n", "unknown button"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.src))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			_, err = Run(context.Background(), s, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
