// Package events models the environment-wide pointer and keyboard streams
// shared by every window on the desktop.
package events

import "fmt"

// Kind identifies an event stream.
type Kind int

const (
	PointerMove Kind = iota
	PointerUp
	KeyDown
	KeyPress
	kindCount
)

// String returns the stream name.
func (k Kind) String() string {
	switch k {
	case PointerMove:
		return "pointermove"
	case PointerUp:
		return "pointerup"
	case KeyDown:
		return "keydown"
	case KeyPress:
		return "keypress"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Button is a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
	ButtonNone
)

// Event is delivered to listeners of one Kind.
type Event interface {
	Kind() Kind
}

// PointerEvent carries pointer coordinates in layout units.
type PointerEvent struct {
	Type   Kind
	X      int
	Y      int
	Button Button
}

// Kind implements Event.
func (e PointerEvent) Kind() Kind { return e.Type }

// KeyEvent carries a key name ("a", "enter", "ctrl+s") and its runes.
// Raw holds the frontend's original message, if any.
type KeyEvent struct {
	Type  Kind
	Key   string
	Runes []rune
	Alt   bool
	Raw   any
}

// Kind implements Event.
func (e KeyEvent) Kind() Kind { return e.Type }

// Printable reports whether the key produces characters. Only printable
// keys are delivered on the KeyPress stream.
func (e KeyEvent) Printable() bool {
	return len(e.Runes) > 0 && !e.Alt
}
