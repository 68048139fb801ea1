package window

import "github.com/1broseidon/termdesk/internal/events"

// subscription keeps one key listener attached while its predicate holds.
// reconcile is called on every Sync; attach and detach happen only when the
// predicate or the handler identity changes.
type subscription struct {
	kind    events.Kind
	handle  *events.Handle
	handler *KeyHandler
}

func (s *subscription) reconcile(bus *events.Bus, active bool, handler *KeyHandler) {
	if s.handle != nil && (!active || handler != s.handler) {
		s.release()
	}
	if !active || s.handle != nil {
		return
	}
	h := handler
	s.handler = h
	s.handle = bus.On(s.kind, func(ev events.Event) {
		if kev, ok := ev.(events.KeyEvent); ok {
			h.Handle(kev)
		}
	})
}

func (s *subscription) release() {
	if s.handle == nil {
		return
	}
	s.handle.Release()
	s.handle = nil
	s.handler = nil
}

func (s *subscription) attached() bool { return s.handle != nil }
