package events

import "sync"

// Scope owns a group of handles acquired together and releases all of them
// exactly once. Whichever caller releases first wins; later calls are no-ops.
type Scope struct {
	mu       sync.Mutex
	handles  []*Handle
	released bool
	onDone   []func()
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Add acquires h into the scope. Adding to a released scope releases h
// immediately.
func (s *Scope) Add(h *Handle) *Handle {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		h.Release()
		return h
	}
	s.handles = append(s.handles, h)
	s.mu.Unlock()
	return h
}

// OnRelease registers fn to run once, after the handles are detached.
func (s *Scope) OnRelease(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDone = append(s.onDone, fn)
}

// Release detaches every handle and runs the release callbacks. It reports
// true only for the call that performed the release.
func (s *Scope) Release() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return false
	}
	s.released = true
	handles := s.handles
	callbacks := s.onDone
	s.handles = nil
	s.onDone = nil
	s.mu.Unlock()

	for _, h := range handles {
		h.Release()
	}
	for _, fn := range callbacks {
		fn()
	}
	return true
}

// Released reports whether the scope has been released.
func (s *Scope) Released() bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}
