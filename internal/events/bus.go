package events

import (
	"log/slog"
	"sync"
)

// Listener receives events of the kind it was registered for.
type Listener func(Event)

// Counts tracks listener registrations on one stream.
type Counts struct {
	Attached int `json:"attached"`
	Detached int `json:"detached"`
}

// Live returns the number of listeners currently registered.
func (c Counts) Live() int { return c.Attached - c.Detached }

// Bus is the environment-wide event stream. Emit is synchronous and delivers
// to listeners in registration order.
type Bus struct {
	mu     sync.Mutex
	subs   [kindCount][]*Handle
	counts [kindCount]Counts
	logger *slog.Logger
}

// NewBus creates an empty bus. A nil logger discards debug output.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{logger: logger}
}

// On registers fn on the kind stream. The returned handle must be released
// to detach the listener.
func (b *Bus) On(kind Kind, fn Listener) *Handle {
	h := &Handle{bus: b, kind: kind, fn: fn}

	b.mu.Lock()
	b.subs[kind] = append(b.subs[kind], h)
	b.counts[kind].Attached++
	b.mu.Unlock()

	b.logger.Debug("listener attached", "kind", kind)
	return h
}

// Emit delivers ev to a snapshot of the current listeners. Listeners released
// during delivery are skipped.
func (b *Bus) Emit(ev Event) {
	kind := ev.Kind()
	if kind < 0 || kind >= kindCount {
		return
	}

	b.mu.Lock()
	snapshot := make([]*Handle, len(b.subs[kind]))
	copy(snapshot, b.subs[kind])
	b.mu.Unlock()

	for _, h := range snapshot {
		if h.Released() {
			continue
		}
		h.fn(ev)
	}
}

// Stats returns registration counts for kind.
func (b *Bus) Stats(kind Kind) Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	if kind < 0 || kind >= kindCount {
		return Counts{}
	}
	return b.counts[kind]
}

// Live returns the number of live listeners across all streams.
func (b *Bus) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.counts {
		n += c.Live()
	}
	return n
}

func (b *Bus) remove(h *Handle) {
	b.mu.Lock()
	subs := b.subs[h.kind]
	for i, s := range subs {
		if s == h {
			b.subs[h.kind] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	b.counts[h.kind].Detached++
	b.mu.Unlock()

	b.logger.Debug("listener detached", "kind", h.kind)
}

// Handle is one registered listener. Release detaches it exactly once.
type Handle struct {
	bus      *Bus
	kind     Kind
	fn       Listener
	once     sync.Once
	mu       sync.Mutex
	released bool
}

// Kind returns the stream the handle listens on.
func (h *Handle) Kind() Kind { return h.kind }

// Release detaches the listener. It reports true only for the call that
// performed the detach.
func (h *Handle) Release() bool {
	if h == nil {
		return false
	}
	done := false
	h.once.Do(func() {
		h.mu.Lock()
		h.released = true
		h.mu.Unlock()
		h.bus.remove(h)
		done = true
	})
	return done
}

// Released reports whether Release has run.
func (h *Handle) Released() bool {
	if h == nil {
		return true
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}
