package desktop

// DefaultHistoryLimit bounds the navigation history.
const DefaultHistoryLimit = 64

// History is a bounded stack of navigation targets, newest last.
type History struct {
	limit   int
	entries []string
}

// NewHistory creates a history keeping at most limit entries.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Push records target. Repeating the current target is a no-op.
func (h *History) Push(target string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == target {
		return
	}
	h.entries = append(h.entries, target)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append(h.entries[:0], h.entries[over:]...)
	}
}

// Current returns the newest entry, or "" when empty.
func (h *History) Current() string {
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

// Back drops the newest entry and returns the one before it.
func (h *History) Back() (string, bool) {
	if len(h.entries) < 2 {
		return "", false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return h.entries[len(h.entries)-1], true
}

// Entries returns a copy, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }
