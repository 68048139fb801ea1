package geometry

// Store holds the current rect of one window and notifies observers on every
// write. Set does not validate; callers enforce the minimum size.
type Store struct {
	rect      Rect
	observers []observer
	nextID    int
	writes    int
}

type observer struct {
	id int
	fn func(Rect)
}

// NewStore creates a store seeded with the initial rect.
func NewStore(initial Rect) *Store {
	return &Store{rect: initial}
}

// Rect returns the current rect.
func (s *Store) Rect() Rect { return s.rect }

// Writes returns the number of committed Set calls.
func (s *Store) Writes() int { return s.writes }

// Set overwrites the stored rect. Observers run in registration order.
func (s *Store) Set(r Rect) {
	s.rect = r
	s.writes++
	for _, o := range s.observers {
		o.fn(r)
	}
}

// Observe registers fn for future writes and returns the function that
// removes it. Removing during a Set does not disturb that write's delivery.
func (s *Store) Observe(fn func(Rect)) func() {
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		kept := make([]observer, 0, len(s.observers))
		for _, o := range s.observers {
			if o.id != id {
				kept = append(kept, o)
			}
		}
		s.observers = kept
	}
}
