package desktop

import (
	"context"
	"sync"
)

// Dispatcher runs fn with exclusive access to a desktop. Every entry point
// that is not already on the desktop's goroutine goes through one.
type Dispatcher interface {
	Do(ctx context.Context, fn func(*Desktop) error) error
}

// Locked serializes access with a mutex, for headless use.
type Locked struct {
	mu sync.Mutex
	d  *Desktop
}

// NewLocked wraps d.
func NewLocked(d *Desktop) *Locked {
	return &Locked{d: d}
}

// Do implements Dispatcher.
func (l *Locked) Do(ctx context.Context, fn func(*Desktop) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.d)
}
