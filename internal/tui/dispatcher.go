package tui

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/termdesk/internal/desktop"
)

// ErrStopped is returned by Do once the program has exited.
var ErrStopped = errors.New("desktop is not running")

// sender is the part of tea.Program the dispatcher needs.
type sender interface {
	Send(msg tea.Msg)
}

// ProgramDispatcher forwards work into the bubbletea event loop so IPC
// requests never touch the desktop concurrently with input handling.
type ProgramDispatcher struct {
	p        sender
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewProgramDispatcher dispatches through p.
func NewProgramDispatcher(p sender) *ProgramDispatcher {
	return &ProgramDispatcher{p: p, stopped: make(chan struct{})}
}

// Do implements desktop.Dispatcher. A call that returns ctx.Err() or
// ErrStopped never runs fn: a message still queued in the program when Do
// gives up is dropped on delivery. Once fn has started Do waits for it.
func (d *ProgramDispatcher) Do(ctx context.Context, fn func(*desktop.Desktop) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-d.stopped:
		return ErrStopped
	default:
	}

	done := make(chan error, 1)
	claim := new(atomic.Int32)
	// Send blocks until the program starts reading messages.
	go d.p.Send(dispatchMsg{fn: fn, done: done, claim: claim})

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if claim.CompareAndSwap(dispatchPending, dispatchAbandoned) {
			return ctx.Err()
		}
		return <-done
	case <-d.stopped:
		if claim.CompareAndSwap(dispatchPending, dispatchAbandoned) {
			return ErrStopped
		}
		return <-done
	}
}

// Stop fails pending and future calls.
func (d *ProgramDispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopped) })
}
