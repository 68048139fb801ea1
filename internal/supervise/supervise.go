// Package supervise keeps the desktop's background services running beside
// the UI: the control socket server and the config watcher. A failing
// service is restarted with backoff and never takes the UI down with it.
package supervise

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
)

// Service is a background service with a name for log output.
type Service interface {
	fmt.Stringer
	suture.Service
}

// Tree is the supervisor owning every background service of one desktop.
type Tree struct {
	sup    *suture.Supervisor
	logger *slog.Logger
}

// New creates an empty tree that logs restarts and backoff to logger.
func New(name string, logger *slog.Logger) *Tree {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tree{logger: logger.With("supervisor", name)}
	t.sup = suture.New(name, suture.Spec{
		EventHook:        t.logEvent,
		FailureThreshold: 3,
		FailureBackoff:   5 * time.Second,
		Timeout:          2 * time.Second,
	})
	return t
}

// Add starts svc with the tree, or immediately if the tree is running.
func (t *Tree) Add(svc Service) suture.ServiceToken {
	t.logger.Debug("service added", "service", svc.String())
	return t.sup.Add(guarded{Service: svc})
}

// Start runs the tree until ctx is done. The channel yields the tree's exit
// error once every service has stopped.
func (t *Tree) Start(ctx context.Context) <-chan error {
	return t.sup.ServeBackground(ctx)
}

func (t *Tree) logEvent(ev suture.Event) {
	switch e := ev.(type) {
	case suture.EventServiceTerminate:
		t.logger.Error("service exited, restarting", "service", e.ServiceName, "error", e.Err, "restarting", e.Restarting)
	case suture.EventServicePanic:
		t.logger.Error("service panicked, restarting", "service", e.ServiceName, "panic", e.PanicMsg)
		t.logger.Debug("service panic stack", "service", e.ServiceName, "stack", e.Stacktrace)
	case suture.EventStopTimeout:
		t.logger.Warn("service did not stop in time", "service", e.ServiceName)
	case suture.EventBackoff:
		t.logger.Warn("services failing repeatedly, backing off")
	case suture.EventResume:
		t.logger.Info("services resumed after backoff")
	default:
		t.logger.Warn("unhandled supervisor event", "type", int(ev.Type()), "event", ev.String())
	}
}

// guarded stops a service's stray context error from reading as shutdown.
type guarded struct {
	Service
}

func (g guarded) Serve(ctx context.Context) error {
	return maskContextError(ctx, g.Service.Serve(ctx))
}

// maskContextError returns err with its context.Canceled or DeadlineExceeded
// identity removed unless ctx itself is done. suture treats a context error
// as a request to stop, so a socket read timing out would otherwise end the
// service for good. suture's own control errors are kept.
func maskContextError(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded):
		return err
	}

	errs := []error{errors.New(err.Error())}
	if errors.Is(err, suture.ErrDoNotRestart) {
		errs = append(errs, suture.ErrDoNotRestart)
	}
	if errors.Is(err, suture.ErrTerminateSupervisorTree) {
		errs = append(errs, suture.ErrTerminateSupervisorTree)
	}
	return errors.Join(errs...)
}

// Func is a Service backed by a function.
type Func struct {
	name string
	fn   func(ctx context.Context) error
}

// NewFunc names fn as a service.
func NewFunc(name string, fn func(ctx context.Context) error) Func {
	return Func{name: name, fn: fn}
}

func (f Func) String() string { return f.name }

func (f Func) Serve(ctx context.Context) error { return f.fn(ctx) }
