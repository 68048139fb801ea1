// Package tui runs the desktop inside a terminal with bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/window"
)

// NotesText returns the submitted lines of a notes window.
func NotesText(w *window.Window) ([]string, bool) {
	c, ok := w.Props().Children.(*notesContent)
	if !ok {
		return nil, false
	}
	return c.Lines(), true
}

// Options configures a Session.
type Options struct {
	Config  *config.Config
	Logger  *slog.Logger
	Version string
	// ProgramOptions are appended to the defaults (alt screen, cell motion
	// mouse, ctx).
	ProgramOptions []tea.ProgramOption
}

// Session owns the desktop and the program that drives it.
type Session struct {
	desk       *desktop.Desktop
	program    *tea.Program
	dispatcher *ProgramDispatcher
	logger     *slog.Logger
	ctx        context.Context
}

// CheckTerminal fails unless stdin and stdout are TTYs.
func CheckTerminal() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("termdesk requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	return nil
}

// NewDesktop builds a desktop for cfg with terminal content for every app
// kind. Startup apps are not opened. extra options are applied last.
func NewDesktop(cfg *config.Config, logger *slog.Logger, version string, extra ...desktop.Option) *desktop.Desktop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	factory := &contentFactory{version: version}
	opts := append([]desktop.Option{
		desktop.WithLogger(logger),
		desktop.WithMetrics(cfg.Metrics()),
		desktop.WithFocusClickDrag(cfg.FocusClickDrag),
		desktop.WithHistoryLimit(cfg.HistoryLimit),
		desktop.WithContent(factory.build),
	}, extra...)
	desk := desktop.New(cfg.DesktopApps(), opts...)
	factory.navigate = desk.Navigate
	factory.apps = desk.Apps
	return desk
}

// OpenStartup opens the startup apps of cfg in order.
func OpenStartup(desk *desktop.Desktop, cfg *config.Config, logger *slog.Logger) {
	for _, url := range cfg.Startup {
		if _, err := desk.Open(url); err != nil {
			logger.Warn("startup app not opened", "url", url, "error", err)
		}
	}
}

// NewSession prepares the desktop and its program. Run starts it.
func NewSession(ctx context.Context, opts Options) *Session {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	desk := NewDesktop(cfg, logger, opts.Version)
	OpenStartup(desk, cfg, logger)

	programOpts := append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	}, opts.ProgramOptions...)
	program := tea.NewProgram(newModel(desk, cfg, logger), programOpts...)

	return &Session{
		desk:       desk,
		program:    program,
		dispatcher: NewProgramDispatcher(program),
		logger:     logger,
		ctx:        ctx,
	}
}

// Desktop returns the session desktop. Outside the program goroutine use
// Dispatcher instead.
func (s *Session) Desktop() *desktop.Desktop { return s.desk }

// Dispatcher runs functions on the program goroutine.
func (s *Session) Dispatcher() desktop.Dispatcher { return s.dispatcher }

// Reload swaps in a new catalog.
func (s *Session) Reload(cfg *config.Config) {
	s.program.Send(ConfigMsg{Config: cfg})
}

// Run blocks until the user quits or ctx is done.
func (s *Session) Run() error {
	_, err := s.program.Run()
	s.dispatcher.Stop()
	s.desk.CloseAll()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && s.ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("desktop program: %w", err)
	}
	s.logger.Info("desktop closed")
	return nil
}
