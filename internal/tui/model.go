package tui

import (
	"log/slog"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/events"
	"github.com/1broseidon/termdesk/internal/geometry"
)

// Claim states of a dispatchMsg. The program goroutine moves a message from
// pending to running; a caller that gave up moves it to abandoned.
const (
	dispatchPending int32 = iota
	dispatchRunning
	dispatchAbandoned
)

// dispatchMsg runs fn on the program goroutine and reports its result.
type dispatchMsg struct {
	fn    func(*desktop.Desktop) error
	done  chan<- error
	claim *atomic.Int32
}

// run executes fn unless the caller already gave up on it.
func (msg dispatchMsg) run(d *desktop.Desktop) {
	if msg.claim != nil && !msg.claim.CompareAndSwap(dispatchPending, dispatchRunning) {
		return
	}
	msg.done <- msg.fn(d)
}

// ConfigMsg replaces the app catalog and layout settings.
type ConfigMsg struct {
	Config *config.Config
}

// Model is the bubbletea model of the desktop.
type Model struct {
	desk         *desktop.Desktop
	logger       *slog.Logger
	compactWidth int

	width  int
	height int
}

func newModel(desk *desktop.Desktop, cfg *config.Config, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return Model{
		desk:         desk,
		logger:       logger,
		compactWidth: cfg.CompactWidth,
	}
}

// Desktop returns the desktop the model drives.
func (m Model) Desktop() *desktop.Desktop { return m.desk }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+l":
			m.desk.Navigate("/launcher")
			return m, nil
		}
		m.desk.KeyDown(KeyEvent(msg))

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()

	case dispatchMsg:
		msg.run(m.desk)

	case ConfigMsg:
		m.applyConfig(msg.Config)
	}
	return m, nil
}

func (m *Model) applyLayout() {
	metrics := m.desk.Metrics()
	w, h := metrics.ToUnits(m.width, max(m.height-1, 0))
	m.desk.SetBounds(geometry.Rect{Width: w, Height: h})
	m.desk.SetCompact(m.compactWidth > 0 && m.width < m.compactWidth)
}

func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	m.desk.SetCatalog(cfg.DesktopApps())
	m.compactWidth = cfg.CompactWidth
	for _, w := range m.desk.Windows() {
		if l, ok := w.Props().Children.(*launcherContent); ok {
			l.SetApps(m.desk.Apps())
		}
	}
	if m.width > 0 {
		m.applyLayout()
	}
	m.logger.Info("catalog updated", "apps", len(cfg.Apps))
}

// point maps a cell to the layout unit at its center.
func (m Model) point(col, row int) (int, int) {
	metrics := m.desk.Metrics()
	x, y := metrics.ToUnits(col, row)
	return x + metrics.CellWidth/2, y + metrics.CellHeight/2
}

func mouseButton(b tea.MouseButton) (events.Button, bool) {
	switch b {
	case tea.MouseButtonLeft, tea.MouseButtonNone:
		return events.ButtonPrimary, true
	case tea.MouseButtonMiddle:
		return events.ButtonMiddle, true
	case tea.MouseButtonRight:
		return events.ButtonSecondary, true
	default:
		return events.ButtonNone, false
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) {
	button, ok := mouseButton(msg.Button)
	if !ok {
		return
	}
	x, y := m.point(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if m.height > 0 && msg.Y == m.height-1 {
			if button != events.ButtonPrimary {
				return
			}
			if it, ok := taskAt(taskbarItems(m.desk), msg.X); ok {
				m.desk.Navigate(it.url)
			}
			return
		}
		m.desk.PointerDown(x, y, button)
	case tea.MouseActionMotion:
		m.desk.PointerMove(x, y)
	case tea.MouseActionRelease:
		m.desk.PointerUp(x, y, button)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	return renderDesktop(m.desk, m.width, m.height)
}
