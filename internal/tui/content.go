package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/events"
	"github.com/1broseidon/termdesk/internal/window"
)

// Content is what a window hosts. It is stored in the window's
// Props.Children and drawn inside the chrome.
type Content interface {
	View(width, height int) string
}

// keyed content receives key-down events while its window is focused.
type keyed interface {
	HandleKey(ev events.KeyEvent)
}

// contentFactory builds window props for each app kind.
type contentFactory struct {
	version  string
	navigate func(url string)
	apps     func() []desktop.App
}

func (f *contentFactory) build(app desktop.App, id string) window.Props {
	props := desktop.DefaultContent(app, id)

	var c Content
	switch config.AppKind(app.Kind) {
	case config.KindAbout:
		c = &aboutContent{version: f.version}
	case config.KindNotes:
		c = newNotesContent()
	case config.KindLauncher:
		c = newLauncherContent(f.apps(), f.navigate)
	default:
		c = &textContent{text: app.Text}
	}
	props.Children = c
	if k, ok := c.(keyed); ok {
		props.OnKeyDown = window.NewKeyHandler(k.HandleKey)
	}
	return props
}

var mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

type aboutContent struct {
	version string
}

func (c *aboutContent) View(width, height int) string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("termdesk " + c.version),
		"",
		"A desktop in your terminal.",
		mutedStyle.Render("ctrl+l: launcher  ctrl+c: quit"),
	}
	return clip(lines, width, height)
}

type textContent struct {
	text string
}

func (c *textContent) View(width, height int) string {
	return clip(strings.Split(c.text, "\n"), width, height)
}

// notesContent is a scratch pad: a text input whose submitted lines pile up
// above it.
type notesContent struct {
	lines []string
	input textinput.Model
}

func newNotesContent() *notesContent {
	ti := textinput.New()
	ti.Placeholder = "type a note, enter to add"
	ti.CharLimit = 256
	ti.Prompt = "> "
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()
	return &notesContent{input: ti}
}

// Lines returns the submitted notes.
func (c *notesContent) Lines() []string { return c.lines }

func (c *notesContent) HandleKey(ev events.KeyEvent) {
	if ev.Key == "enter" {
		if v := strings.TrimSpace(c.input.Value()); v != "" {
			c.lines = append(c.lines, v)
		}
		c.input.Reset()
		return
	}
	msg, ok := ev.Raw.(tea.KeyMsg)
	if !ok {
		msg = keyMsgFromEvent(ev)
	}
	c.input, _ = c.input.Update(msg)
}

func (c *notesContent) View(width, height int) string {
	c.input.Width = max(width-len(c.input.Prompt)-1, 1)
	keep := max(height-1, 0)
	lines := c.lines
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	out := make([]string, 0, keep+1)
	out = append(out, lines...)
	for len(out) < keep {
		out = append(out, "")
	}
	out = append(out, c.input.View())
	return clip(out, width, height)
}

// launcherItem implements list.Item for the app launcher.
type launcherItem struct {
	app desktop.App
}

func (i launcherItem) Title() string {
	if i.app.Icon != "" {
		return i.app.Icon + " " + i.app.Name
	}
	return i.app.Name
}

func (i launcherItem) Description() string { return i.app.URL }
func (i launcherItem) FilterValue() string { return i.app.Name }

type launcherContent struct {
	list     list.Model
	navigate func(url string)
}

func newLauncherContent(apps []desktop.App, navigate func(string)) *launcherContent {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(launcherItems(apps), delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()

	return &launcherContent{list: l, navigate: navigate}
}

func launcherItems(apps []desktop.App) []list.Item {
	items := make([]list.Item, 0, len(apps))
	for _, app := range apps {
		if config.AppKind(app.Kind) == config.KindLauncher {
			continue
		}
		items = append(items, launcherItem{app: app})
	}
	return items
}

// SetApps replaces the launcher entries after a catalog reload.
func (c *launcherContent) SetApps(apps []desktop.App) {
	c.list.SetItems(launcherItems(apps))
}

// Selected returns the url under the cursor.
func (c *launcherContent) Selected() (string, bool) {
	item, ok := c.list.SelectedItem().(launcherItem)
	if !ok {
		return "", false
	}
	return item.app.URL, true
}

func (c *launcherContent) HandleKey(ev events.KeyEvent) {
	if ev.Key == "enter" {
		if url, ok := c.Selected(); ok && c.navigate != nil {
			c.navigate(url)
		}
		return
	}
	msg, ok := ev.Raw.(tea.KeyMsg)
	if !ok {
		msg = keyMsgFromEvent(ev)
	}
	c.list, _ = c.list.Update(msg)
}

func (c *launcherContent) View(width, height int) string {
	c.list.SetSize(width, height)
	return clip(strings.Split(c.list.View(), "\n"), width, height)
}

// keyMsgFromEvent rebuilds a bubbletea key for events that did not come
// from the terminal (replays, tests).
func keyMsgFromEvent(ev events.KeyEvent) tea.KeyMsg {
	if len(ev.Runes) > 0 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: ev.Runes, Alt: ev.Alt}
	}
	for t, name := range keyNames {
		if name == ev.Key {
			return tea.KeyMsg{Type: t, Alt: ev.Alt}
		}
	}
	return tea.KeyMsg{Type: tea.KeyNull}
}

var keyNames = map[tea.KeyType]string{
	tea.KeyEnter:     "enter",
	tea.KeyBackspace: "backspace",
	tea.KeyDelete:    "delete",
	tea.KeyUp:        "up",
	tea.KeyDown:      "down",
	tea.KeyLeft:      "left",
	tea.KeyRight:     "right",
	tea.KeyHome:      "home",
	tea.KeyEnd:       "end",
	tea.KeyTab:       "tab",
	tea.KeyEsc:       "esc",
	tea.KeySpace:     " ",
}

// KeyEvent converts a terminal key to a desktop key event.
func KeyEvent(msg tea.KeyMsg) events.KeyEvent {
	ev := events.KeyEvent{Key: msg.String(), Alt: msg.Alt, Raw: msg}
	switch msg.Type {
	case tea.KeyRunes:
		ev.Runes = msg.Runes
	case tea.KeySpace:
		ev.Runes = []rune{' '}
	}
	return ev
}
