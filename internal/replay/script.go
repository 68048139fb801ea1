// Package replay runs scripted pointer and keyboard input against a
// headless desktop and checks the resulting window state.
package replay

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/geometry"
)

// Script is a replay file.
type Script struct {
	// Width and Height are the desktop bounds in layout units.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Compact starts the desktop in the compact layout.
	Compact        bool  `yaml:"compact"`
	FocusClickDrag *bool `yaml:"focus_click_drag"`
	// BuiltinApps defaults to true.
	BuiltinApps *bool        `yaml:"builtin_apps"`
	Apps        []config.App `yaml:"apps"`
	Steps       []Step       `yaml:"steps"`
	Expect      []Expect     `yaml:"expect"`
}

// Step is one scripted action. Exactly one field is set.
type Step struct {
	Open    string `yaml:"open,omitempty"`
	Focus   string `yaml:"focus,omitempty"`
	Press   *Point `yaml:"press,omitempty"`
	Move    *Point `yaml:"move,omitempty"`
	Release *Point `yaml:"release,omitempty"`
	Key     string `yaml:"key,omitempty"`
	Type    string `yaml:"type,omitempty"`
	Click   *Click `yaml:"click,omitempty"`
	Drag    *Drag  `yaml:"drag,omitempty"`
	Compact *bool  `yaml:"compact,omitempty"`
}

// Point is a raw pointer position in layout units.
type Point struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Button string `yaml:"button,omitempty"`
}

// Click presses and releases a toolbar control of the window at url.
type Click struct {
	Window  string `yaml:"window"`
	Control string `yaml:"control"`
}

// Drag presses a region of the window at url, moves by (DX, DY) and
// releases. Target is "toolbar" or an edge set such as "bottom-right".
type Drag struct {
	Window string `yaml:"window"`
	Target string `yaml:"target"`
	DX     int    `yaml:"dx"`
	DY     int    `yaml:"dy"`
}

// Expect checks one window after all steps ran. Unset fields are not
// checked.
type Expect struct {
	Window    string         `yaml:"window"`
	Open      *bool          `yaml:"open,omitempty"`
	Rect      *geometry.Rect `yaml:"rect,omitempty"`
	Focused   *bool          `yaml:"focused,omitempty"`
	Minimized *bool          `yaml:"minimized,omitempty"`
	Maximized *bool          `yaml:"maximized,omitempty"`
	Rejected  *int           `yaml:"rejected,omitempty"`
	Notes     []string       `yaml:"notes,omitempty"`
}

// action names the field set on s.
func (s Step) action() (string, error) {
	var names []string
	if s.Open != "" {
		names = append(names, "open")
	}
	if s.Focus != "" {
		names = append(names, "focus")
	}
	if s.Press != nil {
		names = append(names, "press")
	}
	if s.Move != nil {
		names = append(names, "move")
	}
	if s.Release != nil {
		names = append(names, "release")
	}
	if s.Key != "" {
		names = append(names, "key")
	}
	if s.Type != "" {
		names = append(names, "type")
	}
	if s.Click != nil {
		names = append(names, "click")
	}
	if s.Drag != nil {
		names = append(names, "drag")
	}
	if s.Compact != nil {
		names = append(names, "compact")
	}
	switch len(names) {
	case 0:
		return "", fmt.Errorf("empty step")
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("step sets %v; use one action per step", names)
	}
}

// Parse decodes a script, rejecting unknown fields.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse replay: %w", err)
	}
	for i, step := range s.Steps {
		if _, err := step.action(); err != nil {
			return nil, fmt.Errorf("steps.%d: %w", i, err)
		}
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay %s: %w", path, err)
	}
	return Parse(data)
}

// Config builds the effective config of the script.
func (s *Script) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Startup = nil
	if s.BuiltinApps != nil && !*s.BuiltinApps {
		cfg.BuiltinApps = false
		cfg.Apps = nil
	}
	if s.FocusClickDrag != nil {
		cfg.FocusClickDrag = *s.FocusClickDrag
	}
	for _, app := range s.Apps {
		replaced := false
		for i := range cfg.Apps {
			if cfg.Apps[i].URL == app.URL {
				cfg.Apps[i] = app
				replaced = true
			}
		}
		if !replaced {
			cfg.Apps = append(cfg.Apps, app)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
