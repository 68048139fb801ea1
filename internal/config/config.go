package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/termdesk/internal/desktop"
	"github.com/1broseidon/termdesk/internal/geometry"
)

// EnvConfigPath overrides the config location.
const EnvConfigPath = "TERMDESK_CONFIG"

// AppKind selects the content hosted by an app window.
type AppKind string

const (
	KindAbout    AppKind = "about"    // Static description of the desktop.
	KindNotes    AppKind = "notes"    // Line editor driven by key events.
	KindLauncher AppKind = "launcher" // Filterable list of catalog apps.
	KindText     AppKind = "text"     // Static text from the app entry.
)

// Valid reports whether k is a known kind.
func (k AppKind) Valid() bool {
	switch k {
	case KindAbout, KindNotes, KindLauncher, KindText:
		return true
	}
	return false
}

// App is one catalog entry.
type App struct {
	Name          string   `yaml:"name"`
	URL           string   `yaml:"url"`
	Icon          string   `yaml:"icon,omitempty"`
	Title         string   `yaml:"title,omitempty"`
	Kind          AppKind  `yaml:"kind"`
	Text          string   `yaml:"text,omitempty"`
	DefaultLeft   int      `yaml:"default_left"`
	DefaultTop    int      `yaml:"default_top"`
	DefaultWidth  int      `yaml:"default_width"`
	DefaultHeight int      `yaml:"default_height"`
	NoToolbar     bool     `yaml:"no_toolbar,omitempty"`
	Tabs          []string `yaml:"tabs,omitempty"`
}

// Logging controls the log handler.
type Logging struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// Config is the effective configuration.
type Config struct {
	CompactWidth   int      `yaml:"compact_width"`
	CellWidth      int      `yaml:"cell_width"`
	CellHeight     int      `yaml:"cell_height"`
	FocusClickDrag bool     `yaml:"focus_click_drag"`
	HistoryLimit   int      `yaml:"history_limit"`
	BuiltinApps    bool     `yaml:"builtin_apps"`
	Apps           []App    `yaml:"apps"`
	Startup        []string `yaml:"startup"`
	Logging        Logging  `yaml:"logging"`
}

// DefaultConfig returns defaults including the builtin apps.
func DefaultConfig() *Config {
	return &Config{
		CompactWidth:   80,
		CellWidth:      8,
		CellHeight:     16,
		FocusClickDrag: true,
		HistoryLimit:   desktop.DefaultHistoryLimit,
		BuiltinApps:    true,
		Apps:           BuiltinApps(),
		Startup:        []string{"/about"},
		Logging: Logging{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
	}
}

// Validate checks the effective config.
func (c *Config) Validate() error {
	if c.CompactWidth < 0 {
		return &ValidationError{Path: "compact_width", Err: fmt.Errorf("compact_width must be >= 0")}
	}
	if c.CellWidth <= 0 {
		return &ValidationError{Path: "cell_width", Err: fmt.Errorf("cell_width must be > 0")}
	}
	if c.CellHeight <= 0 {
		return &ValidationError{Path: "cell_height", Err: fmt.Errorf("cell_height must be > 0")}
	}
	if c.HistoryLimit <= 0 {
		return &ValidationError{Path: "history_limit", Err: fmt.Errorf("history_limit must be > 0")}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}

	names := make(map[string]int, len(c.Apps))
	urls := make(map[string]int, len(c.Apps))
	for i, app := range c.Apps {
		path := appPath(app.URL)
		if strings.TrimSpace(app.Name) == "" {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("name is required")}
		}
		if !strings.HasPrefix(app.URL, "/") || app.URL == "/" {
			return &ValidationError{Path: path + ".url", Err: fmt.Errorf("url %q must start with / and name a window", app.URL)}
		}
		if prev, ok := names[app.Name]; ok {
			return &ValidationError{Path: path + ".name", Err: fmt.Errorf("duplicate app name %q (also %s)", app.Name, appPath(c.Apps[prev].URL))}
		}
		if prev, ok := urls[app.URL]; ok {
			return &ValidationError{Path: path + ".url", Err: fmt.Errorf("duplicate app url %q (entry %d)", app.URL, prev)}
		}
		names[app.Name] = i
		urls[app.URL] = i
		if !app.Kind.Valid() {
			return &ValidationError{Path: path + ".kind", Err: fmt.Errorf("kind must be one of: about, notes, launcher, text")}
		}
		if app.DefaultWidth != 0 && app.DefaultWidth < geometry.MinWidth {
			return &ValidationError{Path: path + ".default_width", Err: fmt.Errorf("default_width must be >= %d", geometry.MinWidth)}
		}
		if app.DefaultHeight != 0 && app.DefaultHeight < geometry.MinHeight {
			return &ValidationError{Path: path + ".default_height", Err: fmt.Errorf("default_height must be >= %d", geometry.MinHeight)}
		}
	}
	for i, url := range c.Startup {
		if _, ok := urls[url]; !ok {
			return &ValidationError{Path: fmt.Sprintf("startup.%d", i), Err: fmt.Errorf("unknown app url %q", url)}
		}
	}
	return nil
}

// appPath is the source path of an app entry. Entries are addressed by url
// because includes merge them by url, not by position.
func appPath(url string) string {
	return "apps[" + url + "]"
}

// AppByURL returns the catalog entry for url.
func (c *Config) AppByURL(url string) (App, bool) {
	for _, app := range c.Apps {
		if app.URL == url {
			return app, true
		}
	}
	return App{}, false
}

// DesktopApps converts the catalog for the window manager.
func (c *Config) DesktopApps() []desktop.App {
	out := make([]desktop.App, 0, len(c.Apps))
	for _, app := range c.Apps {
		out = append(out, desktop.App{
			Name:          app.Name,
			URL:           app.URL,
			Icon:          app.Icon,
			Title:         app.Title,
			Kind:          string(app.Kind),
			Text:          app.Text,
			DefaultLeft:   app.DefaultLeft,
			DefaultTop:    app.DefaultTop,
			DefaultWidth:  app.DefaultWidth,
			DefaultHeight: app.DefaultHeight,
			NoToolbar:     app.NoToolbar,
			Tabs:          app.Tabs,
		})
	}
	return out
}

// Metrics returns the cell metrics for hit-testing.
func (c *Config) Metrics() desktop.Metrics {
	return desktop.Metrics{CellWidth: c.CellWidth, CellHeight: c.CellHeight}
}

// Save writes the config as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// DefaultConfigPath returns ~/.config/termdesk/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "termdesk", "config.yaml"), nil
}

// ResolvePath picks the config path: an explicit flag value, then
// TERMDESK_CONFIG (a .env file in the working directory is honored), then
// the default location.
func ResolvePath(flagValue string) (string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue, nil
	}
	// A missing .env is the common case.
	_ = godotenv.Load()
	if env := strings.TrimSpace(os.Getenv(EnvConfigPath)); env != "" {
		return env, nil
	}
	return DefaultConfigPath()
}

// Load reads the configuration from the resolved default location.
func Load() (*Config, error) {
	res, err := LoadWithSources("")
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources resolves path like ResolvePath and loads it.
func LoadWithSources(flagValue string) (*LoadResult, error) {
	path, err := ResolvePath(flagValue)
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}
