package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path string, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_ValidAndHasBuiltinApps(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	for _, url := range []string{"/about", "/notes", "/launcher", "/help"} {
		if _, ok := cfg.AppByURL(url); !ok {
			t.Fatalf("expected builtin app %q", url)
		}
	}
	if len(cfg.DesktopApps()) != len(cfg.Apps) {
		t.Fatalf("desktop catalog size mismatch")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.CompactWidth != 80 || !res.Config.FocusClickDrag {
		t.Fatalf("expected defaults, got %+v", res.Config)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.CellWidth != 8 || res.Config.CellHeight != 16 {
		t.Fatalf("expected 8x16 cells, got %dx%d", res.Config.CellWidth, res.Config.CellHeight)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_AppPatchAndAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
focus_click_drag: false
apps:
  - url: /notes
    default_width: 600
  - name: Todo
    url: /todo
    kind: notes
    default_left: 40
startup: [/todo]
`
	writeFile(t, path, strings.TrimSpace(data)+"\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.FocusClickDrag {
		t.Fatalf("expected focus_click_drag false")
	}
	notes, _ := cfg.AppByURL("/notes")
	if notes.DefaultWidth != 600 || notes.Name != "Notes" || notes.Kind != KindNotes {
		t.Fatalf("expected patched builtin notes, got %+v", notes)
	}
	todo, ok := cfg.AppByURL("/todo")
	if !ok || todo.DefaultLeft != 40 {
		t.Fatalf("expected appended todo app, got %+v", todo)
	}
	if len(cfg.Startup) != 1 || cfg.Startup[0] != "/todo" {
		t.Fatalf("startup = %v", cfg.Startup)
	}

	val, src, err := Explain(res, "apps[/notes].default_width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 600 || src.Kind != SourceFile || src.Line != 4 {
		t.Fatalf("explain = %#v from %#v, want 600 at line 4", val, src)
	}
	_, src, err = Explain(res, "apps[/about].name")
	if err != nil {
		t.Fatalf("explain about: %v", err)
	}
	if src.Kind != SourceBuiltin || src.Name != "About" {
		t.Fatalf("expected builtin source, got %#v", src)
	}
}

func TestLoadFromPath_NewAppRequiresKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "apps:\n  - name: X\n    url: /x\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) || !strings.HasSuffix(verr.Path, ".kind") {
		t.Fatalf("expected kind validation error, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := strings.Join([]string{
		"apps:",
		"  - name: Tiny",
		"    url: /tiny",
		"    kind: text",
		"    default_width: 100",
		"",
	}, "\n")
	writeFile(t, path, data)

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "apps[/tiny].default_width" {
		t.Fatalf("path = %q", verr.Path)
	}
	if verr.Source.Kind != SourceFile || verr.Source.Line != 5 {
		t.Fatalf("source = %#v, want line 5", verr.Source)
	}
	if !strings.HasPrefix(err.Error(), path+":5:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantPath string
	}{
		{"negative compact width", func(c *Config) { c.CompactWidth = -1 }, "compact_width"},
		{"zero cell width", func(c *Config) { c.CellWidth = 0 }, "cell_width"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"root url", func(c *Config) { c.Apps[0].URL = "/" }, "apps[/].url"},
		{"duplicate name", func(c *Config) { c.Apps[1].Name = c.Apps[0].Name }, "apps[/notes].name"},
		{"bad kind", func(c *Config) { c.Apps[0].Kind = "browser" }, "apps[/about].kind"},
		{"short height", func(c *Config) { c.Apps[0].DefaultHeight = 59 }, "apps[/about].default_height"},
		{"unknown startup", func(c *Config) { c.Startup = []string{"/nope"} }, "startup.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.wantPath {
				t.Fatalf("path = %q, want %q", verr.Path, tt.wantPath)
			}
		})
	}
}

func TestLoadFromPath_BuiltinAppsDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := strings.Join([]string{
		"builtin_apps: false",
		"apps:",
		"  - {name: Readme, url: /readme, kind: text, text: hello}",
		"",
	}, "\n")
	writeFile(t, path, data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Config.Apps) != 1 || res.Config.Apps[0].URL != "/readme" {
		t.Fatalf("apps = %+v, want only readme", res.Config.Apps)
	}
	if len(res.Config.Startup) != 0 {
		t.Fatalf("startup should be cleared with builtins, got %v", res.Config.Startup)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "compact_width: 60\ncell_width: 10\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "compact_width: 70\n")

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"include:",
		"  - config.d",
		"compact_width: 90",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.CompactWidth != 90 {
		t.Fatalf("expected compact_width 90, got %d", res.Config.CompactWidth)
	}
	if res.Config.CellWidth != 10 {
		t.Fatalf("expected cell_width from include, got %d", res.Config.CellWidth)
	}
	if len(res.Files) != 3 {
		t.Fatalf("files = %v, want 3", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil || !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.CompactWidth = 100
	cfg.Apps = append(cfg.Apps, App{Name: "Todo", URL: "/todo", Kind: KindNotes})
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load saved: %v", err)
	}
	if res.Config.CompactWidth != 100 {
		t.Fatalf("compact_width = %d", res.Config.CompactWidth)
	}
	if _, ok := res.Config.AppByURL("/todo"); !ok {
		t.Fatalf("saved app missing")
	}
	if len(res.Config.Apps) != len(cfg.Apps) {
		t.Fatalf("apps duplicated on reload: %d vs %d", len(res.Config.Apps), len(cfg.Apps))
	}
}

func TestResolvePath_Priority(t *testing.T) {
	t.Setenv(EnvConfigPath, "/from/env.yaml")
	got, err := ResolvePath("/from/flag.yaml")
	if err != nil || got != "/from/flag.yaml" {
		t.Fatalf("flag path = %q, %v", got, err)
	}
	got, err = ResolvePath("")
	if err != nil || got != "/from/env.yaml" {
		t.Fatalf("env path = %q, %v", got, err)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "compact_width: 50\n")

	changes := make(chan *LoadResult, 4)
	w := &Watcher{Path: path, Delay: 10 * time.Millisecond, OnChange: func(res *LoadResult) {
		changes <- res
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Serve(ctx) }()

	// Give the watcher time to register before the write.
	time.Sleep(50 * time.Millisecond)
	writeFile(t, path, "compact_width: 120\n")

	select {
	case res := <-changes:
		if res.Config.CompactWidth != 120 {
			t.Fatalf("compact_width = %d, want 120", res.Config.CompactWidth)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for reload")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Serve returned %v, want context.Canceled", err)
	}
}
