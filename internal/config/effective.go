package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	cfg.CompactWidth = derefInt(raw.CompactWidth, cfg.CompactWidth)
	cfg.CellWidth = derefInt(raw.CellWidth, cfg.CellWidth)
	cfg.CellHeight = derefInt(raw.CellHeight, cfg.CellHeight)
	cfg.HistoryLimit = derefInt(raw.HistoryLimit, cfg.HistoryLimit)
	if raw.FocusClickDrag != nil {
		cfg.FocusClickDrag = *raw.FocusClickDrag
	}
	if raw.BuiltinApps != nil {
		cfg.BuiltinApps = *raw.BuiltinApps
	}
	if !cfg.BuiltinApps {
		cfg.Apps = nil
		cfg.Startup = nil
	}
	if raw.Startup != nil {
		cfg.Startup = append([]string{}, raw.Startup...)
	}

	if raw.Logging.Level != nil {
		cfg.Logging.Level = *raw.Logging.Level
	}
	if raw.Logging.File != nil {
		cfg.Logging.File = *raw.Logging.File
	}
	cfg.Logging.MaxSizeMB = derefInt(raw.Logging.MaxSizeMB, cfg.Logging.MaxSizeMB)
	cfg.Logging.MaxFiles = derefInt(raw.Logging.MaxFiles, cfg.Logging.MaxFiles)

	apps, err := applyApps(cfg.Apps, raw.Apps)
	if err != nil {
		return nil, err
	}
	cfg.Apps = apps
	return cfg, nil
}

// applyApps patches existing entries by url and appends new ones. A new
// entry must name its kind.
func applyApps(base []App, raw []RawApp) ([]App, error) {
	out := append([]App(nil), base...)
	for i, patch := range raw {
		if patch.URL == "" {
			return nil, &ValidationError{Path: fmt.Sprintf("apps.%d.url", i), Err: fmt.Errorf("url is required")}
		}
		idx := -1
		for j := range out {
			if out[j].URL == patch.URL {
				idx = j
				break
			}
		}
		if idx < 0 {
			if patch.Kind == nil {
				return nil, &ValidationError{Path: fmt.Sprintf("apps.%d.kind", i), Err: fmt.Errorf("kind is required for new app %q", patch.URL)}
			}
			out = append(out, App{URL: patch.URL})
			idx = len(out) - 1
		}
		out[idx] = patchApp(out[idx], patch)
	}
	return out, nil
}

func patchApp(app App, patch RawApp) App {
	if patch.Name != nil {
		app.Name = *patch.Name
	}
	if patch.Icon != nil {
		app.Icon = *patch.Icon
	}
	if patch.Title != nil {
		app.Title = *patch.Title
	}
	if patch.Kind != nil {
		app.Kind = *patch.Kind
	}
	if patch.Text != nil {
		app.Text = *patch.Text
	}
	app.DefaultLeft = derefInt(patch.DefaultLeft, app.DefaultLeft)
	app.DefaultTop = derefInt(patch.DefaultTop, app.DefaultTop)
	app.DefaultWidth = derefInt(patch.DefaultWidth, app.DefaultWidth)
	app.DefaultHeight = derefInt(patch.DefaultHeight, app.DefaultHeight)
	if patch.NoToolbar != nil {
		app.NoToolbar = *patch.NoToolbar
	}
	if patch.Tabs != nil {
		app.Tabs = append([]string(nil), patch.Tabs...)
	}
	return app
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
