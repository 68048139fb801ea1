package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	compact_width
//	cell_width
//	cell_height
//	focus_click_drag
//	history_limit
//	builtin_apps
//	startup
//	logging.level
//	logging.file
//	logging.max_size_mb
//	logging.max_files
//	apps
//	apps[<url>]
//	apps[<url>].<field>
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	if strings.HasPrefix(path, "apps[") {
		url := appURLFromPath(path)
		for _, app := range BuiltinApps() {
			if app.URL == url {
				return value, Source{Kind: SourceBuiltin, Name: app.Name}, nil
			}
		}
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func appURLFromPath(path string) string {
	rest := strings.TrimPrefix(path, "apps[")
	end := strings.Index(rest, "]")
	if end < 0 {
		return ""
	}
	return rest[:end]
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "compact_width":
		return cfg.CompactWidth, nil
	case "cell_width":
		return cfg.CellWidth, nil
	case "cell_height":
		return cfg.CellHeight, nil
	case "focus_click_drag":
		return cfg.FocusClickDrag, nil
	case "history_limit":
		return cfg.HistoryLimit, nil
	case "builtin_apps":
		return cfg.BuiltinApps, nil
	case "startup":
		return cfg.Startup, nil
	case "logging.level":
		return cfg.Logging.Level, nil
	case "logging.file":
		return cfg.Logging.File, nil
	case "logging.max_size_mb":
		return cfg.Logging.MaxSizeMB, nil
	case "logging.max_files":
		return cfg.Logging.MaxFiles, nil
	case "apps":
		return cfg.Apps, nil
	}

	if !strings.HasPrefix(path, "apps[") {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	url := appURLFromPath(path)
	app, ok := cfg.AppByURL(url)
	if !ok {
		return nil, fmt.Errorf("unknown app: %s", url)
	}
	field := strings.TrimPrefix(strings.TrimPrefix(path, appPath(url)), ".")
	switch field {
	case "":
		return app, nil
	case "name":
		return app.Name, nil
	case "url":
		return app.URL, nil
	case "icon":
		return app.Icon, nil
	case "title":
		return app.Title, nil
	case "kind":
		return app.Kind, nil
	case "text":
		return app.Text, nil
	case "default_left":
		return app.DefaultLeft, nil
	case "default_top":
		return app.DefaultTop, nil
	case "default_width":
		return app.DefaultWidth, nil
	case "default_height":
		return app.DefaultHeight, nil
	case "no_toolbar":
		return app.NoToolbar, nil
	case "tabs":
		return app.Tabs, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
