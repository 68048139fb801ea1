package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawApp is an app entry as written. Entries are keyed by url; a later file
// patches only the fields it sets.
type RawApp struct {
	Name          *string  `yaml:"name"`
	URL           string   `yaml:"url"`
	Icon          *string  `yaml:"icon"`
	Title         *string  `yaml:"title"`
	Kind          *AppKind `yaml:"kind"`
	Text          *string  `yaml:"text"`
	DefaultLeft   *int     `yaml:"default_left"`
	DefaultTop    *int     `yaml:"default_top"`
	DefaultWidth  *int     `yaml:"default_width"`
	DefaultHeight *int     `yaml:"default_height"`
	NoToolbar     *bool    `yaml:"no_toolbar"`
	Tabs          []string `yaml:"tabs"`
}

type RawLogging struct {
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawConfig struct {
	Include        IncludeList `yaml:"include"`
	CompactWidth   *int        `yaml:"compact_width"`
	CellWidth      *int        `yaml:"cell_width"`
	CellHeight     *int        `yaml:"cell_height"`
	FocusClickDrag *bool       `yaml:"focus_click_drag"`
	HistoryLimit   *int        `yaml:"history_limit"`
	BuiltinApps    *bool       `yaml:"builtin_apps"`
	Apps           []RawApp    `yaml:"apps"`
	Startup        []string    `yaml:"startup"`
	Logging        RawLogging  `yaml:"logging"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil

	if overlay.CompactWidth != nil {
		out.CompactWidth = overlay.CompactWidth
	}
	if overlay.CellWidth != nil {
		out.CellWidth = overlay.CellWidth
	}
	if overlay.CellHeight != nil {
		out.CellHeight = overlay.CellHeight
	}
	if overlay.FocusClickDrag != nil {
		out.FocusClickDrag = overlay.FocusClickDrag
	}
	if overlay.HistoryLimit != nil {
		out.HistoryLimit = overlay.HistoryLimit
	}
	if overlay.BuiltinApps != nil {
		out.BuiltinApps = overlay.BuiltinApps
	}
	if overlay.Startup != nil {
		out.Startup = append([]string(nil), overlay.Startup...)
	}
	out.Logging = mergeRawLogging(c.Logging, overlay.Logging)
	out.Apps = mergeRawApps(c.Apps, overlay.Apps)
	return out
}

func mergeRawLogging(base RawLogging, overlay RawLogging) RawLogging {
	out := base
	if overlay.Level != nil {
		out.Level = overlay.Level
	}
	if overlay.File != nil {
		out.File = overlay.File
	}
	if overlay.MaxSizeMB != nil {
		out.MaxSizeMB = overlay.MaxSizeMB
	}
	if overlay.MaxFiles != nil {
		out.MaxFiles = overlay.MaxFiles
	}
	return out
}

func mergeRawApps(base []RawApp, overlay []RawApp) []RawApp {
	out := append([]RawApp(nil), base...)
	for _, patch := range overlay {
		idx := -1
		for i := range out {
			if out[i].URL == patch.URL {
				idx = i
				break
			}
		}
		if idx < 0 {
			out = append(out, patch)
			continue
		}
		out[idx] = mergeRawApp(out[idx], patch)
	}
	return out
}

func mergeRawApp(base RawApp, overlay RawApp) RawApp {
	out := base
	if overlay.Name != nil {
		out.Name = overlay.Name
	}
	if overlay.Icon != nil {
		out.Icon = overlay.Icon
	}
	if overlay.Title != nil {
		out.Title = overlay.Title
	}
	if overlay.Kind != nil {
		out.Kind = overlay.Kind
	}
	if overlay.Text != nil {
		out.Text = overlay.Text
	}
	if overlay.DefaultLeft != nil {
		out.DefaultLeft = overlay.DefaultLeft
	}
	if overlay.DefaultTop != nil {
		out.DefaultTop = overlay.DefaultTop
	}
	if overlay.DefaultWidth != nil {
		out.DefaultWidth = overlay.DefaultWidth
	}
	if overlay.DefaultHeight != nil {
		out.DefaultHeight = overlay.DefaultHeight
	}
	if overlay.NoToolbar != nil {
		out.NoToolbar = overlay.NoToolbar
	}
	if overlay.Tabs != nil {
		out.Tabs = append([]string(nil), overlay.Tabs...)
	}
	return out
}
