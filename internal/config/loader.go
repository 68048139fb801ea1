package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceKind says where an effective value came from.
type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
)

// Source locates a config value. Name is set for builtin and default
// values, File/Line/Column for values read from disk.
type Source struct {
	Kind   SourceKind
	Name   string
	File   string
	Line   int
	Column int
}

// LoadResult is an effective config plus where its values were written.
type LoadResult struct {
	Config *Config
	// Sources maps a YAML path to the last file position that set it.
	Sources map[string]Source
	// Files lists every loaded file, includes before their includer.
	Files []string
}

// LoadFromPath loads path and its includes on top of the defaults. A missing
// file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &loader{
		seen:    map[string]bool{},
		sources: map[string]Source{},
	}
	if _, err := os.Stat(path); err == nil {
		if err := l.load(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg, err := BuildEffectiveConfig(l.raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, withSource(err, l.sources)
	}
	return &LoadResult{Config: cfg, Sources: l.sources, Files: l.files}, nil
}

// loader merges files depth first: a file's includes in order, then the
// file itself on top. A file reached twice is merged once.
type loader struct {
	seen    map[string]bool
	stack   []string
	raw     RawConfig
	sources map[string]Source
	files   []string
}

func (l *loader) load(path string) error {
	file := canonical(path)
	if i := slices.Index(l.stack, file); i >= 0 {
		chain := append(slices.Clone(l.stack[i:]), file)
		return fmt.Errorf("include cycle detected: %s", strings.Join(chain, " -> "))
	}
	if l.seen[file] {
		return nil
	}
	l.seen[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("%s: failed to read: %w", file, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var raw RawConfig
	if err := decodeStrict(data, &raw); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	root := rootMapping(&doc)

	l.stack = append(l.stack, file)
	for _, inc := range includeNodes(root) {
		paths, err := expandInclude(file, inc.Value)
		if err != nil {
			return fmt.Errorf("%s:%d:%d: include %q: %w", file, inc.Line, inc.Column, inc.Value, err)
		}
		for _, p := range paths {
			if err := l.load(p); err != nil {
				return err
			}
		}
	}
	l.stack = l.stack[:len(l.stack)-1]

	l.raw = l.raw.merge(raw)
	recordSources(root, file, "", l.sources)
	l.files = append(l.files, file)
	return nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// canonical resolves symlinks when it can so a file is recognized however
// it was reached.
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

// expandInclude resolves an include relative to the including file. A
// directory expands to its .yaml and .yml files in name order.
func expandInclude(from, include string) ([]string, error) {
	if include == "" {
		return nil, fmt.Errorf("path is empty")
	}
	path := include
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(from), path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(path, ent.Name()))
			}
		}
	}
	return files, nil
}

func rootMapping(doc *yaml.Node) *yaml.Node {
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

// field returns the value node of key in a mapping.
func field(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// includeNodes returns the scalar nodes of the include key.
func includeNodes(root *yaml.Node) []*yaml.Node {
	inc := field(root, "include")
	if inc == nil {
		return nil
	}
	switch inc.Kind {
	case yaml.ScalarNode:
		return []*yaml.Node{inc}
	case yaml.SequenceNode:
		var out []*yaml.Node
		for _, item := range inc.Content {
			if item.Kind == yaml.ScalarNode {
				out = append(out, item)
			}
		}
		return out
	}
	return nil
}

// recordSources stores the position of every value below node under its
// dotted path. App entries are keyed apps[<url>] so includes that patch the
// same app share a path.
func recordSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	if node == nil {
		return
	}
	at := func(n *yaml.Node) Source {
		return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
	}
	join := func(key string) string {
		if prefix == "" {
			return key
		}
		return prefix + "." + key
	}

	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			path := join(node.Content[i].Value)
			val := node.Content[i+1]
			out[path] = at(val)
			recordSources(val, file, path, out)
		}
	case yaml.SequenceNode:
		if prefix != "" {
			out[prefix] = at(node)
		}
		for i, item := range node.Content {
			path := fmt.Sprintf("%s.%d", prefix, i)
			if url := field(item, "url"); prefix == "apps" && url != nil && url.Kind == yaml.ScalarNode && url.Value != "" {
				path = appPath(url.Value)
			}
			out[path] = at(item)
			if item.Kind == yaml.MappingNode {
				recordSources(item, file, path, out)
			}
		}
	}
}

// withSource attaches the file position of a validation error's path.
func withSource(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return err
}
