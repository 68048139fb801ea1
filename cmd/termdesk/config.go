package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/geometry"
)

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  termdesk config validate [--path PATH]")
	fmt.Fprintln(w, "  termdesk config print [--path PATH] [--effective|--defaults]")
	fmt.Fprintln(w, "  termdesk config path [--path PATH]")
	fmt.Fprintln(w, "  termdesk config explain [--path PATH] <yaml.path>")
}

func loadConfig(path string) (*config.LoadResult, error) {
	p, err := config.ResolvePath(path)
	if err != nil {
		return nil, err
	}
	return config.LoadFromPath(p)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(os.Stderr)
		return 2
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/termdesk/config.yaml)")

	switch args[0] {
	case "validate":
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("config: ok (%d apps, %d files)\n", len(res.Config.Apps), len(res.Files))
		return 0

	case "print":
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printEffective := fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			_ = printEffective // default
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "path":
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		p, err := config.ResolvePath(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(p)
		return 0

	case "explain":
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceBuiltin:
		if src.Name != "" {
			return "builtin:" + src.Name
		}
		return "builtin"
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}

func runApp(args []string) int {
	if len(args) == 0 || args[0] != "add" {
		fmt.Fprintln(os.Stderr, "Usage: termdesk app add [--path PATH]")
		if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
			return 0
		}
		return 2
	}

	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/termdesk/config.yaml)")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	cfgPath, err := config.ResolvePath(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	res, err := config.LoadFromPath(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config

	app, err := promptApp(cfg)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return 1
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg.Apps = append(cfg.Apps, app)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := cfg.Save(cfgPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("added %s (%s) to %s\n", app.Name, app.URL, cfgPath)
	return 0
}

// promptApp asks for a new catalog entry. Names and urls already in cfg
// are refused by the field validators.
func promptApp(cfg *config.Config) (config.App, error) {
	var (
		name   string
		url    string
		title  string
		kind   = string(config.KindText)
		text   string
		width  = "480"
		height = "320"
	)

	kindOpts := []huh.Option[string]{
		huh.NewOption("text", string(config.KindText)),
		huh.NewOption("notes", string(config.KindNotes)),
		huh.NewOption("about", string(config.KindAbout)),
		huh.NewOption("launcher", string(config.KindLauncher)),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&name).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return fmt.Errorf("name is required")
					}
					for _, a := range cfg.Apps {
						if a.Name == s {
							return fmt.Errorf("app %q already exists", s)
						}
					}
					return nil
				}),
			huh.NewInput().
				Title("URL").
				Description("Path starting with /, e.g. /todo").
				Value(&url).
				Validate(func(s string) error {
					if !strings.HasPrefix(s, "/") || s == "/" {
						return fmt.Errorf("url must start with / and name a window")
					}
					if _, ok := cfg.AppByURL(s); ok {
						return fmt.Errorf("url %s already exists", s)
					}
					return nil
				}),
			huh.NewInput().
				Title("Title").
				Description("Toolbar title (defaults to the name)").
				Value(&title),
			huh.NewSelect[string]().
				Title("Kind").
				Options(kindOpts...).
				Value(&kind),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Text").
				Description("Shown by text windows").
				Value(&text),
			huh.NewInput().
				Title("Width").
				Value(&width).
				Validate(minSize(geometry.MinWidth)),
			huh.NewInput().
				Title("Height").
				Value(&height).
				Validate(minSize(geometry.MinHeight)),
		),
	)
	if err := form.Run(); err != nil {
		return config.App{}, err
	}

	w, _ := strconv.Atoi(strings.TrimSpace(width))
	h, _ := strconv.Atoi(strings.TrimSpace(height))
	return config.App{
		Name:          strings.TrimSpace(name),
		URL:           url,
		Title:         strings.TrimSpace(title),
		Kind:          config.AppKind(kind),
		Text:          text,
		DefaultWidth:  w,
		DefaultHeight: h,
	}, nil
}

func minSize(least int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("must be a number")
		}
		if n < least {
			return fmt.Errorf("must be >= %d", least)
		}
		return nil
	}
}
