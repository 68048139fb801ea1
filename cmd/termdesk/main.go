package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/logging"
	"github.com/1broseidon/termdesk/internal/runtimepath"
	"github.com/1broseidon/termdesk/internal/supervise"
	"github.com/1broseidon/termdesk/internal/tui"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runDesktop(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "window":
		os.Exit(runWindow(os.Args[2:]))
	case "compact":
		os.Exit(runCompact(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "app":
		os.Exit(runApp(os.Args[2:]))
	case "replay":
		os.Exit(runReplay(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "version", "--version":
		fmt.Println(version)
		os.Exit(0)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: termdesk <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the desktop in this terminal")
	fmt.Fprintln(w, "  status              Show desktop status")
	fmt.Fprintln(w, "  reload              Reload the desktop configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  window list         List open windows")
	fmt.Fprintln(w, "  window open         Open or focus an app window")
	fmt.Fprintln(w, "  window focus        Focus a window")
	fmt.Fprintln(w, "  window close        Close a window")
	fmt.Fprintln(w, "  window minimize     Minimize a window")
	fmt.Fprintln(w, "  window maximize     Toggle maximize on a window")
	fmt.Fprintln(w, "  window move         Move a window by a delta")
	fmt.Fprintln(w, "  window resize       Resize a window from an edge")
	fmt.Fprintln(w, "  compact on|off      Force the compact layout")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config path         Print the resolved config path")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  app add             Add an app to the catalog interactively")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  replay <file>       Run a gesture script headless")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  version             Print the version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'termdesk <command> --help' for command-specific options.")
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runDesktop(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/termdesk/config.yaml)")
	debug := fs.Bool("debug", false, "Log at debug level")
	noIPC := fs.Bool("no-ipc", false, "Do not listen on the control socket")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk run [--path PATH] [--debug] [--no-ipc]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the desktop. Logs go to a rotating file because the terminal")
		fmt.Fprintln(os.Stderr, "belongs to the desktop. Ctrl+L opens the launcher, Ctrl+C quits.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
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
	if err := tui.CheckTerminal(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger, closer, err := logging.Setup(res.Config.Logging, *debug, true, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closer.Close()
	logger.Info("termdesk starting", "version", version, "config", cfgPath, "files", len(res.Files))

	ctx, cancel := signalContext()
	defer cancel()

	session := tui.NewSession(ctx, tui.Options{
		Config:  res.Config,
		Logger:  logger,
		Version: version,
	})

	reload := func(ctx context.Context) error {
		r, err := config.LoadFromPath(cfgPath)
		if err != nil {
			return err
		}
		session.Reload(r.Config)
		return nil
	}

	tree := supervise.New("termdesk", logger)
	tree.Add(&config.Watcher{
		Path:   cfgPath,
		Logger: logger,
		OnChange: func(r *config.LoadResult) {
			session.Reload(r.Config)
		},
	})
	tree.Add(supervise.NewFunc("sighup-reload", func(ctx context.Context) error {
		return reloadOnHangup(ctx, reload, logger)
	}))

	if !*noIPC {
		socket, err := runtimepath.SocketPath()
		if err != nil {
			logger.Error("control socket unavailable", "error", err)
			return 1
		}
		tree.Add(ipc.NewServer(socket, session.Dispatcher(), reload, logger))
	}

	treeCtx, stopTree := context.WithCancel(ctx)
	treeDone := tree.Start(treeCtx)

	runErr := session.Run()
	stopTree()
	if err := <-treeDone; err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("background services stopped", "error", err)
	}
	if runErr != nil {
		logger.Error("desktop failed", "error", runErr)
		fmt.Fprintln(os.Stderr, runErr)
		return 1
	}
	logger.Info("termdesk stopped")
	return 0
}

// reloadOnHangup reloads the config each time the process gets SIGHUP.
func reloadOnHangup(ctx context.Context, reload func(context.Context) error, logger *slog.Logger) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-hup:
			if err := reload(ctx); err != nil {
				logger.Warn("reload on SIGHUP failed", "error", err)
				continue
			}
			logger.Info("config reloaded on SIGHUP")
		}
	}
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show desktop status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(status)
	}
	focused := status.Focused
	if focused == "" {
		focused = "-"
	}
	fmt.Printf("windows:        %d\n", status.Windows)
	fmt.Printf("focused:        %s\n", focused)
	fmt.Printf("compact:        %v\n", status.Compact)
	fmt.Printf("location:       %s\n", status.Location)
	fmt.Printf("listeners:      %d\n", status.Listeners)
	fmt.Printf("apps:           %d\n", status.Apps)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	fmt.Printf("pid:            %d\n", status.PID)
	return 0
}

func runReload(args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "Usage: termdesk reload")
		if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
			return 0
		}
		return 2
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("reloaded")
	return 0
}

func runCompact(args []string) int {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		fmt.Fprintln(os.Stderr, "Usage: termdesk compact on|off")
		if len(args) == 1 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
			return 0
		}
		return 2
	}
	if err := ipc.NewClient().SetCompact(args[0] == "on"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
