package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/termdesk/internal/config"
	"github.com/1broseidon/termdesk/internal/logging"
	"github.com/1broseidon/termdesk/internal/replay"
)

func runReplay(args []string) int {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	debug := fs.Bool("debug", false, "Log every step")
	quiet := fs.Bool("quiet", false, "Only report failures")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: termdesk replay [--debug] [--quiet] <file>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run a gesture script against a headless desktop, print the final")
		fmt.Fprintln(os.Stderr, "window state and check the script's expect block.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	script, err := replay.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger, closer, err := logging.Setup(config.DefaultConfig().Logging, *debug, false, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closer.Close()

	ctx, cancel := signalContext()
	defer cancel()

	res, err := replay.Run(ctx, script, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !*quiet {
		if code := printJSON(res.Windows); code != 0 {
			return code
		}
	}
	for _, f := range res.Failures {
		fmt.Fprintln(os.Stderr, "FAIL", f)
	}
	if !res.OK() {
		return 1
	}
	return 0
}
