package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/1broseidon/termdesk/internal/ipc"
)

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  termdesk window list [--json]")
	fmt.Fprintln(w, "  termdesk window open <url>")
	fmt.Fprintln(w, "  termdesk window focus|close|minimize|maximize <id>")
	fmt.Fprintln(w, "  termdesk window move <id> <dx> <dy>")
	fmt.Fprintln(w, "  termdesk window resize [--edges EDGES] <id> <dx> <dy>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Deltas are layout units. EDGES is a dash-separated edge set such as")
	fmt.Fprintln(w, "right, bottom or top-left.")
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}

	client := ipc.NewClient()
	switch args[0] {
	case "list":
		return runWindowList(client, args[1:])
	case "open":
		if len(args) != 2 {
			printWindowUsage(os.Stderr)
			return 2
		}
		id, err := client.Open(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(id)
		return 0
	case "focus", "close", "minimize", "maximize":
		if len(args) != 2 {
			printWindowUsage(os.Stderr)
			return 2
		}
		return runWindowAction(client, args[0], args[1])
	case "move":
		if len(args) != 4 {
			printWindowUsage(os.Stderr)
			return 2
		}
		dx, dy, err := parseDelta(args[2], args[3])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		rect, err := client.Move(args[1], dx, dy)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(rect)
		return 0
	case "resize":
		fs := flag.NewFlagSet("resize", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		edges := fs.String("edges", "bottom-right", "Edges to drag")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() != 3 {
			printWindowUsage(os.Stderr)
			return 2
		}
		dx, dy, err := parseDelta(fs.Arg(1), fs.Arg(2))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		rect, err := client.Resize(fs.Arg(0), *edges, dx, dy)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(rect)
		return 0
	case "help", "-h", "--help":
		printWindowUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown window subcommand: %s\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
}

func runWindowList(client *ipc.Client, args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	windows, err := client.ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return printJSON(windows)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tURL\tTITLE\tRECT\tSTATE")
	for _, w := range windows {
		state := "normal"
		switch {
		case w.Minimized:
			state = "minimized"
		case w.Maximized:
			state = "maximized"
		}
		if w.Focused {
			state += ",focused"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", w.ID, w.URL, w.Title, w.Rect, state)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindowAction(client *ipc.Client, action, id string) int {
	var err error
	switch action {
	case "focus":
		err = client.Focus(id)
	case "close":
		err = client.Close(id)
	case "minimize":
		err = client.Minimize(id)
	case "maximize":
		var maximized bool
		maximized, err = client.Maximize(id)
		if err == nil {
			fmt.Printf("maximized: %v\n", maximized)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func parseDelta(xs, ys string) (int, int, error) {
	var dx, dy int
	if _, err := fmt.Sscan(xs, &dx); err != nil {
		return 0, 0, fmt.Errorf("invalid dx %q", xs)
	}
	if _, err := fmt.Sscan(ys, &dy); err != nil {
		return 0, 0, fmt.Errorf("invalid dy %q", ys)
	}
	return dx, dy, nil
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
