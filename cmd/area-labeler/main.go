// Command area-labeler renders labelled map files and queries the
// labelling service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gogpu/gg"

	"github.com/ha1tch/area-labeler/pkg/config"
	"github.com/ha1tch/area-labeler/pkg/logging"
)

const usage = `area-labeler - curved labels for map areas

Usage:
  area-labeler <command> [options]

Commands:
  render     Render a map file to PNG or SVG
  demo       Render the built-in demo scene
  skeleton   Request skeleton edges for every area
  label      Request label placements for every area
  info       Show map file information
  watch      Re-render a map file whenever it changes

Common options:
  --config <path>   Settings file (default ~/.area-labeler.toml)
  --backend <url>   Labelling service address
  -W <px> -H <px>   Output size
  -v                Debug logging

Examples:
  area-labeler demo -o demo.png
  area-labeler render map.geojson -o map.svg --skeleton
  area-labeler label map.geojson --text "Lake" -o lake.png
  area-labeler watch map.geojson -o map.png

Use "area-labeler <command> -h" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "render":
		cmdRender(args)
	case "demo":
		cmdDemo(args)
	case "skeleton":
		cmdSkeleton(args)
	case "label":
		cmdLabel(args)
	case "info":
		cmdInfo(args)
	case "watch":
		cmdWatch(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

// options are the flags shared by all commands.
type options struct {
	input    string
	output   string
	cfgPath  string
	backend  string
	text     string
	width    int
	height   int
	skeleton bool
	verbose  bool
	help     bool
}

// parseArgs reads the common flags. The first bare argument is the input.
func parseArgs(args []string) (options, error) {
	var o options
	next := func(i *int, name string) (string, error) {
		if *i+1 >= len(args) {
			return "", fmt.Errorf("%s needs a value", name)
		}
		*i++
		return args[*i], nil
	}
	for i := 0; i < len(args); i++ {
		var err error
		switch a := args[i]; a {
		case "-o", "--output":
			o.output, err = next(&i, a)
		case "--config":
			o.cfgPath, err = next(&i, a)
		case "--backend":
			o.backend, err = next(&i, a)
		case "-t", "--text":
			o.text, err = next(&i, a)
		case "-W", "--width":
			var v string
			if v, err = next(&i, a); err == nil {
				o.width, err = strconv.Atoi(v)
			}
		case "-H", "--height":
			var v string
			if v, err = next(&i, a); err == nil {
				o.height, err = strconv.Atoi(v)
			}
		case "--skeleton":
			o.skeleton = true
		case "-v", "--verbose":
			o.verbose = true
		case "-h", "--help":
			o.help = true
		default:
			if len(a) > 1 && a[0] == '-' {
				return o, fmt.Errorf("unknown option %s", a)
			}
			if o.input != "" {
				return o, fmt.Errorf("unexpected argument %s", a)
			}
			o.input = a
		}
		if err != nil {
			return o, err
		}
	}
	return o, nil
}

// setup parses args, installs the logger and loads the settings. It
// exits on error or when help was requested.
func setup(args []string, cmdUsage string, needInput bool) (options, config.Config) {
	o, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n%s\n", err, cmdUsage)
		os.Exit(1)
	}
	if o.help {
		fmt.Println(cmdUsage)
		os.Exit(0)
	}
	if needInput && o.input == "" {
		fmt.Fprintln(os.Stderr, cmdUsage)
		os.Exit(1)
	}

	setupLogging(o.verbose)

	path := config.Path(o.cfgPath)
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config %s: %v\n", path, err)
		os.Exit(1)
	}
	if o.backend != "" {
		cfg.Backend.URL = o.backend
	}
	if o.width > 0 {
		cfg.Canvas.Width = o.width
	}
	if o.height > 0 {
		cfg.Canvas.Height = o.height
	}
	if o.text != "" {
		cfg.Label.Text = o.text
	}
	return o, cfg
}

func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logging.SetLogger(l)
	gg.SetLogger(l)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
