// Package main is the entry point for the kilt editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/kilt/internal/app"
	"github.com/dshills/kilt/internal/config"
	"github.com/dshills/kilt/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// options is the parsed command line.
type options struct {
	path        string
	cfg         *config.Config
	readOnly    bool
	noWatch     bool
	showVersion bool
}

// flagKeys maps flags that override a configuration key to that key.
var flagKeys = map[string]string{
	"tab-width":   "editor.tab_width",
	"expand-tabs": "editor.expand_tabs",
	"column-mode": "editor.column_mode",
	"backend":     "buffer.backend",
	"keymap":      "keymap.file",
	"log-level":   "log.level",
	"log-file":    "log.file",
	"debug":       "debug",
}

// setFlags collects repeated -set key=value flags.
type setFlags []string

func (s *setFlags) String() string { return strings.Join(*s, ",") }

func (s *setFlags) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("kilt", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		opts       options
		configPath string
		sets       setFlags
	)
	fs.StringVar(&configPath, "config", "", "Path to configuration file (default "+config.DefaultPath()+")")
	fs.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	fs.Int("tab-width", 0, "Tab width in columns")
	fs.Bool("expand-tabs", false, "Insert spaces for Tab")
	fs.String("column-mode", "", "Column mode: scalar or display")
	fs.String("backend", "", "Buffer backend: lines or rope")
	fs.String("keymap", "", "Keybinding override file (YAML or TOML)")
	fs.String("log-level", "", "Log level (debug, info, warn, error)")
	fs.String("log-file", "", "Log file path")
	fs.Bool("debug", false, "Panic on internal consistency errors")
	fs.Var(&sets, "set", "Set a configuration key, as key=value (repeatable)")
	fs.BoolVar(&opts.readOnly, "readonly", false, "Open the file read-only")
	fs.BoolVar(&opts.readOnly, "R", false, "Open the file read-only (shorthand)")
	fs.BoolVar(&opts.noWatch, "no-watch", false, "Do not watch the file for external changes")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "kilt - terminal text editor\n\n")
		fmt.Fprintf(stderr, "Usage: kilt [options] [file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nConfiguration keys:\n")
		for _, key := range config.Keys() {
			fmt.Fprintf(stderr, "  %-24s %s\n", key, config.EnvVar(key))
		}
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.showVersion {
		return &opts, nil
	}
	switch fs.NArg() {
	case 0:
	case 1:
		opts.path = fs.Arg(0)
	default:
		return nil, fmt.Errorf("at most one file may be given, got %d", fs.NArg())
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// Flags given explicitly override the file and environment.
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || setErr != nil {
			return
		}
		setErr = cfg.Set(key, f.Value.String())
	})
	if setErr != nil {
		return nil, setErr
	}
	for _, pair := range sets {
		if err := cfg.SetPair(pair); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts.cfg = cfg
	return &opts, nil
}

func run(args []string) int {
	opts, err := parseArgs(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if opts.showVersion {
		fmt.Printf("kilt %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: kilt must be run in a terminal")
		return 1
	}

	logger, logFile, err := app.NewFileLogger(config.ExpandHome(opts.cfg.Log.File), app.ParseLogLevel(opts.cfg.Log.Level))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		logger = app.NullLogger
	} else {
		defer logFile.Close()
	}
	logger.Info("kilt %s starting", version)
	logger.Debug("configuration:\n%s", opts.cfg)

	tty, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open terminal: %v\n", err)
		return 1
	}
	// Run stops and closes the terminal; this covers the paths that never
	// start it.
	defer tty.Close()

	editor, err := app.New(app.Options{
		Path:     opts.path,
		Config:   opts.cfg,
		Backend:  tty,
		Logger:   logger,
		Watch:    !opts.noWatch,
		ReadOnly: opts.readOnly,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	err = editor.Run(ctx)
	m := editor.Metrics().Snapshot()
	logger.Info("session ended: %d frames, %d cells, %d saves (%d failed)",
		m.FrameCount, m.CellsWritten, m.Saves, m.SaveFailures)

	switch {
	case err == nil, errors.Is(err, app.ErrQuit):
		return 0
	case errors.Is(err, context.Canceled):
		logger.Warn("terminated by signal")
		return 1
	default:
		logger.Error("run: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
}
