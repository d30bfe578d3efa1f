// Package main is the entry point for the vflow terminal viewer.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/vflow/internal/config"
	"github.com/dshills/vflow/internal/logging"
	"github.com/dshills/vflow/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the command line.
type options struct {
	ConfigPath string
	StorePath  string
	Wrap       bool
	Theme      string
	Language   string
	LogLevel   string
	LogFile    string
	DumpConfig bool
	Path       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	applyFlags(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.DumpConfig {
		data, err := cfg.TOML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		os.Stdout.Write(data)
		return 0
	}

	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	v, err := newViewer(cfg, log, term, opts.Path, opts.StorePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer v.Close()

	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer term.Shutdown()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		v.Quit()
	}()

	if err := v.Run(); err != nil && !errors.Is(err, errQuit) {
		term.Shutdown()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.StorePath, "store", "", "Import the file into a SQLite store and view it from there")
	flag.BoolVar(&opts.Wrap, "wrap", false, "Wrap paragraphs at the window width")
	flag.StringVar(&opts.Theme, "theme", "", "Highlighting theme (chroma style name)")
	flag.StringVar(&opts.Language, "lang", "", "Highlighting language (default: detect)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error, disabled)")
	flag.StringVar(&opts.LogFile, "log-file", "", "Log file path")
	flag.BoolVar(&opts.DumpConfig, "dump-config", false, "Print the effective configuration as TOML and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "vflow - virtualized paragraph viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: vflow [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  arrows, Home/End, PgUp/PgDn  move the caret and scroll\n")
		fmt.Fprintf(os.Stderr, "  Shift+arrows                 extend the selection\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-T / Ctrl-B              document top / bottom\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-W                       toggle wrapping\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-L                       toggle line numbers\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-S                       save\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-Q                       quit\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("vflow %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if args := flag.Args(); len(args) > 0 {
		opts.Path = args[0]
	}
	return opts
}

// applyFlags overrides configuration with explicitly set flags.
func applyFlags(cfg *config.Config, opts options) {
	if opts.Wrap {
		cfg.Viewport.WrapText = true
	}
	if opts.Theme != "" {
		cfg.Highlight.Theme = opts.Theme
	}
	if opts.Language != "" {
		cfg.Highlight.Language = opts.Language
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFile != "" {
		cfg.Log.File = opts.LogFile
		if opts.LogLevel == "" && cfg.Log.Level == "disabled" {
			cfg.Log.Level = "info"
		}
	}
}
