// Package main is the entry point for the spanedit annotation widget.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spanlab/spanedit/internal/app"
	"github.com/spanlab/spanedit/internal/host"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, docPath, outPath := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	doc, err := loadDocument(docPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	application.LoadDocument(doc)

	// Stream every committed span set to the output as JSON lines. The
	// last line is always the final state.
	out := os.Stdout
	if outPath != "" && outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: creating output %s: %v\n", outPath, err)
			return 1
		}
		defer f.Close()
		out = f
	}
	writer := host.NewWriter(out)
	if err := application.AttachHost(writer); err != nil {
		fmt.Fprintf(os.Stderr, "Error: attaching host: %v\n", err)
		return 1
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := writer.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: writing output: %v\n", err)
		return 1
	}
	return 0
}

func loadDocument(path string) (*host.Document, error) {
	if path == "" || path == "-" {
		return host.ReadDocument(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return host.ReadDocument(f)
}

func parseFlags() (opts app.Options, docPath, outPath string) {
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to TOML configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to TOML configuration file (shorthand)")
	flag.StringVar(&opts.RulesPath, "rules", "", "Path to Lua label-rules script")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.Watch, "watch", false, "Reload configuration on change")
	flag.StringVar(&outPath, "o", "", "Output path for span emissions (default stdout)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Spanedit - interactive text-span annotation\n\n")
		fmt.Fprintf(os.Stderr, "Usage: spanedit [options] [document.json]\n\n")
		fmt.Fprintf(os.Stderr, "The document is JSON: {\"text\": \"...\", \"spans\": [{\"start\",\"end\",\"label\"}]}\n")
		fmt.Fprintf(os.Stderr, "Reads stdin when no document path is given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  spanedit -c labels.toml doc.json\n")
		fmt.Fprintf(os.Stderr, "  spanedit -c labels.toml -o spans.jsonl doc.json\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Spanedit %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		os.Exit(0)
	}

	if opts.LogLevel != "" {
		switch opts.LogLevel {
		case "debug", "info", "warn", "error":
		default:
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
			os.Exit(1)
		}
	}

	if args := flag.Args(); len(args) > 0 {
		docPath = args[0]
	}
	return opts, docPath, outPath
}
