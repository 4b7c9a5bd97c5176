package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pthm/propview/lib/generator"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "generate":
		err = runGenerate(args)
	case "clean":
		err = runClean(args)
	case "check":
		err = runCheck(args)
	case "inspect":
		err = runInspect(os.Stdout, args)
	case "version":
		fmt.Printf("propview version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`propview - property record compiler for Go views

Usage:
  propview <command> [arguments]

Commands:
  generate [packages]   Generate Render methods for property records (e.g., ./... or ./components/...)
  clean [packages]      Remove generated files (*_view.go)
  check [packages]      Fail when generated files are missing or out of date
  inspect [packages]    Print the render plan of every record
  version               Print version
  help                  Show this help

Options:
  --dry-run             Show what would be written or removed without touching files
  -v                    Verbose logging

Packages default to the packages listed in propview.yaml, then ./... .

Examples:
  propview generate ./...                 Generate for all packages
  propview generate ./components/card     Generate for specific package
  propview generate --dry-run ./...       Preview generation
  propview inspect ./components/...       Show how records are classified
  propview check ./...                    Verify generated files in CI
  propview clean ./...                    Remove all generated files`)
}

type flags struct {
	dryRun   bool
	verbose  bool
	patterns []string
}

func parseFlags(args []string) flags {
	var f flags
	for _, arg := range args {
		switch arg {
		case "--dry-run":
			f.dryRun = true
		case "-v", "--verbose":
			f.verbose = true
		default:
			f.patterns = append(f.patterns, arg)
		}
	}
	return f
}

// setup resolves propview.yaml from the working directory and builds a
// generator whose progress lines go to stdout.
func setup(args []string) (*generator.Generator, []string, error) {
	f := parseFlags(args)

	wd, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	resolved, err := generator.Resolve(wd)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}

	opts := resolved.Options()
	opts.Dir = wd
	opts.DryRun = f.dryRun
	opts.Logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	return generator.New(opts), resolved.Patterns(f.patterns), nil
}

func runGenerate(args []string) error {
	gen, patterns, err := setup(args)
	if err != nil {
		return err
	}
	return gen.Generate(patterns...)
}

func runClean(args []string) error {
	gen, patterns, err := setup(args)
	if err != nil {
		return err
	}
	return gen.Clean(patterns...)
}

func runCheck(args []string) error {
	gen, patterns, err := setup(args)
	if err != nil {
		return err
	}
	stale, err := gen.Check(patterns...)
	if err != nil {
		return err
	}
	if len(stale) > 0 {
		return fmt.Errorf("%d generated file(s) out of date, run propview generate", len(stale))
	}
	return nil
}

func runInspect(w io.Writer, args []string) error {
	gen, patterns, err := setup(args)
	if err != nil {
		return err
	}
	recs, err := gen.Inspect(patterns...)
	if err != nil {
		return err
	}

	cfg := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
	for _, r := range recs {
		fmt.Fprintf(w, "%s (%s)\n", r.TypeName, r.SourceFile)
		for _, s := range r.Plan.Steps() {
			if s.Binding == nil {
				fmt.Fprintf(w, "  %-9s\n", s.Op)
				continue
			}
			fmt.Fprintf(w, "  %-9s %-12s %s\n", s.Op, s.Binding.Field, s.Binding.Name)
		}
		cfg.Fdump(w, r.Plan)
	}
	return nil
}
