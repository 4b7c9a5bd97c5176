package generator

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pthm/propview/lib/plan"
	"golang.org/x/tools/go/packages"
)

// DefaultSuffix is appended to a source file's base name to name its
// generated file.
const DefaultSuffix = "_view.go"

// Options configures the generator.
type Options struct {
	DryRun bool
	// Dir is the working directory for package patterns.
	Dir string
	// Suffix names generated files. Defaults to DefaultSuffix.
	Suffix string
	// Plan tunes record classification.
	Plan   plan.Options
	Logger *slog.Logger
}

// Generator writes Render methods for property records.
type Generator struct {
	opts Options
	log  *slog.Logger
}

// New creates a new generator.
func New(opts Options) *Generator {
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Generator{opts: opts, log: log}
}

// loadMode is what classification needs from go/packages.
const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Generate generates code for the given package patterns.
func (g *Generator) Generate(patterns ...string) error {
	pkgs, err := g.load(patterns)
	if err != nil {
		return err
	}

	for _, pkg := range pkgs {
		if err := g.generatePackage(pkg); err != nil {
			return fmt.Errorf("package %s: %w", pkg.PkgPath, err)
		}
	}

	return nil
}

// Inspect classifies the records in the given packages without writing
// anything.
func (g *Generator) Inspect(patterns ...string) ([]*RecordInfo, error) {
	pkgs, err := g.load(patterns)
	if err != nil {
		return nil, err
	}

	var out []*RecordInfo
	for _, pkg := range pkgs {
		files, err := g.scanPackage(pkg)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", pkg.PkgPath, err)
		}
		for _, f := range files {
			out = append(out, f.Records...)
		}
	}
	return out, nil
}

// Check reports the generated files that are missing or differ from what
// Generate would write. Nothing is written.
func (g *Generator) Check(patterns ...string) ([]string, error) {
	pkgs, err := g.load(patterns)
	if err != nil {
		return nil, err
	}

	var stale []string
	for _, pkg := range pkgs {
		files, err := g.scanPackage(pkg)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", pkg.PkgPath, err)
		}
		for _, f := range files {
			path := g.outputPath(f.SourceFile)
			want, err := g.source(pkg.Name, f)
			if err != nil {
				return nil, fmt.Errorf("package %s: %w", pkg.PkgPath, err)
			}
			got, err := os.ReadFile(path)
			if err != nil || !bytes.Equal(got, want) {
				g.log.Info("stale", "file", path)
				stale = append(stale, path)
			}
		}
	}
	return stale, nil
}

// Clean removes generated files for the given package patterns.
func (g *Generator) Clean(patterns ...string) error {
	dirs, err := g.findPackages(patterns)
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		if err := g.cleanPackage(dir); err != nil {
			return fmt.Errorf("package %s: %w", dir, err)
		}
	}

	return nil
}

func (g *Generator) load(patterns []string) ([]*packages.Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	cfg := &packages.Config{
		Mode: loadMode,
		Dir:  g.opts.Dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	// Records are often referenced through Render methods that do not exist
	// until this run writes them, so type errors are expected and only
	// logged. Classification falls back to syntax where types are missing.
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Kind == packages.TypeError {
				g.log.Debug("type error", "package", pkg.PkgPath, "error", e.Msg)
				continue
			}
			return nil, fmt.Errorf("package %s: %s", pkg.PkgPath, e.Msg)
		}
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })
	return pkgs, nil
}

// generatePackage generates code for a single package.
func (g *Generator) generatePackage(pkg *packages.Package) error {
	files, err := g.scanPackage(pkg)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := g.generateFile(pkg.Name, f); err != nil {
			return err
		}
	}
	return nil
}

// scanPackage finds and compiles every record in pkg, grouped by source
// file.
func (g *Generator) scanPackage(pkg *packages.Package) ([]*FileInfo, error) {
	var files []*FileInfo
	for _, file := range pkg.Syntax {
		filename := pkg.Fset.Position(file.Package).Filename
		if strings.HasSuffix(filename, g.opts.Suffix) {
			continue
		}
		s := newScanner(file, pkg.TypesInfo)
		recs, err := s.records(filename, g.opts.Plan)
		if err != nil {
			return nil, err
		}
		if len(recs) == 0 {
			continue
		}
		files = append(files, &FileInfo{SourceFile: filename, Records: recs})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].SourceFile < files[j].SourceFile })
	return files, nil
}

// findPackages resolves package patterns to directory paths.
func (g *Generator) findPackages(patterns []string) ([]string, error) {
	var dirs []string

	for _, pattern := range patterns {
		if g.opts.Dir != "" && !filepath.IsAbs(pattern) {
			pattern = filepath.Join(g.opts.Dir, pattern)
		}

		// Handle ./... pattern
		if !strings.HasSuffix(pattern, "/...") {
			dirs = append(dirs, pattern)
			continue
		}
		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}

		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			// Skip directories the go tool ignores
			base := filepath.Base(path)
			if path != root && (strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") || base == "vendor" || base == "testdata") {
				return filepath.SkipDir
			}
			dirs = append(dirs, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return dirs, nil
}

// cleanPackage removes generated files from a package.
func (g *Generator) cleanPackage(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, g.opts.Suffix) && !strings.HasSuffix(name, g.opts.Suffix+".unformatted") {
			continue
		}
		path := filepath.Join(dir, name)
		g.log.Info("removing", "file", path)
		if g.opts.DryRun {
			continue
		}
		if err := os.Remove(path); err != nil {
			return err
		}
	}

	return nil
}

// FileInfo holds the records declared in one source file.
type FileInfo struct {
	SourceFile string
	Records    []*RecordInfo
}

// RecordInfo holds a discovered property record.
type RecordInfo struct {
	SourceFile string
	TypeName   string
	Record     plan.Record
	Plan       *plan.RenderPlan
}
