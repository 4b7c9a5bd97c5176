package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm/propview/lib/plan"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the optional generator configuration in a module root.
const ConfigFile = "propview.yaml"

// Config represents the optional propview.yaml configuration.
type Config struct {
	// Suffix names generated files.
	Suffix string `yaml:"suffix,omitempty"`
	// Packages are the default package patterns.
	Packages []string      `yaml:"packages,omitempty"`
	Records  RecordsConfig `yaml:"records,omitempty"`
}

// RecordsConfig tunes record classification.
type RecordsConfig struct {
	EventPrefix string `yaml:"event_prefix,omitempty"`
	// AnyTag accepts any value with a text rendering as a dynamic tag.
	AnyTag bool `yaml:"anytag,omitempty"`
	// Tags restricts fixed tags to a vocabulary.
	Tags []string `yaml:"tags,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	ModulePath string
	Config     Config
}

// LoadOptional reads propview.yaml from dir if present. Unknown keys are
// errors.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
	}

	for i, tag := range cfg.Records.Tags {
		cfg.Records.Tags[i] = strings.ToLower(strings.TrimSpace(tag))
	}
	return &cfg, nil
}

// Resolve finds the module containing dir and loads its configuration.
func Resolve(dir string) (*Resolved, error) {
	root, err := FindModuleRoot(dir)
	if err != nil {
		return nil, err
	}
	modulePath, err := modulePath(root)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadOptional(root)
	if err != nil {
		return nil, err
	}
	return &Resolved{Root: root, ModulePath: modulePath, Config: *cfg}, nil
}

// FindModuleRoot walks up from dir to find go.mod.
func FindModuleRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

// Options returns generator options for the resolved configuration.
func (r *Resolved) Options() Options {
	return Options{
		Suffix: r.Config.Suffix,
		Plan: plan.Options{
			EventPrefix: r.Config.Records.EventPrefix,
			AnyTag:      r.Config.Records.AnyTag,
			Tags:        r.Config.Records.Tags,
		},
	}
}

// Patterns returns args, or the configured packages, or ./... .
func (r *Resolved) Patterns(args []string) []string {
	switch {
	case len(args) > 0:
		return args
	case len(r.Config.Packages) > 0:
		return r.Config.Packages
	default:
		return []string{"./..."}
	}
}
