// Package config loads the optional per-project refactorkit settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/refactorkit/refactorkit/depgraph"
)

// FileName is the settings file refactorkit looks for at a project root.
const FileName = ".refactorkit.yaml"

// Project holds the optional settings that tune how refactorkit behaves for
// a given project. Every field has a documented default, so a missing file
// (or a missing field within one) is never an error.
type Project struct {
	// ExcludeDirs lists additional directory names to skip during project
	// walks, beyond the built-in set (.git, __pycache__, node_modules,
	// .venv, venv, and any dot-prefixed directory).
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// DefaultPolicy is the shared-dependency policy move-symbol falls back
	// to when a caller doesn't pass one explicitly.
	DefaultPolicy string `yaml:"default_policy"`

	// SharedFilePattern names the file EXTRACT creates for dependencies
	// shared between a moved symbol and one left behind. "{stem}" is
	// replaced with the source file's stem.
	SharedFilePattern string `yaml:"shared_file_pattern"`
}

// Default returns the settings refactorkit uses when no config file is
// present.
func Default() *Project {
	return &Project{
		DefaultPolicy:     "reject",
		SharedFilePattern: "{stem}_common.py",
	}
}

// Load reads FileName from root. A missing file is not an error: Load
// returns Default(). A present-but-invalid file is.
func Load(root string) (*Project, error) {
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return p, nil
}

// Policy resolves DefaultPolicy to a depgraph.Policy, falling back to
// Reject for an unrecognized or empty value.
func (p *Project) Policy() depgraph.Policy {
	switch p.DefaultPolicy {
	case "pull_in":
		return depgraph.PullIn
	case "extract":
		return depgraph.Extract
	default:
		return depgraph.Reject
	}
}

// SharedFileName expands SharedFilePattern for a given source file stem
// (the file name without its directory or extension).
func (p *Project) SharedFileName(stem string) string {
	pattern := p.SharedFilePattern
	if pattern == "" {
		pattern = "{stem}_common.py"
	}
	return strings.ReplaceAll(pattern, "{stem}", stem)
}
