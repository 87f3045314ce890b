// Package modpath converts project-relative file paths to dotted module
// names, matching the convention every other package in refactorkit
// assumes: strip the extension, split on path separators, drop a trailing
// "__init__" component, join with ".".
package modpath

import (
	"path"
	"path/filepath"
	"strings"
)

// SourceExt is the file extension refactorkit operates on.
const SourceExt = ".py"

// PackageMarker is the file name that turns a directory into an importable
// package.
const PackageMarker = "__init__" + SourceExt

// FromFile converts an absolute or project-relative file path into its
// dotted module name, relative to root. If file does not live under root,
// it is treated as already project-relative.
func FromFile(root, file string) string {
	rel := file
	if r, err := filepath.Rel(root, file); err == nil && !strings.HasPrefix(r, "..") {
		rel = r
	}

	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, SourceExt)

	parts := strings.Split(rel, "/")
	parts = trimEmpty(parts)
	if len(parts) > 0 && parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}

	return strings.Join(parts, ".")
}

// ToRelFile converts a dotted module name back to a project-relative file
// path. asPackage selects the "pkg/__init__.py" form; otherwise it produces
// "pkg/mod.py".
func ToRelFile(module string, asPackage bool) string {
	parts := strings.Split(module, ".")
	if asPackage {
		parts = append(parts, "__init__")
	}
	return path.Join(parts...) + SourceExt
}

// Join appends a trailing component to a dotted module name.
func Join(module, name string) string {
	if module == "" {
		return name
	}
	return module + "." + name
}

// Dir returns the parent module of a dotted module name ("" for a
// top-level module).
func Dir(module string) string {
	i := strings.LastIndex(module, ".")
	if i < 0 {
		return ""
	}
	return module[:i]
}

func trimEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
