// Package walker enumerates a project's source files and seeds package
// markers for new directories, mirroring the exclusion rules the symbol
// table build uses so both stay in lockstep.
package walker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/refactorkit/refactorkit/modpath"
)

var builtinExcludes = map[string]bool{
	"__pycache__": true,
	"node_modules": true,
	".git":         true,
	".venv":        true,
	"venv":         true,
}

// Files walks root and returns every source file's absolute path, skipping
// dot-prefixed directories, the built-in exclusion set, and any name in
// extraExcludes.
func Files(root string, extraExcludes []string) ([]string, error) {
	extra := map[string]bool{}
	for _, e := range extraExcludes {
		extra[e] = true
	}

	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || builtinExcludes[name] || extra[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(name, modpath.SourceExt) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EnsurePackageMarker creates dir's __init__.py with a single
// module-docstring line if it doesn't already exist. It never overwrites
// an existing marker, even an empty one.
func EnsurePackageMarker(dir string) error {
	marker := filepath.Join(dir, modpath.PackageMarker)
	if _, err := os.Stat(marker); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	name := filepath.Base(dir)
	return os.WriteFile(marker, []byte(`"""`+name+` package."""`+"\n"), 0o644)
}
