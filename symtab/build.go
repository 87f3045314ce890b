package symtab

import (
	"os"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/refactorkit/refactorkit/cache"
	"github.com/refactorkit/refactorkit/modpath"
)

// Build parses every file in files (project-relative or absolute paths
// under root) concurrently, bounded by GOMAXPROCS, and merges the results
// into a SymbolTable. Passing a non-nil c memoizes each file's FileSymbols
// across calls, keyed by (path, mtime, size); passing nil always
// reparses, reproducing a from-scratch build.
//
// The concurrency here is an implementation detail of the build phase: the
// returned table's definitionsByName buckets are sorted by (file, location)
// before Build returns, so the result is identical regardless of goroutine
// completion order.
func Build(root string, files []string, c *cache.FileCache) (*SymbolTable, error) {
	results := make([]*FileSymbols, len(files))

	g := new(errgroup.Group)
	g.SetLimit(max(1, runtime.GOMAXPROCS(0)))

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			fs, err := buildOne(root, file, c)
			if err != nil {
				return nil // unreadable/unparseable files are skipped, not fatal
			}
			results[i] = fs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	st := &SymbolTable{
		Root:              root,
		Files:             make(map[string]*FileSymbols, len(files)),
		definitionsByName: make(map[string][]*Definition),
	}
	for _, fs := range results {
		if fs == nil {
			continue
		}
		st.Files[fs.File] = fs
	}
	for _, file := range files {
		fs := st.Files[file]
		if fs == nil {
			continue
		}
		for i := range fs.Definitions {
			d := &fs.Definitions[i]
			if d.TopLevel {
				st.definitionsByName[d.Name] = append(st.definitionsByName[d.Name], d)
			}
		}
	}
	for name := range st.definitionsByName {
		defs := st.definitionsByName[name]
		sort.Slice(defs, func(i, j int) bool {
			if defs[i].Location.File != defs[j].Location.File {
				return defs[i].Location.File < defs[j].Location.File
			}
			if defs[i].Location.Line != defs[j].Location.Line {
				return defs[i].Location.Line < defs[j].Location.Line
			}
			return defs[i].Location.Column < defs[j].Location.Column
		})
	}

	return st, nil
}

func buildOne(root, file string, c *cache.FileCache) (*FileSymbols, error) {
	if c != nil {
		if v, ok := c.Get(file); ok {
			if fs, ok := v.(*FileSymbols); ok {
				return fs, nil
			}
		}
	}

	source, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	module := modpath.FromFile(root, file)
	fs, err := collectFile(file, module, source)
	if err != nil {
		return nil, err
	}

	if c != nil {
		c.Put(file, fs)
	}
	return fs, nil
}
