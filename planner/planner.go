// Package planner is refactorkit's external facade: one function per
// operation (rename-symbol, move-symbol, rename-file, move-file), each
// resolving a target against the project's symbol table, computing every
// edit up front, and either rendering a dry-run diff or writing each
// changed file atomically (the operation as a whole is not transactional).
package planner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/refactorkit/refactorkit/cache"
	"github.com/refactorkit/refactorkit/config"
	"github.com/refactorkit/refactorkit/depgraph"
	"github.com/refactorkit/refactorkit/rkerr"
	"github.com/refactorkit/refactorkit/rlog"
	"github.com/refactorkit/refactorkit/symtab"
	"github.com/refactorkit/refactorkit/walker"
)

// Options tunes a single operation.
type Options struct {
	// DryRun renders a unified diff per changed file instead of writing.
	DryRun bool
	// Policy resolves a shared-dependency conflict in move-symbol. The
	// zero value (Reject) is depgraph's conservative default.
	Policy depgraph.Policy
	// Cache, if non-nil, is reused across calls to skip reparsing
	// unchanged files.
	Cache *cache.FileCache
	// Logger receives progress/debug output; a quiet logger is used if
	// nil.
	Logger *rlog.Logger
}

func (o Options) logger() *rlog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return rlog.New(rlog.LevelQuiet)
}

// Result is what every operation returns: the files it touched (or would
// touch, in dry-run mode), their rendered diffs when DryRun is set, and
// any informational messages (e.g. "extracted [shared] from mod.py into
// mod_common.py").
type Result struct {
	ChangedFiles []string
	Diffs        []string
	Info         []string
}

// edit is one file's full before/after text, staged before anything is
// written to disk.
type edit struct {
	path          string
	before, after string
	// created/removed/renamed/moved describe non-edit filesystem actions
	// a write must also perform.
	removed    bool
	renamedTo  string
	movedTo    string
	newFile    bool
}

// project bundles the walked file list, symbol table, and config for one
// operation.
type project struct {
	root   string
	cfg    *config.Project
	files  []string
	table  *symtab.SymbolTable
	logger *rlog.Logger
}

func loadProject(root string, opts Options) (*project, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, &rkerr.ProjectError{Path: root, Reason: "loading config", Err: err}
	}

	logger := opts.logger()
	logger.Progress("walking project at %s", root)
	files, err := walker.Files(root, cfg.ExcludeDirs)
	if err != nil {
		return nil, &rkerr.ProjectError{Path: root, Reason: "walking project", Err: err}
	}

	logger.Progress("building symbol table over %d files", len(files))
	table, err := symtab.Build(root, files, opts.Cache)
	if err != nil {
		return nil, &rkerr.ProjectError{Path: root, Reason: "building symbol table", Err: err}
	}
	logger.Statistic("symbol table built: %d files", len(table.Files))

	return &project{root: root, cfg: cfg, files: files, table: table, logger: logger}, nil
}

// absPath resolves a target's (possibly project-relative) path against
// root.
func (p *project) absPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.root, path)
}

// commit renders edits as a Result, either as dry-run diffs or by writing
// every file atomically (temp file + fsync + rename) and performing any
// filesystem rename/move last, after every content write has succeeded.
func commit(p *project, edits []edit, opts Options, info []string) (*Result, error) {
	res := &Result{Info: info}

	if opts.DryRun {
		for _, e := range edits {
			res.ChangedFiles = append(res.ChangedFiles, relOrSelf(p.root, e.path))
			res.Diffs = append(res.Diffs, renderDiff(p.root, e))
		}
		return res, nil
	}

	for _, e := range edits {
		if e.removed {
			if err := os.Remove(e.path); err != nil && !os.IsNotExist(err) {
				return nil, &rkerr.RefactoringError{Op: "commit", Reason: "removing " + e.path, Err: err}
			}
			continue
		}
		if err := atomicWrite(e.path, []byte(e.after)); err != nil {
			return nil, &rkerr.RefactoringError{Op: "commit", Reason: "writing " + e.path, Err: err}
		}
	}

	for _, e := range edits {
		dest := e.renamedTo
		if dest == "" {
			dest = e.movedTo
		}
		if dest == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return nil, &rkerr.RefactoringError{Op: "commit", Reason: "creating directory for " + dest, Err: err}
		}
		if err := os.Rename(e.path, dest); err != nil {
			return nil, &rkerr.RefactoringError{Op: "commit", Reason: "renaming " + e.path + " to " + dest, Err: err}
		}
	}

	for _, e := range edits {
		if e.removed {
			continue
		}
		path := e.path
		if e.renamedTo != "" {
			path = e.renamedTo
		} else if e.movedTo != "" {
			path = e.movedTo
		}
		res.ChangedFiles = append(res.ChangedFiles, relOrSelf(p.root, path))
	}

	return res, nil
}

func relOrSelf(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
