package planner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/refactorkit/refactorkit/modpath"
)

// fileStem returns a file's base name without its source extension, e.g.
// "pkg/util.py" -> "util".
func fileStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), modpath.SourceExt)
}

// RenameFile renames oldRelPath to newRelPath within the same directory (or
// any directory — only the module name changes) and repoints every
// importer of it: once by absolute module path ("import old.module" /
// "from old.module import x"), and again by bare stem, which catches a
// relative import that names the old file without qualifying its
// directory ("from . import util" or "from .util import helper").
func RenameFile(root, oldRelPath, newRelPath string, opts Options) (*Result, error) {
	p, err := loadProject(root, opts)
	if err != nil {
		return nil, err
	}

	oldFile := p.absPath(oldRelPath)
	newFile := p.absPath(newRelPath)

	fs := p.table.Get(oldFile)
	if fs == nil {
		if err := p.requireFile(oldFile); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("planner: %s not in project", oldFile)
	}

	oldModule := fs.Module
	newModule := modpath.FromFile(root, newFile)
	oldStem := fileStem(oldFile)
	newStem := fileStem(newFile)

	edits := []edit{{path: oldFile, before: string(fs.Source), after: string(fs.Source), renamedTo: newFile}}

	// A relative import ("from . import util", "from .util import x")
	// never records its module as oldModule in the symbol table (it's
	// stored as the literal dotted-suffix text, if any), so the stem pass
	// below has to scan every file in the project, not just the ones
	// FindImportingFiles reports for the absolute module path.
	for path, ifs := range p.table.Files {
		if path == oldFile {
			continue
		}
		before := string(ifs.Source)
		tree, _ := ifs.Tree.RenameImport(oldModule, newModule, "", "")
		tree, _ = tree.RenameImport(oldStem, newStem, "", "")
		after := string(tree.Source())
		if after != before {
			edits = append(edits, edit{path: path, before: before, after: after})
		}
	}

	p.logger.Progress("renaming %s to %s, updating %d importers", oldRelPath, newRelPath, len(edits)-1)
	return commit(p, edits, opts, nil)
}
