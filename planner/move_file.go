package planner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/refactorkit/refactorkit/modpath"
)

// MoveFile moves oldRelPath to newRelPath, possibly across directories, and
// repoints every importer elsewhere in the project: once by absolute module
// path ("import old.module" / "from old.module import x"), once more by
// bare stem (catches "from .old_stem import x"), and — for a sibling that
// reaches the moved file through a bare-dots relative import ("from .
// import old_stem") — by inserting the new directory as an explicit suffix
// ("from .new_dir import old_stem"). The last of these only fires for a
// sibling whose own directory equals the file's old directory (a single
// dot resolving to "this package"); a relative import reaching across more
// than one package boundary isn't recomputed and needs a follow-up pass.
// It also seeds package markers for any new directory the move creates.
func MoveFile(root, oldRelPath, newRelPath string, opts Options) (*Result, error) {
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
	oldDir := modpath.Dir(oldModule)
	newDir := modpath.Dir(newModule)

	edits := []edit{{path: oldFile, before: string(fs.Source), after: string(fs.Source), movedTo: newFile}}

	for path, ifs := range p.table.Files {
		if path == oldFile {
			continue
		}
		before := string(ifs.Source)
		sibling := oldDir != newDir && modpath.Dir(ifs.Module) == oldDir
		suffix := strings.TrimPrefix(newDir, oldDir+".")
		stemTarget := newStem
		if sibling && suffix != "" {
			stemTarget = suffix + "." + newStem
		}
		tree, _ := ifs.Tree.RenameImport(oldModule, newModule, "", "")
		tree, _ = tree.RenameImport(oldStem, stemTarget, "", "")
		if sibling {
			tree, _ = tree.InsertRelativeImportSuffix(oldStem, suffix)
		}
		after := string(tree.Source())
		if after != before {
			edits = append(edits, edit{path: path, before: before, after: after})
		}
	}

	markerEdits, err := ensurePackageMarkerEdits(root, filepath.Dir(newFile))
	if err != nil {
		return nil, err
	}
	edits = append(edits, markerEdits...)

	p.logger.Progress("moving %s to %s, updating %d importers", oldRelPath, newRelPath, len(edits)-1-len(markerEdits))
	return commit(p, edits, opts, nil)
}
