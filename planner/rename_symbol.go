package planner

import (
	"fmt"
	"strings"

	"github.com/refactorkit/refactorkit/cst"
	"github.com/refactorkit/refactorkit/rkerr"
	"github.com/refactorkit/refactorkit/target"
)

// lastComponent returns the final dotted segment of a module path, e.g.
// "pkg.util" -> "util", used as the bound name a plain "import module"
// statement exposes in the importing file's own namespace.
func lastComponent(module string) string {
	if i := strings.LastIndex(module, "."); i >= 0 {
		return module[i+1:]
	}
	return module
}

// RenameSymbol renames the symbol spec resolves to, and every reference to
// it: its own definition and internal usages in its defining file, the
// "from <module> import <name>" (or aliased) import line in every
// importing file, any bare usage of the old name in those files, and any
// "moduleName.oldName(...)" attribute access left by a plain "import
// module" statement.
//
// A star-imported symbol needs no import-line update (the wildcard
// already covers the new name); its usages in importing files are still
// renamed.
func RenameSymbol(root string, spec target.Spec, newName string, opts Options) (*Result, error) {
	p, err := loadProject(root, opts)
	if err != nil {
		return nil, err
	}

	def, file, err := p.resolveOne(spec)
	if err != nil {
		return nil, err
	}
	oldName := def.Name

	var matches []string
	for _, d := range p.table.Get(file).Definitions {
		if d.TopLevel && d.Name == oldName {
			matches = append(matches, fmt.Sprintf("%s:%d", relOrSelf(root, file), d.Location.Line))
		}
	}
	if len(matches) > 1 {
		return nil, &rkerr.AmbiguousSymbol{Name: oldName, Matches: matches}
	}

	defFS := p.table.Get(file)
	defBefore := string(defFS.Source)
	defTree, changed := defFS.Tree.RenameName(oldName, newName)
	if changed == 0 {
		return nil, fmt.Errorf("planner: rename produced no changes in %s", file)
	}

	edits := []edit{{path: file, before: defBefore, after: string(defTree.Source())}}

	importers := p.table.FindImportingFiles(defFS.Module, oldName)
	seen := map[string]bool{file: true}
	for _, imp := range importers {
		if seen[imp.File] {
			continue
		}
		seen[imp.File] = true

		fs := p.table.Get(imp.File)
		before := string(fs.Source)
		tree := fs.Tree

		if imp.Import.IsFromImport {
			if !imp.Import.ImportsWildcard() {
				tree, _ = tree.RenameImport("", "", oldName, newName)
			}
		} else {
			tree, _ = tree.RenameAttribute(lastComponent(defFS.Module), oldName, newName)
		}
		tree, _ = tree.RenameName(oldName, newName)

		after := string(tree.Source())
		if after != before {
			edits = append(edits, edit{path: imp.File, before: before, after: after})
		}
	}

	p.logger.Progress("renaming %s to %s across %d files", oldName, newName, len(edits))
	return commit(p, edits, opts, nil)
}
