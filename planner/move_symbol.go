package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/refactorkit/refactorkit/cst"
	"github.com/refactorkit/refactorkit/depgraph"
	"github.com/refactorkit/refactorkit/modpath"
	"github.com/refactorkit/refactorkit/symtab"
	"github.com/refactorkit/refactorkit/target"
)

// MoveSymbol moves the symbol(s) spec names from their file to destRelPath
// (created if it doesn't exist), pulling along, rejecting, or extracting
// (per opts.Policy) any dependency the moved symbols share with a symbol
// left behind, then repoints every importer of the moved symbols at the
// destination module and prunes imports the move left unused.
//
// Known simplification: when only some names bound by a single
// "from X import a, b" statement move, the whole statement's module is
// still redirected to the destination for any importer — splitting one
// import statement's names across two new modules is not implemented.
func MoveSymbol(root string, spec target.Spec, destRelPath string, opts Options) (*Result, error) {
	p, err := loadProject(root, opts)
	if err != nil {
		return nil, err
	}

	srcFile, names, err := p.resolveNames(spec)
	if err != nil {
		return nil, err
	}
	srcFS := p.table.Get(srcFile)
	if srcFS == nil {
		return nil, fmt.Errorf("planner: %s not in project", srcFile)
	}

	analyzer := depgraph.NewAnalyzer(p.table)
	closure, err := analyzer.Closure(srcFile, names, opts.Policy)
	if err != nil {
		return nil, err
	}

	destFile := p.absPath(destRelPath)
	destModule := modpath.FromFile(root, destFile)
	srcModule := srcFS.Module

	srcBefore := string(srcFS.Source)
	srcTree := srcFS.Tree

	destBefore := ""
	if data, err := os.ReadFile(destFile); err == nil {
		destBefore = string(data)
	}
	destTree, err := cst.Parse([]byte(destBefore))
	if err != nil {
		return nil, fmt.Errorf("planner: parsing destination %s: %w", destFile, err)
	}

	var requiredImports []symtab.ImportRecord
	var info []string

	for _, name := range closure.Moving {
		def := p.table.FindDefinition(srcFile, name)
		if def == nil {
			continue
		}
		deps, err := analyzer.Analyze(srcFile, def)
		if err != nil {
			return nil, err
		}
		requiredImports = append(requiredImports, deps.RequiredImports...)

		code, err := analyzer.GetSymbolCode(srcFile, def)
		if err != nil {
			return nil, err
		}
		destTree, err = destTree.AddDefinition(code)
		if err != nil {
			return nil, err
		}
		srcTree, _ = srcTree.RemoveDefinition(name)
	}

	var sharedFile, sharedBefore string
	var sharedTree *cst.Tree

	if len(closure.Extracted) > 0 {
		stem := strings.TrimSuffix(filepath.Base(srcFile), modpath.SourceExt)
		sharedRel := p.cfg.SharedFileName(stem)
		sharedFile = filepath.Join(filepath.Dir(srcFile), sharedRel)
		sharedModule := modpath.FromFile(root, sharedFile)

		if data, err := os.ReadFile(sharedFile); err == nil {
			sharedBefore = string(data)
		}
		sharedTree, err = cst.Parse([]byte(sharedBefore))
		if err != nil {
			return nil, fmt.Errorf("planner: parsing shared module %s: %w", sharedFile, err)
		}

		var sharedRequiredImports []symtab.ImportRecord
		for _, name := range closure.Extracted {
			def := p.table.FindDefinition(srcFile, name)
			if def == nil {
				continue
			}
			deps, err := analyzer.Analyze(srcFile, def)
			if err != nil {
				return nil, err
			}
			sharedRequiredImports = append(sharedRequiredImports, deps.RequiredImports...)

			code, err := analyzer.GetSymbolCode(srcFile, def)
			if err != nil {
				return nil, err
			}
			sharedTree, err = sharedTree.AddDefinition(code)
			if err != nil {
				return nil, err
			}
			srcTree, _ = srcTree.RemoveDefinition(name)

			spec := cst.ImportSpec{Module: sharedModule, Name: name, IsFrom: true}
			srcTree, _ = srcTree.EnsureImports([]cst.ImportSpec{spec})
			destTree, _ = destTree.EnsureImports([]cst.ImportSpec{spec})
		}

		sharedTree, err = sharedTree.EnsureImports(importSpecsFor(dedupeImports(sharedRequiredImports)))
		if err != nil {
			return nil, err
		}

		info = append(info, fmt.Sprintf("extracted %v from %s into %s", closure.Extracted, relOrSelf(root, srcFile), sharedRel))
	}

	destTree, err = destTree.EnsureImports(importSpecsFor(dedupeImports(requiredImports)))
	if err != nil {
		return nil, err
	}
	srcTree, _ = srcTree.RemoveUnusedImports()

	edits := []edit{
		{path: srcFile, before: srcBefore, after: string(srcTree.Source())},
		{path: destFile, before: destBefore, after: string(destTree.Source()), newFile: destBefore == ""},
	}
	if sharedFile != "" {
		edits = append(edits, edit{path: sharedFile, before: sharedBefore, after: string(sharedTree.Source()), newFile: sharedBefore == ""})
	}

	movingSet := map[string]bool{}
	for _, n := range closure.Moving {
		movingSet[n] = true
	}

	touched := map[string]bool{srcFile: true, destFile: true}
	for name := range movingSet {
		for _, imp := range p.table.FindImportingFiles(srcModule, name) {
			if touched[imp.File] {
				continue
			}
			fs := p.table.Get(imp.File)
			before := string(fs.Source)
			tree, _ := fs.Tree.RenameImport(srcModule, destModule, "", "")
			after := string(tree.Source())
			if after != before {
				touched[imp.File] = true
				edits = append(edits, edit{path: imp.File, before: before, after: after})
			}
		}
	}

	markerEdits, err := ensurePackageMarkerEdits(root, filepath.Dir(destFile))
	if err != nil {
		return nil, err
	}
	edits = append(edits, markerEdits...)

	p.logger.Progress("moving %v from %s to %s", closure.Moving, relOrSelf(root, srcFile), relOrSelf(root, destFile))
	return commit(p, edits, opts, info)
}

func dedupeImports(imps []symtab.ImportRecord) []symtab.ImportRecord {
	seen := map[string]bool{}
	var out []symtab.ImportRecord
	for _, imp := range imps {
		key := fmt.Sprintf("%s|%d", imp.Location.File, imp.Location.Offset)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, imp)
	}
	return out
}

func importSpecsFor(imps []symtab.ImportRecord) []cst.ImportSpec {
	var out []cst.ImportSpec
	for _, imp := range imps {
		for _, n := range imp.Names {
			out = append(out, cst.ImportSpec{Module: imp.Module, Name: n.Name, Alias: n.Alias, IsFrom: imp.IsFromImport})
		}
	}
	return out
}
