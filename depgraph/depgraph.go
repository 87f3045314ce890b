// Package depgraph classifies the names a definition depends on — which
// are imports that must travel with it, which are other definitions in
// the same file — and computes the transitive move-closure for
// move-symbol, applying one of three policies when that closure collides
// with a definition staying behind.
package depgraph

import (
	"fmt"
	"sort"

	"github.com/refactorkit/refactorkit/rkerr"
	"github.com/refactorkit/refactorkit/symtab"
)

// Policy controls how Closure resolves a dependency shared between a
// symbol being moved and a symbol staying behind.
type Policy int

const (
	// Reject fails the operation (rkerr.CircularDependency) rather than
	// split a shared private dependency.
	Reject Policy = iota
	// PullIn brings the shared dependency along with the move.
	PullIn
	// Extract leaves the shared dependency in a new common module that
	// both the moved and the staying symbol import.
	Extract
)

// Classification labels a name referenced by a definition's body.
type Classification string

const (
	RequiredImport     Classification = "required_import"
	InternalDependency Classification = "internal_dependency"
	Ignored            Classification = "ignored"
)

// SymbolDependencies is the classified reference set for one definition.
type SymbolDependencies struct {
	Symbol               string
	RequiredImports      []symtab.ImportRecord
	InternalDependencies []string
}

// Analyzer classifies definitions' dependencies against a symbol table.
type Analyzer struct {
	Table *symtab.SymbolTable
}

// NewAnalyzer builds an Analyzer over st.
func NewAnalyzer(st *symtab.SymbolTable) *Analyzer {
	return &Analyzer{Table: st}
}

// referencedNames returns the distinct identifier names referenced within
// [start,end) in file's source, excluding every occurrence of the
// definition's own name.
func referencedNames(fs *symtab.FileSymbols, start, end int, ownName string) map[string]bool {
	out := map[string]bool{}
	for _, ref := range fs.References {
		if ref.Location.Offset < start || ref.Location.Offset >= end {
			continue
		}
		out[ref.Name] = true
	}
	delete(out, ownName)
	return out
}

// Analyze classifies every name def's body references as a required
// import (the file imports it), an internal dependency (another top-level
// definition in the same file), or ignored (a local, parameter, builtin,
// or anything else unresolved).
func (a *Analyzer) Analyze(file string, def *symtab.Definition) (*SymbolDependencies, error) {
	fs := a.Table.Get(file)
	if fs == nil {
		return nil, fmt.Errorf("depgraph: %s not in symbol table", file)
	}

	// def.Location covers only the definition's name; widen it to the
	// enclosing top-level statement so the body's references are included.
	start, end := def.Location.Offset, def.Location.EndOffset
	root := fs.Tree.Root()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if int(stmt.StartByte()) <= start && end <= int(stmt.EndByte()) {
			start, end = int(stmt.StartByte()), int(stmt.EndByte())
			break
		}
	}
	names := referencedNames(fs, start, end, def.Name)

	importedLocals := map[string]symtab.ImportRecord{}
	for _, imp := range fs.Imports {
		for _, n := range imp.Names {
			local := n.Alias
			if local == "" {
				local = n.Name
			}
			importedLocals[local] = imp
		}
	}

	topLevelNames := map[string]bool{}
	for _, d := range fs.Definitions {
		if d.TopLevel {
			topLevelNames[d.Name] = true
		}
	}

	deps := &SymbolDependencies{Symbol: def.Name}
	seenImport := map[string]bool{}
	for name := range names {
		if imp, ok := importedLocals[name]; ok {
			key := fmt.Sprintf("%s|%d", imp.Location.File, imp.Location.Offset)
			if !seenImport[key] {
				seenImport[key] = true
				deps.RequiredImports = append(deps.RequiredImports, imp)
			}
			continue
		}
		if topLevelNames[name] && name != def.Name {
			deps.InternalDependencies = append(deps.InternalDependencies, name)
		}
	}

	sort.Strings(deps.InternalDependencies)
	return deps, nil
}

// GetSymbolCode returns the verbatim source text of def, via the CST.
func (a *Analyzer) GetSymbolCode(file string, def *symtab.Definition) (string, error) {
	fs := a.Table.Get(file)
	if fs == nil {
		return "", fmt.Errorf("depgraph: %s not in symbol table", file)
	}
	code, ok := fs.Tree.ExtractDefinition(def.Name)
	if !ok {
		return "", fmt.Errorf("depgraph: %s not found in %s", def.Name, file)
	}
	return code, nil
}

// InternalUsages returns the names of every top-level definition in file
// that uses name internally (i.e. name is among that definition's
// InternalDependencies), excluding name itself.
func (a *Analyzer) InternalUsages(file, name string) ([]string, error) {
	fs := a.Table.Get(file)
	if fs == nil {
		return nil, fmt.Errorf("depgraph: %s not in symbol table", file)
	}
	var users []string
	for i := range fs.Definitions {
		d := &fs.Definitions[i]
		if !d.TopLevel || d.Name == name {
			continue
		}
		deps, err := a.Analyze(file, d)
		if err != nil {
			return nil, err
		}
		for _, dep := range deps.InternalDependencies {
			if dep == name {
				users = append(users, d.Name)
				break
			}
		}
	}
	sort.Strings(users)
	return users, nil
}

// ClosureResult is the outcome of computing a move's transitive closure.
type ClosureResult struct {
	// Moving lists every symbol that will move, including the requested
	// ones and any pulled-in dependencies.
	Moving []string
	// Extracted lists symbols policy Extract pulled into a shared module
	// instead of moving them outright.
	Extracted []string
}

// Closure computes the transitive set of symbols that must move alongside
// names for the move to leave no dangling internal reference, applying
// policy whenever a dependency of a moving symbol is also used by a
// symbol that is staying behind.
//
// This is a fixpoint over symtab/depgraph: start with the requested names,
// repeatedly pull in each moving symbol's internal dependencies, and for
// each dependency check whether any symbol NOT in the moving set also
// depends on it. Reject aborts the whole operation in that case; PullIn
// adds the shared dependency to the moving set (so both call sites still
// resolve, at the cost of moving more code than asked); Extract records it
// to go to a shared module instead of moving or leaving it untouched.
func (a *Analyzer) Closure(file string, names []string, policy Policy) (*ClosureResult, error) {
	fs := a.Table.Get(file)
	if fs == nil {
		return nil, fmt.Errorf("depgraph: %s not in symbol table", file)
	}

	moving := map[string]bool{}
	for _, n := range names {
		moving[n] = true
	}
	var extracted []string
	extractedSet := map[string]bool{}

	changed := true
	for changed {
		changed = false
		for name := range copySet(moving) {
			def := a.Table.FindDefinition(file, name)
			if def == nil {
				continue
			}
			deps, err := a.Analyze(file, def)
			if err != nil {
				return nil, err
			}
			for _, dep := range deps.InternalDependencies {
				if moving[dep] || extractedSet[dep] {
					continue
				}
				users, err := a.InternalUsages(file, dep)
				if err != nil {
					return nil, err
				}
				sharedWithStaying := false
				for _, u := range users {
					if !moving[u] {
						sharedWithStaying = true
						break
					}
				}
				if !sharedWithStaying {
					moving[dep] = true
					changed = true
					continue
				}

				switch policy {
				case Reject:
					return nil, &rkerr.CircularDependency{Symbol: name, Shared: []string{dep}}
				case PullIn:
					moving[dep] = true
					changed = true
				case Extract:
					if !extractedSet[dep] {
						extractedSet[dep] = true
						extracted = append(extracted, dep)
					}
				}
			}
		}
	}

	result := &ClosureResult{Extracted: extracted}
	for n := range moving {
		result.Moving = append(result.Moving, n)
	}
	sort.Strings(result.Moving)
	sort.Strings(result.Extracted)
	return result, nil
}

func copySet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
