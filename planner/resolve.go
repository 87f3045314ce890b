package planner

import (
	"fmt"
	"os"

	"github.com/refactorkit/refactorkit/rkerr"
	"github.com/refactorkit/refactorkit/symtab"
	"github.com/refactorkit/refactorkit/target"
)

// resolveOne resolves a target.Spec to exactly one definition. ByNames is
// rejected here (callers that accept batches should use resolveNames
// instead).
func (p *project) resolveOne(spec target.Spec) (*symtab.Definition, string, error) {
	switch s := spec.(type) {
	case target.ByName:
		file := p.absPath(s.Path)
		def := p.table.FindDefinition(file, s.Name)
		if def == nil {
			return nil, "", &rkerr.SymbolNotFound{Name: s.Name, File: s.Path}
		}
		return def, file, nil

	case target.ByPosition:
		file := p.absPath(s.Path)
		fs := p.table.Get(file)
		if fs == nil {
			return nil, "", &rkerr.SymbolNotFound{Name: "", File: s.Path}
		}
		name, err := target.NameAtOffset(fs.Source, offsetForPosition(fs.Source, s.Line, s.Column))
		if err != nil {
			return nil, "", &rkerr.SymbolNotFound{Name: "", File: s.Path}
		}
		def := p.table.FindDefinition(file, name)
		if def == nil {
			return nil, "", &rkerr.SymbolNotFound{Name: name, File: s.Path}
		}
		return def, file, nil

	case target.ByNames:
		return nil, "", fmt.Errorf("planner: target names multiple symbols; use resolveNames")

	default:
		return nil, "", fmt.Errorf("planner: unrecognized target type %T", spec)
	}
}

// resolveNames resolves a target.Spec naming one-or-more symbols in a
// single file, used by move-symbol which accepts batches.
func (p *project) resolveNames(spec target.Spec) (file string, names []string, err error) {
	switch s := spec.(type) {
	case target.ByName:
		return p.absPath(s.Path), []string{s.Name}, nil
	case target.ByNames:
		return p.absPath(s.Path), s.Names, nil
	case target.ByPosition:
		def, file, err := p.resolveOne(s)
		if err != nil {
			return "", nil, err
		}
		return file, []string{def.Name}, nil
	default:
		return "", nil, fmt.Errorf("planner: unrecognized target type %T", spec)
	}
}

func offsetForPosition(source []byte, line, column int) int {
	row := 1
	offset := 0
	for offset < len(source) {
		if row == line {
			break
		}
		if source[offset] == '\n' {
			row++
		}
		offset++
	}
	return offset + column
}

// requireFile verifies path exists on disk, as a sanity check before
// operating on it.
func (p *project) requireFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return &rkerr.ProjectError{Path: path, Reason: "file not found", Err: err}
	}
	return nil
}
