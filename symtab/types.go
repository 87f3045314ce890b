// Package symtab builds and queries a project-wide symbol table: what is
// defined where, what is referenced where, and what each file imports.
package symtab

import "github.com/refactorkit/refactorkit/cst"

// Location pinpoints a span of source text.
type Location struct {
	File                             string
	Line, Column, EndLine, EndColumn int // 1-indexed line, 0-indexed column
	Offset, EndOffset                int // byte offsets
}

// Kind classifies a Definition.
type Kind string

const (
	KindFunction Kind = "function"
	KindClass    Kind = "class"
	KindVariable Kind = "variable"
)

// Definition is a symbol defined somewhere in the project.
type Definition struct {
	Name          string
	QualifiedName string
	Location      Location
	Kind          Kind
	// TopLevel is false for a symbol nested inside a function or class
	// body; only top-level definitions are valid refactor targets.
	TopLevel bool
}

// Reference is an identifier occurrence outside of import statements —
// including, like the system this is grounded on, the identifier of the
// definition itself, so reference counts stay consistent with "does this
// name appear in the text".
type Reference struct {
	Name     string
	Location Location
}

// ImportedName is one bound name within an import statement, with its
// optional alias.
type ImportedName struct {
	Name  string // "*" for a wildcard import
	Alias string
}

// ImportRecord is one import statement.
type ImportRecord struct {
	// Module is the dotted module path: absolute ("pkg.sub") or relative
	// (leading dots, e.g. "..pkg"). Just the dots (".") for a relative
	// "from . import x".
	Module       string
	Names        []ImportedName
	Location     Location
	IsFromImport bool
}

// FileSymbols holds every symbol fact collected from one file.
type FileSymbols struct {
	File        string
	Module      string
	Source      []byte
	Tree        *cst.Tree
	Definitions []Definition
	References  []Reference
	Imports     []ImportRecord
}

// SymbolTable is the complete project-wide index.
type SymbolTable struct {
	Root              string
	Files             map[string]*FileSymbols
	definitionsByName map[string][]*Definition
}

// Get returns the FileSymbols for path, or nil if path wasn't indexed.
func (st *SymbolTable) Get(path string) *FileSymbols {
	return st.Files[path]
}

// FindDefinition finds a top-level definition by file and name.
func (st *SymbolTable) FindDefinition(file, name string) *Definition {
	fs := st.Files[file]
	if fs == nil {
		return nil
	}
	for i := range fs.Definitions {
		if fs.Definitions[i].TopLevel && fs.Definitions[i].Name == name {
			return &fs.Definitions[i]
		}
	}
	return nil
}

// FindDefinitionAt finds the top-level definition whose name identifier
// covers a 1-indexed line and 0-indexed column. A position inside a
// definition's body, rather than on its name, matches nothing.
func (st *SymbolTable) FindDefinitionAt(file string, line, column int) *Definition {
	fs := st.Files[file]
	if fs == nil {
		return nil
	}
	for i := range fs.Definitions {
		d := &fs.Definitions[i]
		if !d.TopLevel {
			continue
		}
		loc := d.Location
		if loc.Line == line && loc.Column <= column && column < loc.EndColumn {
			return d
		}
	}
	return nil
}

// FindAllDefinitionsByName returns every top-level definition named name,
// across the whole project, ordered deterministically by (file, location)
// regardless of how the table was built.
func (st *SymbolTable) FindAllDefinitionsByName(name string) []*Definition {
	return append([]*Definition(nil), st.definitionsByName[name]...)
}
