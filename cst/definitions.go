package cst

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// topLevelDefinition finds the top-level function/class/assignment
// statement in source that defines name, along with the node whose byte
// span is "the whole statement" (so removal/extraction includes its own
// trailing newline handling consistently).
func topLevelDefinition(root *sitter.Node, source []byte, name string) *sitter.Node {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if def := definingNode(stmt, source, name); def != nil {
			return def
		}
	}
	return nil
}

func definingNode(stmt *sitter.Node, source []byte, name string) *sitter.Node {
	switch stmt.Type() {
	case "function_definition", "class_definition":
		nameNode := stmt.ChildByFieldName("name")
		if nameNode != nil && nameNode.Content(source) == name {
			return stmt
		}
	case "expression_statement":
		for i := 0; i < int(stmt.NamedChildCount()); i++ {
			assign := stmt.NamedChild(i)
			if assign.Type() != "assignment" {
				continue
			}
			left := assign.ChildByFieldName("left")
			if left != nil && left.Type() == "identifier" && left.Content(source) == name {
				return stmt
			}
		}
	}
	return nil
}

// ExtractDefinition returns the verbatim source text of the top-level
// definition of name (function, class, or module-level assignment), and
// whether one was found.
func (t *Tree) ExtractDefinition(name string) (string, bool) {
	def := topLevelDefinition(t.root, t.source, name)
	if def == nil {
		return "", false
	}
	return def.Content(t.source), true
}

// RemoveDefinition deletes the top-level definition of name from the
// tree, along with one trailing newline so neighboring blank-line trivia
// isn't doubled. It reports whether a definition was found and removed.
func (t *Tree) RemoveDefinition(name string) (*Tree, bool) {
	def := topLevelDefinition(t.root, t.source, name)
	if def == nil {
		return t, false
	}

	start := int(def.StartByte())
	end := int(def.EndByte())
	if end < len(t.source) && t.source[end] == '\n' {
		end++
	}

	next, err := t.splice([]replacement{{start, end, nil}})
	if err != nil {
		return t, false
	}
	return next, true
}

// AddDefinition appends definitionCode to the end of the module, separated
// from existing content by a single blank line.
func (t *Tree) AddDefinition(definitionCode string) (*Tree, error) {
	sep := "\n"
	if len(t.source) == 0 || t.source[len(t.source)-1] != '\n' {
		sep = "\n\n"
	}
	out := append(append([]byte{}, t.source...), []byte(sep+definitionCode)...)
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	next, err := Parse(out)
	if err != nil {
		return nil, fmt.Errorf("cst: add definition: %w", err)
	}
	return next, nil
}

// lastImportInsertOffset returns the byte offset right after the last
// top-level import statement (0 if there are none), which is where new
// imports get inserted — matching the source behavior of appending new
// imports after the existing import block rather than at the very top.
func lastImportInsertOffset(root *sitter.Node, source []byte) int {
	offset := 0
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() == "import_statement" || stmt.Type() == "import_from_statement" {
			offset = int(stmt.EndByte())
			if offset < len(source) && source[offset] == '\n' {
				offset++
			}
		}
	}
	return offset
}

// AddFromImport inserts "from module import name[ as alias]" after the
// last existing top-level import (or at the top of the file if there is
// none).
func (t *Tree) AddFromImport(module, name, alias string) (*Tree, error) {
	line := "from " + module + " import " + name
	if alias != "" {
		line += " as " + alias
	}
	return t.insertLine(line)
}

// AddPlainImport inserts "import module[ as alias]" after the last
// existing top-level import.
func (t *Tree) AddPlainImport(module, alias string) (*Tree, error) {
	line := "import " + module
	if alias != "" {
		line += " as " + alias
	}
	return t.insertLine(line)
}

func (t *Tree) insertLine(line string) (*Tree, error) {
	offset := lastImportInsertOffset(t.root, t.source)
	next, err := t.splice([]replacement{{offset, offset, []byte(line + "\n")}})
	if err != nil {
		return nil, fmt.Errorf("cst: insert import: %w", err)
	}
	return next, nil
}
