package cst

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// RenameName renames every bare identifier occurrence of oldName to
// newName: definitions (function, class, variable), references, and
// keyword-argument labels. It does not touch anything inside an import
// statement (RenameImport handles that) or the right-hand member of an
// attribute access (RenameAttribute handles that), matching the source
// behavior's separation of concerns.
func (t *Tree) RenameName(oldName, newName string) (*Tree, int) {
	var edits []replacement
	walk(t.root, func(n *sitter.Node) bool {
		if isImportNode(n) {
			return false
		}
		if n.Type() == "identifier" && n.Content(t.source) == oldName && !isAttributeAttrField(n) {
			edits = append(edits, replacement{int(n.StartByte()), int(n.EndByte()), []byte(newName)})
		}
		return true
	})
	if len(edits) == 0 {
		return t, 0
	}
	next, err := t.splice(edits)
	if err != nil {
		return t, 0
	}
	return next, len(edits)
}

// RenameAttribute renames attribute accesses of the form
// "moduleName.oldName" to "moduleName.newName", leaving every other
// identifier named oldName untouched.
func (t *Tree) RenameAttribute(moduleName, oldName, newName string) (*Tree, int) {
	var edits []replacement
	walk(t.root, func(n *sitter.Node) bool {
		if n.Type() != "attribute" {
			return true
		}
		obj := n.ChildByFieldName("object")
		attr := n.ChildByFieldName("attribute")
		if obj == nil || attr == nil {
			return true
		}
		if obj.Type() == "identifier" && obj.Content(t.source) == moduleName && attr.Content(t.source) == oldName {
			edits = append(edits, replacement{int(attr.StartByte()), int(attr.EndByte()), []byte(newName)})
		}
		return true
	})
	if len(edits) == 0 {
		return t, 0
	}
	next, err := t.splice(edits)
	if err != nil {
		return t, 0
	}
	return next, len(edits)
}

// RenameImport rewrites import statements: an absolute module path equal
// to oldModule becomes newModule (when both are non-empty), and an
// imported/aliased name equal to oldName becomes newName (when both are
// non-empty).
//
// It also matches oldModule/newModule against a relative_import's bare
// stem, the two shapes a sibling reference takes: "from .oldModule import
// x" (oldModule is the dotted suffix — replaced with newModule verbatim,
// keeping the existing dots), and "from . import oldModule" (oldModule is
// both the bound name and, implicitly, the submodule itself — if newModule
// has no dot this is a same-directory rename and the bound name becomes
// newModule; a cross-directory move needs InsertRelativeImportSuffix
// instead, since inserting a new package segment requires knowing the
// importing file's own directory, which RenameImport doesn't take).
func (t *Tree) RenameImport(oldModule, newModule, oldName, newName string) (*Tree, int) {
	var edits []replacement
	count := 0

	walk(t.root, func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_statement":
			count += renameImportStatement(n, t.source, oldModule, newModule, &edits)
			return false
		case "import_from_statement":
			count += renameImportFromStatement(n, t.source, oldModule, newModule, oldName, newName, &edits)
			return false
		}
		return true
	})

	if len(edits) == 0 {
		return t, 0
	}
	next, err := t.splice(edits)
	if err != nil {
		return t, 0
	}
	return next, count
}

func renameImportStatement(n *sitter.Node, source []byte, oldModule, newModule string, edits *[]replacement) int {
	if oldModule == "" || newModule == "" {
		return 0
	}
	count := 0
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		target := child
		if child.Type() == "aliased_import" {
			target = child.ChildByFieldName("name")
		}
		if target == nil {
			continue
		}
		if dottedName(target, source) == oldModule {
			*edits = append(*edits, replacement{int(target.StartByte()), int(target.EndByte()), []byte(makeDottedName(newModule))})
			count++
		}
	}
	return count
}

func renameImportFromStatement(n *sitter.Node, source []byte, oldModule, newModule, oldName, newName string, edits *[]replacement) int {
	count := 0

	if oldModule != "" && newModule != "" {
		if mod := n.ChildByFieldName("module_name"); mod != nil {
			if mod.Type() != "relative_import" {
				if dottedName(mod, source) == oldModule {
					*edits = append(*edits, replacement{int(mod.StartByte()), int(mod.EndByte()), []byte(makeDottedName(newModule))})
					count++
				}
			} else if suffix := relativeImportSuffix(mod); suffix != nil {
				if suffix.Content(source) == oldModule {
					*edits = append(*edits, replacement{int(suffix.StartByte()), int(suffix.EndByte()), []byte(makeDottedName(newModule))})
					count++
				}
			} else if !strings.Contains(newModule, ".") {
				if bound := boundPlainName(n, mod, oldModule, source); bound != nil {
					*edits = append(*edits, replacement{int(bound.StartByte()), int(bound.EndByte()), []byte(newModule)})
					count++
				}
			}
		}
	}

	if oldName != "" && newName != "" {
		moduleNameNode := n.ChildByFieldName("module_name")
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if moduleNameNode != nil && child.Equal(moduleNameNode) {
				continue
			}
			switch child.Type() {
			case "aliased_import":
				nameNode := child.ChildByFieldName("name")
				if nameNode != nil && nameNode.Content(source) == oldName {
					*edits = append(*edits, replacement{int(nameNode.StartByte()), int(nameNode.EndByte()), []byte(newName)})
					count++
				}
			case "dotted_name", "identifier":
				if child.Content(source) == oldName {
					*edits = append(*edits, replacement{int(child.StartByte()), int(child.EndByte()), []byte(newName)})
					count++
				}
			}
		}
	}

	return count
}

// relativeImportSuffix returns the dotted-name child of a relative_import
// node (the text after the leading dots), or nil for a bare-dots import
// like "from . import x".
func relativeImportSuffix(mod *sitter.Node) *sitter.Node {
	for i := 0; i < int(mod.NamedChildCount()); i++ {
		c := mod.NamedChild(i)
		if c.Type() == "dotted_name" || c.Type() == "identifier" {
			return c
		}
	}
	return nil
}

// relativeImportPrefix returns the leading-dots text ("." or "..") of a
// relative_import node.
func relativeImportPrefix(mod *sitter.Node, source []byte) string {
	for i := 0; i < int(mod.NamedChildCount()); i++ {
		c := mod.NamedChild(i)
		if c.Type() == "import_prefix" {
			return c.Content(source)
		}
	}
	return mod.Content(source)
}

// boundPlainName finds a plain (non-aliased) imported name equal to name
// among import_from_statement n's children, skipping moduleNameNode.
func boundPlainName(n *sitter.Node, moduleNameNode *sitter.Node, name string, source []byte) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if moduleNameNode != nil && child.Equal(moduleNameNode) {
			continue
		}
		switch child.Type() {
		case "dotted_name", "identifier":
			if child.Content(source) == name {
				return child
			}
		case "aliased_import":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil && nameNode.Content(source) == name {
				return nameNode
			}
		}
	}
	return nil
}

// InsertRelativeImportSuffix rewrites a bare-dots relative import ("from .
// import name" or "from .. import name") that binds name as a plain
// (non-aliased) import into one that routes through suffix, e.g. "from .
// import b" with suffix "sub" becomes "from .sub import b". It leaves the
// bound name and the dot count untouched, and does nothing to a
// relative_import that already carries a dotted suffix (RenameImport's
// oldModule/newModule matching handles that shape).
func (t *Tree) InsertRelativeImportSuffix(name, suffix string) (*Tree, int) {
	if name == "" || suffix == "" {
		return t, 0
	}
	var edits []replacement
	count := 0
	walk(t.root, func(n *sitter.Node) bool {
		if n.Type() != "import_from_statement" {
			return true
		}
		mod := n.ChildByFieldName("module_name")
		if mod == nil || mod.Type() != "relative_import" || relativeImportSuffix(mod) != nil {
			return true
		}
		if boundPlainName(n, mod, name, t.source) == nil {
			return true
		}
		prefix := relativeImportPrefix(mod, t.source)
		edits = append(edits, replacement{int(mod.StartByte()), int(mod.EndByte()), []byte(prefix + suffix)})
		count++
		return false
	})
	if len(edits) == 0 {
		return t, 0
	}
	next, err := t.splice(edits)
	if err != nil {
		return t, 0
	}
	return next, count
}
