package cst

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// ImportSpec describes one import to ensure is present: either
// "import Module[ as Alias]" (IsFrom == false) or
// "from Module import Name[ as Alias]" (IsFrom == true).
type ImportSpec struct {
	Module  string
	Name    string // only meaningful when IsFrom
	Alias   string
	IsFrom  bool
}

// usedNames collects every identifier referenced outside of import
// statements, for RemoveUnusedImports to compare against.
func usedNames(root *sitter.Node, source []byte) map[string]bool {
	names := map[string]bool{}
	walk(root, func(n *sitter.Node) bool {
		if isImportNode(n) {
			return false
		}
		if n.Type() == "identifier" && !isAttributeAttrField(n) {
			names[n.Content(source)] = true
		}
		return true
	})
	return names
}

// importedLocalNames maps each local name an import statement binds (the
// alias if aliased, else the bound name) to the import statement node
// that binds it.
func importedLocalNames(root *sitter.Node, source []byte) map[string]*sitter.Node {
	out := map[string]*sitter.Node{}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		switch stmt.Type() {
		case "import_statement":
			for j := 0; j < int(stmt.NamedChildCount()); j++ {
				child := stmt.NamedChild(j)
				if child.Type() == "aliased_import" {
					alias := child.ChildByFieldName("alias")
					if alias != nil {
						out[alias.Content(source)] = stmt
					}
					continue
				}
				if child.Type() == "dotted_name" || child.Type() == "identifier" {
					local := child.Content(source)
					if i := indexOfByte(local, '.'); i >= 0 {
						local = local[:i]
					}
					out[local] = stmt
				}
			}
		case "import_from_statement":
			moduleNameNode := stmt.ChildByFieldName("module_name")
			for j := 0; j < int(stmt.NamedChildCount()); j++ {
				child := stmt.NamedChild(j)
				if moduleNameNode != nil && child.Equal(moduleNameNode) {
					continue
				}
				switch child.Type() {
				case "aliased_import":
					alias := child.ChildByFieldName("alias")
					if alias != nil {
						out[alias.Content(source)] = stmt
					}
				case "dotted_name", "identifier":
					out[child.Content(source)] = stmt
				case "wildcard_import":
					// a star-import may bind anything; RemoveUnusedImports
					// never removes it.
					out["*"] = stmt
				}
			}
		}
	}
	return out
}

func indexOfByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// RemoveUnusedImports removes whole import statements whose bound local
// name is never referenced elsewhere in the file. A wildcard import is
// never removed, since it may bind any name.
func (t *Tree) RemoveUnusedImports() (*Tree, []string) {
	used := usedNames(t.root, t.source)
	locals := importedLocalNames(t.root, t.source)

	var edits []replacement
	var removed []string
	seen := map[*sitter.Node]bool{}

	for local, stmt := range locals {
		if local == "*" || used[local] {
			continue
		}
		if !removed_allNamesUnused(stmt, t.source, used) {
			continue
		}
		if seen[stmt] {
			continue
		}
		seen[stmt] = true
		start := int(stmt.StartByte())
		end := int(stmt.EndByte())
		if end < len(t.source) && t.source[end] == '\n' {
			end++
		}
		edits = append(edits, replacement{start, end, nil})
		removed = append(removed, local)
	}

	if len(edits) == 0 {
		return t, nil
	}
	next, err := t.splice(edits)
	if err != nil {
		return t, nil
	}
	return next, removed
}

// removed_allNamesUnused reports whether every local name bound by stmt is
// unused, so the whole statement can go rather than just one alias within
// it. refactorkit only ever removes a whole import statement at a time
// (matching a single-file-at-a-time import hygiene pass); multi-name
// imports are kept if any one of their names is still used.
func removed_allNamesUnused(stmt *sitter.Node, source []byte, used map[string]bool) bool {
	anyBound := false
	moduleNameNode := stmt.ChildByFieldName("module_name")
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		if moduleNameNode != nil && child.Equal(moduleNameNode) {
			continue
		}
		var local string
		switch child.Type() {
		case "aliased_import":
			alias := child.ChildByFieldName("alias")
			if alias == nil {
				continue
			}
			local = alias.Content(source)
		case "dotted_name", "identifier":
			local = child.Content(source)
			if i := indexOfByte(local, '.'); i >= 0 {
				local = local[:i]
			}
		default:
			continue
		}
		anyBound = true
		if used[local] {
			return false
		}
	}
	return anyBound
}

// EnsureImports adds each spec not already bound under its intended local
// name, after the existing import block.
func (t *Tree) EnsureImports(specs []ImportSpec) (*Tree, error) {
	cur := t
	locals := importedLocalNames(t.root, t.source)

	for _, spec := range specs {
		local := spec.Alias
		if local == "" {
			if spec.IsFrom {
				local = spec.Name
			} else {
				local = spec.Module
				if i := indexOfByte(local, '.'); i >= 0 {
					local = local[:i]
				}
			}
		}
		if _, ok := locals[local]; ok {
			continue
		}

		var next *Tree
		var err error
		if spec.IsFrom {
			next, err = cur.AddFromImport(spec.Module, spec.Name, spec.Alias)
		} else {
			next, err = cur.AddPlainImport(spec.Module, spec.Alias)
		}
		if err != nil {
			return nil, err
		}
		cur = next
		locals[local] = cur.root
	}

	return cur, nil
}
