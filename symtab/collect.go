package symtab

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/refactorkit/refactorkit/cst"
	"github.com/refactorkit/refactorkit/modpath"
)

func locationOf(n *sitter.Node, file string) Location {
	sp, ep := n.StartPoint(), n.EndPoint()
	return Location{
		File:       file,
		Line:       int(sp.Row) + 1,
		Column:     int(sp.Column),
		EndLine:    int(ep.Row) + 1,
		EndColumn:  int(ep.Column),
		Offset:     int(n.StartByte()),
		EndOffset:  int(n.EndByte()),
	}
}

// collector walks a file's CST, mirroring the source symbol collector:
// track a class/function scope stack for qualified names, record
// definitions for class/function defs (at any depth) and module-level
// assignments, and record every non-import identifier as a reference.
type collector struct {
	file, module string
	source       []byte
	scope        []string

	defs []Definition
	refs []Reference
	imps []ImportRecord
}

func (c *collector) qualify(name string) string {
	if len(c.scope) == 0 {
		return modpath.Join(c.module, name)
	}
	return modpath.Join(c.module, strings.Join(c.scope, ".")) + "." + name
}

func (c *collector) walk(n *sitter.Node) {
	if n == nil {
		return
	}

	switch n.Type() {
	case "function_definition", "class_definition":
		nameNode := n.ChildByFieldName("name")
		name := ""
		if nameNode != nil {
			name = nameNode.Content(c.source)
		}
		kind := KindFunction
		if n.Type() == "class_definition" {
			kind = KindClass
		}
		if nameNode != nil {
			c.defs = append(c.defs, Definition{
				Name:          name,
				QualifiedName: c.qualify(name),
				Location:      locationOf(nameNode, c.file),
				Kind:          kind,
				TopLevel:      len(c.scope) == 0,
			})
		}
		c.scope = append(c.scope, name)
		for i := 0; i < int(n.ChildCount()); i++ {
			c.walk(n.Child(i))
		}
		c.scope = c.scope[:len(c.scope)-1]
		return

	case "assignment":
		if len(c.scope) == 0 {
			if left := n.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
				name := left.Content(c.source)
				c.defs = append(c.defs, Definition{
					Name:          name,
					QualifiedName: c.qualify(name),
					Location:      locationOf(left, c.file),
					Kind:          KindVariable,
					TopLevel:      true,
				})
			}
		}

	case "import_statement":
		c.imps = append(c.imps, collectImportStatement(n, c.source, c.file)...)
		return

	case "import_from_statement":
		c.imps = append(c.imps, collectImportFromStatement(n, c.source, c.file))
		return

	case "identifier":
		if !isAttributeAttrFieldLike(n) {
			c.refs = append(c.refs, Reference{Name: n.Content(c.source), Location: locationOf(n, c.file)})
		}
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		c.walk(n.Child(i))
	}
}

func isAttributeAttrFieldLike(n *sitter.Node) bool {
	p := n.Parent()
	if p == nil || p.Type() != "attribute" {
		return false
	}
	attr := p.ChildByFieldName("attribute")
	return attr != nil && attr.Equal(n)
}

func collectImportStatement(n *sitter.Node, source []byte, file string) []ImportRecord {
	var names []ImportedName
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "aliased_import" {
			moduleNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if moduleNode != nil && aliasNode != nil {
				names = append(names, ImportedName{Name: moduleNode.Content(source), Alias: aliasNode.Content(source)})
			}
		} else if child.Type() == "dotted_name" || child.Type() == "identifier" {
			names = append(names, ImportedName{Name: child.Content(source)})
		}
	}
	if len(names) == 0 {
		return nil
	}
	return []ImportRecord{{Names: names, Location: locationOf(n, file), IsFromImport: false}}
}

func collectImportFromStatement(n *sitter.Node, source []byte, file string) ImportRecord {
	var module string
	moduleNode := n.ChildByFieldName("module_name")

	if moduleNode != nil && moduleNode.Type() == "relative_import" {
		dots, suffix := 0, ""
		for i := 0; i < int(moduleNode.NamedChildCount()); i++ {
			sub := moduleNode.NamedChild(i)
			if sub.Type() == "import_prefix" {
				dots = strings.Count(sub.Content(source), ".")
			} else if sub.Type() == "dotted_name" {
				suffix = sub.Content(source)
			}
		}
		module = strings.Repeat(".", dots) + suffix
	} else if moduleNode != nil {
		module = moduleNode.Content(source)
	}

	var names []ImportedName
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if moduleNode != nil && child.Equal(moduleNode) {
			continue
		}
		switch child.Type() {
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode != nil {
				an := ImportedName{Name: nameNode.Content(source)}
				if aliasNode != nil {
					an.Alias = aliasNode.Content(source)
				}
				names = append(names, an)
			}
		case "dotted_name", "identifier":
			names = append(names, ImportedName{Name: child.Content(source)})
		case "wildcard_import":
			names = append(names, ImportedName{Name: "*"})
		}
	}

	return ImportRecord{Module: module, Names: names, Location: locationOf(n, file), IsFromImport: true}
}

// collectFile parses source and walks it into a FileSymbols, given the
// file's project-relative path and its dotted module name.
func collectFile(file, module string, source []byte) (*FileSymbols, error) {
	tree, err := cst.Parse(source)
	if err != nil {
		return nil, err
	}

	c := &collector{file: file, module: module, source: source}
	c.walk(tree.Root())

	return &FileSymbols{
		File:        file,
		Module:      module,
		Source:      source,
		Tree:        tree,
		Definitions: c.defs,
		References:  c.refs,
		Imports:     c.imps,
	}, nil
}
