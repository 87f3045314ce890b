// Package cst is refactorkit's concrete-syntax-tree façade: a thin layer
// over tree-sitter's Python grammar that treats every edit as a byte-range
// splice against the current source followed by a reparse, so trivia
// (whitespace, comments, string quoting) that no edit touches survives
// untouched. go-tree-sitter exposes a parser and a read-only tree, not a
// mutable one with a pretty-printer, so "transform" here means "compute
// non-overlapping replacements, splice, reparse" rather than "rewrite
// nodes in place".
package cst

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Tree is a parsed Python source file. It is immutable: every mutating
// method returns a new *Tree and leaves the receiver untouched.
type Tree struct {
	source []byte
	root   *sitter.Node
}

// Parse parses source as Python and returns its CST.
func Parse(source []byte) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	defer parser.Close()

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("cst: parse: %w", err)
	}
	return &Tree{source: source, root: tree.RootNode()}, nil
}

// Source returns the tree's current text. Printing a Tree is simply
// reading this slice: no separate "print" pass exists, because every edit
// already produced this exact text.
func (t *Tree) Source() []byte { return t.source }

// Root returns the tree-sitter root node, for callers (symtab, depgraph)
// that need to walk the tree directly rather than through an edit
// primitive.
func (t *Tree) Root() *sitter.Node { return t.root }

// replacement is a half-open byte range [Start, End) in the current
// source, to be replaced by Text.
type replacement struct {
	Start, End int
	Text       []byte
}

// splice applies non-overlapping replacements (in any order) to t.source
// and reparses the result.
func (t *Tree) splice(edits []replacement) (*Tree, error) {
	if len(edits) == 0 {
		return t, nil
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].Start < edits[j].Start })

	var out []byte
	cursor := 0
	for _, e := range edits {
		if e.Start < cursor {
			return nil, fmt.Errorf("cst: overlapping edits at byte %d", e.Start)
		}
		out = append(out, t.source[cursor:e.Start]...)
		out = append(out, e.Text...)
		cursor = e.End
	}
	out = append(out, t.source[cursor:]...)

	return Parse(out)
}

func walk(n *sitter.Node, visit func(n *sitter.Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

func isImportNode(n *sitter.Node) bool {
	t := n.Type()
	return t == "import_statement" || t == "import_from_statement"
}

// isAttributeAttrField reports whether n is the "attribute" field of a
// parent attribute node (the right-hand member in "object.attribute"),
// which RenameName leaves untouched — that rename needs a known qualifier
// and belongs to RenameAttribute instead.
func isAttributeAttrField(n *sitter.Node) bool {
	p := n.Parent()
	if p == nil || p.Type() != "attribute" {
		return false
	}
	return p.ChildByFieldName("attribute").Equal(n)
}

func dottedName(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	switch n.Type() {
	case "identifier", "dotted_name":
		return n.Content(source)
	case "attribute":
		obj := n.ChildByFieldName("object")
		attr := n.ChildByFieldName("attribute")
		return dottedName(obj, source) + "." + attr.Content(source)
	default:
		return n.Content(source)
	}
}

func makeDottedName(name string) string {
	return strings.Trim(name, ".")
}
