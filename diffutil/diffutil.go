// Package diffutil renders refactorkit's dry-run output: a unified diff
// per changed file, plus rename/move trailer lines. No third-party
// unified-diff generator is wired anywhere in the pack as a direct
// dependency (github.com/pmezard/go-difflib only ever appears transitively
// via testify), so this one component is a longest-common-subsequence line
// differ over the standard library.
package diffutil

import (
	"fmt"
	"strings"
)

// Change describes one file's before/after state for dry-run rendering.
// Either Before or After may be empty (file created or removed); OldPath
// and NewPath differ for a rename/move.
type Change struct {
	OldPath, NewPath string
	Before, After    string
	// Kind is "edit", "rename", "move", or "create"; it only changes the
	// trailer lines emitted, not the diff body.
	Kind string
}

// Unified renders c as a unified diff with "a/<path>"/"b/<path>" headers
// and, for renames/moves, "rename from"/"rename to" or "move from"/
// "move to" trailer lines.
func Unified(c Change) string {
	var b strings.Builder

	fmt.Fprintf(&b, "--- a/%s\n", c.OldPath)
	fmt.Fprintf(&b, "+++ b/%s\n", c.NewPath)

	switch c.Kind {
	case "rename":
		fmt.Fprintf(&b, "rename from %s\n", c.OldPath)
		fmt.Fprintf(&b, "rename to %s\n", c.NewPath)
	case "move":
		fmt.Fprintf(&b, "move from %s\n", c.OldPath)
		fmt.Fprintf(&b, "move to %s\n", c.NewPath)
	case "create":
		fmt.Fprintf(&b, "new file: %s\n", c.NewPath)
	}

	for _, hunk := range hunks(splitLines(c.Before), splitLines(c.After)) {
		b.WriteString(hunk)
	}

	return b.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// op is one entry of an edit script between two line sequences.
type op struct {
	kind rune // ' ', '-', '+'
	line string
}

// diffLines computes a line-level edit script from a full O(N*M)
// longest-common-subsequence table.
func diffLines(a, b []string) []op {
	n, m := len(a), len(b)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var ops []op
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			ops = append(ops, op{' ', a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, op{'-', a[i]})
			i++
		default:
			ops = append(ops, op{'+', b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, op{'-', a[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, op{'+', b[j]})
	}
	return ops
}

// hunks groups an edit script into unified-diff hunks with three lines of
// context, formatted with @@ headers.
func hunks(a, b []string) []string {
	ops := diffLines(a, b)
	const context = 3

	type hunkSpan struct{ start, end int }
	var spans []hunkSpan
	i := 0
	for i < len(ops) {
		if ops[i].kind == ' ' {
			i++
			continue
		}
		start := i
		for i < len(ops) {
			if ops[i].kind != ' ' {
				i++
				continue
			}
			// look ahead: is this a short gap between two changed runs?
			j := i
			for j < len(ops) && ops[j].kind == ' ' {
				j++
			}
			if j-i <= 2*context && j < len(ops) {
				i = j
				continue
			}
			break
		}
		end := i
		spans = append(spans, hunkSpan{start, end})
	}
	if len(spans) == 0 {
		return nil
	}

	var out []string
	for _, s := range spans {
		start := s.start
		for k := 0; k < context && start > 0 && ops[start-1].kind == ' '; k++ {
			start--
		}
		end := s.end
		for k := 0; k < context && end < len(ops) && ops[end].kind == ' '; k++ {
			end++
		}

		oldLine, newLine := lineNumbersBefore(ops, start)
		oldCount, newCount := 0, 0
		var body strings.Builder
		for _, o := range ops[start:end] {
			switch o.kind {
			case ' ':
				oldCount++
				newCount++
				body.WriteString(" " + o.line)
			case '-':
				oldCount++
				body.WriteString("-" + o.line)
			case '+':
				newCount++
				body.WriteString("+" + o.line)
			}
		}
		out = append(out, fmt.Sprintf("@@ -%d,%d +%d,%d @@\n%s", oldLine+1, oldCount, newLine+1, newCount, body.String()))
	}
	return out
}

func lineNumbersBefore(ops []op, upto int) (oldLine, newLine int) {
	for _, o := range ops[:upto] {
		switch o.kind {
		case ' ':
			oldLine++
			newLine++
		case '-':
			oldLine++
		case '+':
			newLine++
		}
	}
	return
}
