package depgraph_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/refactorkit/refactorkit/depgraph"
	"github.com/refactorkit/refactorkit/rkerr"
	"github.com/refactorkit/refactorkit/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTable(t *testing.T, files map[string]string) (*symtab.SymbolTable, string) {
	t.Helper()
	root := t.TempDir()
	var paths []string
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths = append(paths, path)
	}
	st, err := symtab.Build(root, paths, nil)
	require.NoError(t, err)
	return st, root
}

func TestAnalyzeClassifiesImportAndInternal(t *testing.T) {
	st, root := buildTable(t, map[string]string{
		"mod.py": "import os\n\n\ndef helper():\n    return 1\n\n\ndef run():\n    return helper() + len(os.sep)\n",
	})
	file := filepath.Join(root, "mod.py")
	a := depgraph.NewAnalyzer(st)

	def := st.FindDefinition(file, "run")
	require.NotNil(t, def)

	deps, err := a.Analyze(file, def)
	require.NoError(t, err)
	assert.Contains(t, deps.InternalDependencies, "helper")
	require.Len(t, deps.RequiredImports, 1)
	assert.Equal(t, "os", deps.RequiredImports[0].Names[0].Name)
}

func TestClosurePullsInTransitiveDependency(t *testing.T) {
	st, root := buildTable(t, map[string]string{
		"mod.py": "def base():\n    return 1\n\n\ndef middle():\n    return base() + 1\n\n\ndef top():\n    return middle() + 1\n",
	})
	file := filepath.Join(root, "mod.py")
	a := depgraph.NewAnalyzer(st)

	result, err := a.Closure(file, []string{"top"}, depgraph.Reject)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"top", "middle", "base"}, result.Moving)
}

func TestClosureRejectsSharedDependency(t *testing.T) {
	st, root := buildTable(t, map[string]string{
		"mod.py": "def shared():\n    return 1\n\n\ndef a():\n    return shared() + 1\n\n\ndef b():\n    return shared() + 2\n",
	})
	file := filepath.Join(root, "mod.py")
	a := depgraph.NewAnalyzer(st)

	_, err := a.Closure(file, []string{"a"}, depgraph.Reject)
	require.Error(t, err)

	var cd *rkerr.CircularDependency
	require.ErrorAs(t, err, &cd)
	assert.Equal(t, []string{"shared"}, cd.Shared)
}

func TestClosureExtractPolicyRecordsSharedDependency(t *testing.T) {
	st, root := buildTable(t, map[string]string{
		"mod.py": "def shared():\n    return 1\n\n\ndef a():\n    return shared() + 1\n\n\ndef b():\n    return shared() + 2\n",
	})
	file := filepath.Join(root, "mod.py")
	a := depgraph.NewAnalyzer(st)

	result, err := a.Closure(file, []string{"a"}, depgraph.Extract)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, result.Moving)
	assert.Equal(t, []string{"shared"}, result.Extracted)
}
