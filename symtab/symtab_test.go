package symtab_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/refactorkit/refactorkit/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, root string, files map[string]string) []string {
	t.Helper()
	var paths []string
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths = append(paths, path)
	}
	return paths
}

func TestBuildAndFindDefinition(t *testing.T) {
	root := t.TempDir()
	paths := writeProject(t, root, map[string]string{
		"pkg/util.py": "def helper():\n    return 1\n",
		"pkg/main.py": "from pkg.util import helper\n\n\ndef run():\n    return helper()\n",
	})

	st, err := symtab.Build(root, paths, nil)
	require.NoError(t, err)

	def := st.FindDefinition(filepath.Join(root, "pkg/util.py"), "helper")
	require.NotNil(t, def)
	assert.Equal(t, symtab.KindFunction, def.Kind)
	assert.True(t, def.TopLevel)
}

func TestFindAllDefinitionsByNameIsOrderIndependent(t *testing.T) {
	root := t.TempDir()
	paths := writeProject(t, root, map[string]string{
		"a.py": "def helper():\n    pass\n",
		"b.py": "def helper():\n    pass\n",
	})

	st1, err := symtab.Build(root, paths, nil)
	require.NoError(t, err)
	st2, err := symtab.Build(root, []string{paths[1], paths[0]}, nil)
	require.NoError(t, err)

	defs1 := st1.FindAllDefinitionsByName("helper")
	defs2 := st2.FindAllDefinitionsByName("helper")
	require.Len(t, defs1, 2)
	require.Len(t, defs2, 2)
	assert.Equal(t, defs1[0].Location.File, defs2[0].Location.File)
	assert.Equal(t, defs1[1].Location.File, defs2[1].Location.File)
}

func TestFindAllReferencesAcrossImport(t *testing.T) {
	root := t.TempDir()
	paths := writeProject(t, root, map[string]string{
		"pkg/util.py": "def helper():\n    return 1\n",
		"pkg/main.py": "from pkg.util import helper\n\n\ndef run():\n    return helper()\n",
	})

	st, err := symtab.Build(root, paths, nil)
	require.NoError(t, err)

	refs := st.FindAllReferences("helper", filepath.Join(root, "pkg/util.py"))
	files := map[string]bool{}
	for _, r := range refs {
		files[r.File] = true
	}
	assert.True(t, files[filepath.Join(root, "pkg/main.py")])
}
