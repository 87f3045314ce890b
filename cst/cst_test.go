package cst_test

import (
	"testing"

	"github.com/refactorkit/refactorkit/cst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `import os
from pkg.util import helper as h


def greet(name):
    # say hi
    return helper(name)


class Greeter:
    def run(self):
        return greet("x")
`

func TestRoundTrip(t *testing.T) {
	tree, err := cst.Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, sample, string(tree.Source()))
}

func TestRenameNameRenamesDefinitionAndCall(t *testing.T) {
	tree, err := cst.Parse([]byte(sample))
	require.NoError(t, err)

	next, n := tree.RenameName("greet", "salute")
	assert.Equal(t, 2, n)
	assert.Contains(t, string(next.Source()), "def salute(name):")
	assert.Contains(t, string(next.Source()), `return salute("x")`)
	assert.NotContains(t, string(next.Source()), "def greet")
}

func TestExtractAndRemoveDefinition(t *testing.T) {
	tree, err := cst.Parse([]byte(sample))
	require.NoError(t, err)

	code, ok := tree.ExtractDefinition("greet")
	require.True(t, ok)
	assert.Contains(t, code, "def greet(name):")

	next, removed := tree.RemoveDefinition("greet")
	require.True(t, removed)
	assert.NotContains(t, string(next.Source()), "def greet")
}

func TestRemoveUnusedImports(t *testing.T) {
	src := "import os\nimport sys\n\n\ndef f():\n    return sys.path\n"
	tree, err := cst.Parse([]byte(src))
	require.NoError(t, err)

	next, removed := tree.RemoveUnusedImports()
	assert.Equal(t, []string{"os"}, removed)
	assert.NotContains(t, string(next.Source()), "import os")
	assert.Contains(t, string(next.Source()), "import sys")
}

func TestEnsureImportsIsIdempotent(t *testing.T) {
	tree, err := cst.Parse([]byte("import os\n"))
	require.NoError(t, err)

	next, err := tree.EnsureImports([]cst.ImportSpec{
		{Module: "pkg.util", Name: "helper", IsFrom: true},
	})
	require.NoError(t, err)
	assert.Contains(t, string(next.Source()), "from pkg.util import helper")

	again, err := next.EnsureImports([]cst.ImportSpec{
		{Module: "pkg.util", Name: "helper", IsFrom: true},
	})
	require.NoError(t, err)
	assert.Equal(t, string(next.Source()), string(again.Source()))
}
