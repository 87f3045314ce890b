package planner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/refactorkit/refactorkit/depgraph"
	"github.com/refactorkit/refactorkit/planner"
	"github.com/refactorkit/refactorkit/rkerr"
	"github.com/refactorkit/refactorkit/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func read(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	return string(data)
}

func TestRenameSymbolAcrossImporters(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		"pkg/util.py": "def helper():\n    return 1\n",
		"pkg/main.py": "from pkg.util import helper\n\n\ndef run():\n    return helper()\n",
	})

	spec, err := target.Parse("pkg/util.py::helper")
	require.NoError(t, err)

	res, err := planner.RenameSymbol(root, spec, "assist", planner.Options{})
	require.NoError(t, err)
	assert.Contains(t, res.ChangedFiles, "pkg/util.py")
	assert.Contains(t, res.ChangedFiles, "pkg/main.py")

	assert.Contains(t, read(t, root, "pkg/util.py"), "def assist():")
	main := read(t, root, "pkg/main.py")
	assert.Contains(t, main, "from pkg.util import assist")
	assert.Contains(t, main, "return assist()")
	assert.NotContains(t, main, "helper")
}

func TestRenameSymbolDryRunLeavesFilesUntouched(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		"pkg/util.py": "def helper():\n    return 1\n",
	})

	spec, err := target.Parse("pkg/util.py::helper")
	require.NoError(t, err)

	res, err := planner.RenameSymbol(root, spec, "assist", planner.Options{DryRun: true})
	require.NoError(t, err)
	require.Len(t, res.Diffs, 1)
	assert.Contains(t, res.Diffs[0], "-def helper():")
	assert.Contains(t, res.Diffs[0], "+def assist():")
	assert.Contains(t, read(t, root, "pkg/util.py"), "def helper():")
}

func TestRenameSymbolUpdatesAttributeAccessAfterPlainImport(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		"utils.py": "def helper_function():\n    return 1\n",
		"main.py":  "import utils\n\n\ndef run():\n    return utils.helper_function()\n",
	})

	spec, err := target.Parse("utils.py::helper_function")
	require.NoError(t, err)

	res, err := planner.RenameSymbol(root, spec, "helper", planner.Options{})
	require.NoError(t, err)
	assert.Contains(t, res.ChangedFiles, "main.py")

	main := read(t, root, "main.py")
	assert.Contains(t, main, "import utils")
	assert.Contains(t, main, "utils.helper()")
	assert.NotContains(t, main, "helper_function")
}

func TestMoveSymbolCreatesDestinationAndRepointsImporters(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		"pkg/util.py": "def helper():\n    return 1\n",
		"pkg/main.py": "from pkg.util import helper\n\n\ndef run():\n    return helper()\n",
	})

	spec, err := target.Parse("pkg/util.py::helper")
	require.NoError(t, err)

	res, err := planner.MoveSymbol(root, spec, "pkg/tools.py", planner.Options{})
	require.NoError(t, err)
	assert.Contains(t, res.ChangedFiles, "pkg/tools.py")

	dest := read(t, root, "pkg/tools.py")
	assert.Contains(t, dest, "def helper():")

	src := read(t, root, "pkg/util.py")
	assert.NotContains(t, src, "def helper()")

	main := read(t, root, "pkg/main.py")
	assert.Contains(t, main, "from pkg.tools import helper")
}

func TestMoveSymbolRejectsSharedPrivateDependency(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		"pkg/util.py": "def _shared():\n    return 1\n\n\ndef moving():\n    return _shared()\n\n\ndef staying():\n    return _shared()\n",
	})

	spec, err := target.Parse("pkg/util.py::moving")
	require.NoError(t, err)

	_, err = planner.MoveSymbol(root, spec, "pkg/tools.py", planner.Options{Policy: depgraph.Reject})
	require.Error(t, err)

	var cd *rkerr.CircularDependency
	require.ErrorAs(t, err, &cd)
	assert.Equal(t, []string{"_shared"}, cd.Shared)
}

func TestMoveSymbolExtractsSharedPrivateDependency(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		"pkg/util.py": "def _shared():\n    return 1\n\n\ndef moving():\n    return _shared()\n\n\ndef staying():\n    return _shared()\n",
	})

	spec, err := target.Parse("pkg/util.py::moving")
	require.NoError(t, err)

	res, err := planner.MoveSymbol(root, spec, "pkg/tools.py", planner.Options{Policy: depgraph.Extract})
	require.NoError(t, err)
	require.Len(t, res.Info, 1)

	dest := read(t, root, "pkg/tools.py")
	assert.Contains(t, dest, "def moving():")
	assert.Contains(t, dest, "from pkg.util_common import _shared")

	src := read(t, root, "pkg/util.py")
	assert.Contains(t, src, "def staying():")
	assert.Contains(t, src, "from pkg.util_common import _shared")

	shared := read(t, root, "pkg/util_common.py")
	assert.Contains(t, shared, "def _shared():")
}

func TestRenameFileUpdatesImporters(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		"pkg/util.py": "def helper():\n    return 1\n",
		"pkg/main.py": "from pkg.util import helper\n\n\ndef run():\n    return helper()\n",
	})

	res, err := planner.RenameFile(root, "pkg/util.py", "pkg/utility.py", planner.Options{})
	require.NoError(t, err)
	assert.Contains(t, res.ChangedFiles, "pkg/utility.py")

	_, err = os.Stat(filepath.Join(root, "pkg/util.py"))
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, read(t, root, "pkg/utility.py"), "def helper():")
	assert.Contains(t, read(t, root, "pkg/main.py"), "from pkg.utility import helper")
}

func TestRenameFileUpdatesRelativeImports(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		"pkg/__init__.py": "",
		"pkg/util.py":     "def helper():\n    return 1\n",
		"pkg/a.py":        "from .util import helper\n\n\ndef run():\n    return helper()\n",
		"pkg/b.py":        "from . import util\n\n\ndef run():\n    return util.helper()\n",
	})

	res, err := planner.RenameFile(root, "pkg/util.py", "pkg/utility.py", planner.Options{})
	require.NoError(t, err)
	assert.Contains(t, res.ChangedFiles, "pkg/utility.py")

	assert.Contains(t, read(t, root, "pkg/a.py"), "from .utility import helper")
	assert.Contains(t, read(t, root, "pkg/b.py"), "from . import utility")
}

func TestMoveFileRepointsBareDotsRelativeImport(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		"pkg/__init__.py": "",
		"pkg/a.py":         "from . import b\n\n\ndef run():\n    return b.helper()\n",
		"pkg/b.py":         "def helper():\n    return 1\n",
	})

	res, err := planner.MoveFile(root, "pkg/b.py", "pkg/sub/b.py", planner.Options{})
	require.NoError(t, err)
	assert.Contains(t, res.ChangedFiles, "pkg/sub/b.py")

	assert.Contains(t, read(t, root, "pkg/a.py"), "from .sub import b")
	assert.FileExists(t, filepath.Join(root, "pkg/sub/__init__.py"))
}

func TestMoveFileAcrossDirectoriesSeedsPackageMarker(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root, map[string]string{
		"pkg/util.py":  "def helper():\n    return 1\n",
		"pkg/main.py":  "from pkg.util import helper\n\n\ndef run():\n    return helper()\n",
		"pkg/__init__.py": "",
	})

	res, err := planner.MoveFile(root, "pkg/util.py", "lib/util.py", planner.Options{})
	require.NoError(t, err)
	assert.Contains(t, res.ChangedFiles, "lib/util.py")

	_, err = os.Stat(filepath.Join(root, "pkg/util.py"))
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, read(t, root, "lib/util.py"), "def helper():")
	assert.Contains(t, read(t, root, "pkg/main.py"), "from lib.util import helper")
	assert.FileExists(t, filepath.Join(root, "lib/__init__.py"))
}
