package diffutil_test

import (
	"testing"

	"github.com/refactorkit/refactorkit/diffutil"
	"github.com/stretchr/testify/assert"
)

func TestUnifiedEdit(t *testing.T) {
	before := "def f():\n    return 1\n"
	after := "def f():\n    return 2\n"

	out := diffutil.Unified(diffutil.Change{
		OldPath: "mod.py", NewPath: "mod.py",
		Before: before, After: after, Kind: "edit",
	})

	assert.Contains(t, out, "--- a/mod.py")
	assert.Contains(t, out, "+++ b/mod.py")
	assert.Contains(t, out, "-    return 1")
	assert.Contains(t, out, "+    return 2")
}

func TestUnifiedRenameTrailers(t *testing.T) {
	out := diffutil.Unified(diffutil.Change{
		OldPath: "old.py", NewPath: "new.py",
		Before: "x = 1\n", After: "x = 1\n", Kind: "rename",
	})
	assert.Contains(t, out, "rename from old.py")
	assert.Contains(t, out, "rename to new.py")
}

func TestUnifiedNoChangeProducesNoHunks(t *testing.T) {
	out := diffutil.Unified(diffutil.Change{
		OldPath: "mod.py", NewPath: "mod.py",
		Before: "x = 1\n", After: "x = 1\n", Kind: "edit",
	})
	assert.NotContains(t, out, "@@")
}
