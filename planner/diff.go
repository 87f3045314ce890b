package planner

import "github.com/refactorkit/refactorkit/diffutil"

func renderDiff(root string, e edit) string {
	oldRel := relOrSelf(root, e.path)
	newRel := oldRel
	kind := "edit"

	switch {
	case e.removed:
		return diffutil.Unified(diffutil.Change{OldPath: oldRel, NewPath: oldRel, Before: e.before, After: "", Kind: "edit"})
	case e.renamedTo != "":
		newRel = relOrSelf(root, e.renamedTo)
		kind = "rename"
	case e.movedTo != "":
		newRel = relOrSelf(root, e.movedTo)
		kind = "move"
	case e.newFile:
		kind = "create"
	}

	return diffutil.Unified(diffutil.Change{
		OldPath: oldRel,
		NewPath: newRel,
		Before:  e.before,
		After:   e.after,
		Kind:    kind,
	})
}
