package planner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/refactorkit/refactorkit/modpath"
)

// ensurePackageMarkerEdits stages an __init__.py creation edit for dir and
// every ancestor up to (but not including) root that doesn't already have
// one, so a move into a brand-new package directory makes it importable.
// Mirrors walker.EnsurePackageMarker's content convention, but staged as
// edits so dry-run reports the new files and commit writes them
// atomically alongside everything else.
func ensurePackageMarkerEdits(root, dir string) ([]edit, error) {
	var edits []edit

	for {
		rel, err := filepath.Rel(root, dir)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			break
		}

		marker := filepath.Join(dir, modpath.PackageMarker)
		if _, err := os.Stat(marker); err == nil {
			break // an existing marker implies its ancestors have one too
		} else if !os.IsNotExist(err) {
			return nil, err
		}

		content := `"""` + filepath.Base(dir) + ` package."""` + "\n"
		edits = append(edits, edit{path: marker, before: "", after: content, newFile: true})

		dir = filepath.Dir(dir)
	}

	return edits, nil
}
