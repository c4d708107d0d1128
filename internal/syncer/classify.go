package syncer

import (
	"errors"
	"io/fs"
	"os"

	"github.com/JustAGhosT/agentkit-forge/internal/platform"
	"github.com/JustAGhosT/agentkit-forge/internal/scaffold"
)

// Class is the verdict for one staged path.
type Class string

const (
	ClassCreate       Class = "create"
	ClassUpdate       Class = "update"
	ClassUnchanged    Class = "unchanged"
	ClassSkipScaffold Class = "skip-scaffold"
	ClassBlocked      Class = "blocked-traversal"
)

// Verdict is the outcome of the checks shared by diff and apply.
type Verdict struct {
	Class  Class
	Dest   string
	Exists bool
}

// Classify resolves rel under targetRoot and applies the path guard and the
// scaffold-once policy. It never reads file content, so the only classes it
// returns are blocked, skip-scaffold, create, and update (meaning "exists").
func Classify(targetRoot, rel string, policy *scaffold.Policy, overwrite bool) Verdict {
	dest, ok := platform.ResolveUnder(targetRoot, rel)
	if !ok {
		return Verdict{Class: ClassBlocked, Dest: dest}
	}

	exists := pathExists(dest)
	if exists && !overwrite && policy.IsScaffoldOnce(rel) {
		return Verdict{Class: ClassSkipScaffold, Dest: dest, Exists: true}
	}
	if !exists {
		return Verdict{Class: ClassCreate, Dest: dest}
	}
	return Verdict{Class: ClassUpdate, Dest: dest, Exists: true}
}

// pathExists treats anything other than a clean not-exist as present.
func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
