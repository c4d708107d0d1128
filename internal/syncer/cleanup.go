package syncer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/JustAGhosT/agentkit-forge/internal/manifest"
	"github.com/JustAGhosT/agentkit-forge/internal/platform"
	mapset "github.com/deckarep/golang-set/v2"
)

// StalePaths returns paths tracked by previous but absent from current, sorted.
func StalePaths(previous, current manifest.Files) []string {
	prev := mapset.NewSet(previous.Paths()...)
	curr := mapset.NewSet(current.Paths()...)

	stale := prev.Difference(curr).ToSlice()
	sort.Strings(stale)
	return stale
}

// cleanStale deletes files the previous sync generated that this one did not.
// Entries resolving outside targetRoot are never deleted. Every problem is a
// warning; cleanup always continues with the remaining entries.
func (e *Engine) cleanStale(targetRoot string, previous, current manifest.Files, result *Result) {
	for _, rel := range StalePaths(previous, current) {
		dest, ok := platform.ResolveUnder(targetRoot, rel)
		if !ok {
			e.log.Warn("BLOCKED: path traversal in manifest", "path", rel)
			result.Warnings = append(result.Warnings, Warning{Kind: WarnCleanupBlocked, Path: rel, Err: ErrPathTraversal})
			continue
		}

		info, err := os.Lstat(dest)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				e.log.Warn("could not inspect stale file", "path", rel, "error", err)
				result.Warnings = append(result.Warnings, Warning{Kind: WarnCleanup, Path: rel, Err: err})
			}
			continue
		}

		// The manifest only tracks files; anything else at the path is the project's.
		if !info.Mode().IsRegular() && info.Mode()&fs.ModeSymlink == 0 {
			e.log.Warn("stale path is not a file, leaving it", "path", rel)
			result.Warnings = append(result.Warnings, Warning{Kind: WarnCleanup, Path: rel, Err: ErrNotAFile})
			continue
		}

		if err := os.Remove(dest); err != nil {
			e.log.Warn("could not clean stale file", "path", rel, "error", err)
			result.Warnings = append(result.Warnings, Warning{Kind: WarnCleanup, Path: rel, Err: err})
			continue
		}

		result.Cleaned++
		e.log.Verbose(fmt.Sprintf("Cleaned stale file: %s", rel))
	}
}
