package syncer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/JustAGhosT/agentkit-forge/internal/manifest"
	"github.com/JustAGhosT/agentkit-forge/internal/platform"
	"github.com/dustin/go-humanize"
)

// ApplyOptions controls one apply.
type ApplyOptions struct {
	Overwrite bool // bypass scaffold-once protection
	NoClean   bool // keep stale files from the previous manifest
	Version   string
	RepoName  string
}

// Result is the outcome of an apply. It is returned alongside a *WriteError
// too, so callers can report what did succeed.
type Result struct {
	Written         int
	SkippedScaffold int
	Cleaned         int
	BytesWritten    int64
	Failures        []Failure
	Warnings        []Warning
	Manifest        *manifest.Manifest // nil unless the run succeeded
}

// HasWarning reports whether a warning of kind was recorded.
func (r *Result) HasWarning(kind WarningKind) bool {
	for _, w := range r.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

// Apply copies the staged files listed in files from the staging tree into
// targetRoot, in sorted path order. Every file is attempted; blocked paths
// and copy errors are collected and, if any occurred, the run fails with a
// *WriteError after removing the staging tree, without cleanup or a manifest
// write. On success stale files from the previous manifest are removed
// (unless NoClean), the new manifest is saved and the staging tree is removed.
func (e *Engine) Apply(staging *Staging, targetRoot string, files manifest.Files, opts ApplyOptions) (*Result, error) {
	result := &Result{}
	defer e.removeStaging(staging, &result.Warnings)

	previous := e.loadPrevious(result)

	e.log.Info("Writing outputs...")
	for _, rel := range files.Paths() {
		e.applyFile(staging, targetRoot, rel, opts.Overwrite, result)
	}

	if len(result.Failures) > 0 {
		e.removeStaging(staging, &result.Warnings)
		e.log.Error(fmt.Sprintf("%d file(s) failed to write", len(result.Failures)))
		for _, f := range result.Failures {
			e.log.Error("  - "+f.Path, "error", f.Err)
		}
		return result, &WriteError{Failures: result.Failures}
	}

	if !opts.NoClean && previous != nil {
		e.cleanStale(targetRoot, previous.Files, files, result)
	}

	m := manifest.New(opts.Version, opts.RepoName, tracked(files, result))
	if err := manifest.Save(e.manifestPath, m); err != nil {
		e.log.Warn("could not write manifest", "path", e.manifestPath, "error", err)
		result.Warnings = append(result.Warnings, Warning{Kind: WarnManifestWrite, Path: e.manifestPath, Err: err})
	}
	result.Manifest = m

	e.removeStaging(staging, &result.Warnings)

	if result.SkippedScaffold > 0 {
		e.log.Info(fmt.Sprintf("Skipped %d project-owned file(s) (already exist).", result.SkippedScaffold))
	}
	if result.Cleaned > 0 {
		e.log.Info(fmt.Sprintf("Cleaned %d stale file(s) from previous sync.", result.Cleaned))
	}
	e.log.Verbose(fmt.Sprintf("Wrote %d file(s) (%s).", result.Written, humanize.Bytes(uint64(result.BytesWritten))))
	return result, nil
}

// loadPrevious reads the previous manifest. Missing is silent; corrupt is a
// warning and counts as no previous state.
func (e *Engine) loadPrevious(result *Result) *manifest.Manifest {
	previous, err := manifest.Load(e.manifestPath)
	if err != nil {
		e.log.Warn("ignoring unreadable previous manifest", "path", e.manifestPath, "error", err)
		result.Warnings = append(result.Warnings, Warning{Kind: WarnManifestCorrupt, Path: e.manifestPath, Err: err})
		return nil
	}
	return previous
}

func (e *Engine) applyFile(staging *Staging, targetRoot, rel string, overwrite bool, result *Result) {
	verdict := Classify(targetRoot, rel, e.policy, overwrite)

	switch verdict.Class {
	case ClassBlocked:
		e.log.Error("BLOCKED: path traversal detected", "path", rel)
		result.Failures = append(result.Failures, Failure{Path: rel, Err: ErrPathTraversal})
		return
	case ClassSkipScaffold:
		e.log.Verbose(fmt.Sprintf("  skip %s (project-owned, exists)", rel))
		result.SkippedScaffold++
		return
	}

	src := filepath.Join(staging.Root(), filepath.FromSlash(rel))
	n, err := copyFile(src, verdict.Dest)
	if err != nil {
		if errors.Is(err, ErrSourceVanished) {
			e.log.Verbose("staged file vanished, not tracking it", "path", rel)
			result.Warnings = append(result.Warnings, Warning{Kind: WarnSourceVanished, Path: rel, Err: err})
			return
		}
		e.log.Error("failed to write", "path", rel, "error", err)
		result.Failures = append(result.Failures, Failure{Path: rel, Err: err})
		return
	}

	if isShellScript(rel) {
		if err := platform.MakeExecutable(verdict.Dest); err != nil {
			e.log.Verbose("could not mark script executable", "path", rel, "error", err)
			result.Warnings = append(result.Warnings, Warning{Kind: WarnChmod, Path: rel, Err: err})
		}
	}

	result.Written++
	result.BytesWritten += n
	e.log.Verbose("  wrote " + rel)
}

// tracked returns files without the entries whose staged source vanished,
// so the manifest never claims a file this run did not write.
func tracked(files manifest.Files, result *Result) manifest.Files {
	out := make(manifest.Files, len(files))
	for rel, entry := range files {
		out[rel] = entry
	}
	for _, w := range result.Warnings {
		if w.Kind == WarnSourceVanished {
			delete(out, w.Path)
		}
	}
	return out
}

func isShellScript(rel string) bool {
	return strings.EqualFold(filepath.Ext(rel), ".sh")
}

// copyFile writes src's bytes to dst through a temp file in dst's directory
// and a rename, creating parent directories as needed.
func copyFile(src, dst string) (int64, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, ErrSourceVanished
		}
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".agentkit-tmp-*")
	if err != nil {
		return 0, err
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return 0, err
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}
