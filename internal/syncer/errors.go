package syncer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPathTraversal marks a destination that resolves outside the project root.
	ErrPathTraversal = errors.New("path traversal blocked")

	// ErrWriteFailure matches the aggregate error returned when any staged
	// file could not be written.
	ErrWriteFailure = errors.New("write failure")

	// ErrNotAFile marks a stale manifest path that is now a directory or
	// other non-file in the project.
	ErrNotAFile = errors.New("not a regular file")

	// ErrSourceVanished marks a staged file that disappeared before it was copied.
	ErrSourceVanished = errors.New("staged file vanished")
)

// Failure is one staged file that could not be written.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) String() string {
	return f.Path + ": " + f.Err.Error()
}

// WriteError aggregates every per-file failure of an apply.
type WriteError struct {
	Failures []Failure
}

func (e *WriteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "sync completed with %d write failure(s):", len(e.Failures))
	for _, f := range e.Failures {
		b.WriteString("\n  - ")
		b.WriteString(f.String())
	}
	return b.String()
}

// Is lets errors.Is(err, ErrWriteFailure) match.
func (e *WriteError) Is(target error) bool {
	return target == ErrWriteFailure
}

// Paths returns the failing paths in the order they were recorded.
func (e *WriteError) Paths() []string {
	paths := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		paths[i] = f.Path
	}
	return paths
}

// WarningKind names a degraded step that did not fail the run.
type WarningKind string

const (
	WarnManifestCorrupt WarningKind = "manifest-corrupt"
	WarnManifestWrite   WarningKind = "manifest-write"
	WarnCleanup         WarningKind = "cleanup"
	WarnCleanupBlocked  WarningKind = "cleanup-blocked"
	WarnChmod           WarningKind = "chmod"
	WarnStagingRemove   WarningKind = "staging-remove"
	WarnSourceVanished  WarningKind = "source-vanished"
)

// Warning records a degraded step so callers and tests can observe it.
type Warning struct {
	Kind WarningKind
	Path string
	Err  error
}

func (w Warning) String() string {
	s := string(w.Kind)
	if w.Path != "" {
		s += " " + w.Path
	}
	if w.Err != nil {
		s += ": " + w.Err.Error()
	}
	return s
}
