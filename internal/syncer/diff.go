package syncer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/JustAGhosT/agentkit-forge/internal/linediff"
	"github.com/JustAGhosT/agentkit-forge/internal/manifest"
)

// DryRunReport is what a dry run would generate, by category.
type DryRunReport struct {
	Total   int
	Summary manifest.Summary
}

// DiffEntry is the classification of one staged path.
type DiffEntry struct {
	Path  string
	Class Class
	Diff  string // rendered line diff, only for updates
}

// DiffReport is the outcome of a diff run. Blocked paths are listed but
// excluded from every count.
type DiffReport struct {
	Entries   []DiffEntry
	Created   int
	Updated   int
	Unchanged int
	Skipped   int
	Blocked   []string
}

// UnchangedOrSkipped is the combined count printed in the summary line.
func (r *DiffReport) UnchangedOrSkipped() int { return r.Unchanged + r.Skipped }

// DryRun reports what the staged tree would generate without looking at the
// project. The staging tree is removed before returning.
func (e *Engine) DryRun(staging *Staging, files manifest.Files) *DryRunReport {
	defer e.removeStaging(staging, nil)

	report := &DryRunReport{
		Total:   len(files),
		Summary: manifest.Summarize(files),
	}
	e.log.Info(fmt.Sprintf("Dry-run: would generate %d file(s)", report.Total))
	return report
}

// Diff classifies every staged file in files against targetRoot and renders line
// diffs for files that would change. Nothing under targetRoot is written and
// target-side read problems never fail the run. The staging tree is removed
// before returning.
func (e *Engine) Diff(staging *Staging, files manifest.Files, targetRoot string, overwrite bool) (*DiffReport, error) {
	defer e.removeStaging(staging, nil)

	report := &DiffReport{}
	for _, rel := range files.Paths() {
		verdict := Classify(targetRoot, rel, e.policy, overwrite)

		switch verdict.Class {
		case ClassBlocked:
			e.log.Warn("BLOCKED: path traversal detected", "path", rel)
			report.Blocked = append(report.Blocked, rel)
			report.Entries = append(report.Entries, DiffEntry{Path: rel, Class: ClassBlocked})
			continue
		case ClassSkipScaffold:
			e.log.Verbose(fmt.Sprintf("  skip %s (project-owned, exists)", rel))
			report.Skipped++
			report.Entries = append(report.Entries, DiffEntry{Path: rel, Class: ClassSkipScaffold})
			continue
		}

		staged, err := os.ReadFile(filepath.Join(staging.Root(), filepath.FromSlash(rel)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading staged %s: %w", rel, err)
		}

		entry := e.compare(rel, verdict, string(staged))
		switch entry.Class {
		case ClassCreate:
			report.Created++
			e.log.Printf("  create %s", rel)
		case ClassUpdate:
			report.Updated++
			e.log.Printf("  update %s", rel)
			if entry.Diff != "" {
				e.log.Printf("%s", linediff.Indent(entry.Diff, "    "))
			}
		case ClassUnchanged:
			report.Unchanged++
			e.log.Verbose(fmt.Sprintf("  unchanged %s", rel))
		}
		report.Entries = append(report.Entries, entry)
	}

	e.log.Info(fmt.Sprintf("Diff: %d create, %d update, %d unchanged/skip",
		report.Created, report.Updated, report.UnchangedOrSkipped()))
	return report, nil
}

// compare finishes classification by reading the live file.
func (e *Engine) compare(rel string, verdict Verdict, staged string) DiffEntry {
	if verdict.Class == ClassCreate {
		return DiffEntry{Path: rel, Class: ClassCreate}
	}

	current, err := os.ReadFile(verdict.Dest)
	if err != nil {
		e.log.Warn("could not read project file, reporting as update", "path", rel, "error", err)
		return DiffEntry{Path: rel, Class: ClassUpdate}
	}
	if string(current) == staged {
		return DiffEntry{Path: rel, Class: ClassUnchanged}
	}
	return DiffEntry{
		Path:  rel,
		Class: ClassUpdate,
		Diff:  linediff.Render(string(current), staged),
	}
}
