//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/JustAGhosT/agentkit-forge/internal/config"
	"github.com/JustAGhosT/agentkit-forge/internal/linker"
	"github.com/JustAGhosT/agentkit-forge/internal/manifest"
	"github.com/JustAGhosT/agentkit-forge/internal/syncer"
)

func newSyncEnv(t *testing.T) *testEnv {
	t.Helper()
	env := setupTestEnv(t)
	setupEngine(t, env.EngineDir)
	writeFile(t, filepath.Join(env.ProjectDir, ".agentkit-repo"), "acme\n")
	return env
}

func runSync(t *testing.T, env *testEnv, opts config.Options) *linker.Outcome {
	t.Helper()
	out, err := linker.Sync(context.Background(), nil, env.Paths, opts)
	if err != nil {
		t.Fatalf("Sync(%+v): %v", opts, err)
	}
	return out
}

func projectPath(env *testEnv, rel string) string {
	return filepath.Join(env.ProjectDir, filepath.FromSlash(rel))
}

// TestFullFlowDryRunThenApply runs a dry run, verifies nothing was written,
// then applies and checks every generated output and the manifest.
func TestFullFlowDryRunThenApply(t *testing.T) {
	env := newSyncEnv(t)

	// Step 1: dry run reports but writes nothing.
	dry := runSync(t, env, config.Options{DryRun: true})
	if dry.DryRun.Total != len(expectedOutputs) {
		t.Errorf("dry run total = %d, want %d", dry.DryRun.Total, len(expectedOutputs))
	}
	for _, rel := range expectedOutputs {
		assertFileNotExists(t, projectPath(env, rel))
	}
	assertFileNotExists(t, env.Paths.ManifestPath)

	// Step 2: apply writes everything.
	out := runSync(t, env, config.Options{})
	if out.Apply.Written != len(expectedOutputs) {
		t.Errorf("written = %d, want %d", out.Apply.Written, len(expectedOutputs))
	}
	for _, rel := range expectedOutputs {
		assertFileExists(t, projectPath(env, rel))
	}
	assertFileNotExists(t, env.Paths.StagingDir)

	// Step 3: rendered content carries overlay values and headers.
	assertFileContains(t, projectPath(env, "AGENTS.md"), "# acme-web")
	assertFileContains(t, projectPath(env, "AGENTS.md"), "Default branch: develop")
	assertFileContains(t, projectPath(env, "AGENTS.md"), "GENERATED by AgentKit Forge v3.0.0")
	assertFileContains(t, projectPath(env, "CLAUDE.md"), "Project acme-web v3.0.0")
	assertFileContains(t, projectPath(env, ".clinerules/typescript.md"), "- prefer const")

	skill, err := os.ReadFile(projectPath(env, ".claude/skills/check/SKILL.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(skill), "---\nname: check\n---\n\n<!-- GENERATED") {
		t.Errorf("frontmatter must precede the header:\n%s", skill)
	}
	assertFileNotExists(t, projectPath(env, ".claude/skills/team-review/SKILL.md"))

	// Step 4: claude settings carry the merged permissions.
	var settings struct {
		Permissions struct {
			Allow []string `json:"allow"`
			Deny  []string `json:"deny"`
		} `json:"permissions"`
	}
	data, err := os.ReadFile(projectPath(env, ".claude/settings.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		t.Fatalf("settings.json: %v", err)
	}
	if want := []string{"Read", "Edit", "Bash(npm test)"}; !reflect.DeepEqual(settings.Permissions.Allow, want) {
		t.Errorf("allow = %v, want %v", settings.Permissions.Allow, want)
	}
	if want := []string{"Bash(rm -rf)"}; !reflect.DeepEqual(settings.Permissions.Deny, want) {
		t.Errorf("deny = %v, want %v", settings.Permissions.Deny, want)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(projectPath(env, ".claude/hooks/guard.sh"))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm()&0111 == 0 {
			t.Errorf("guard.sh is not executable: %o", info.Mode().Perm())
		}
	}

	// Step 5: the manifest tracks exactly the generated outputs.
	m, err := manifest.Load(env.Paths.ManifestPath)
	if err != nil || m == nil {
		t.Fatalf("loading manifest: %v", err)
	}
	if got := m.Files.Paths(); !reflect.DeepEqual(got, expectedOutputs) {
		t.Errorf("manifest paths =\n%v\nwant\n%v", got, expectedOutputs)
	}
	if m.Version != "3.0.0" || m.RepoName != "acme-web" {
		t.Errorf("manifest header = %q/%q", m.Version, m.RepoName)
	}
}

// TestFullFlowIdempotentThenDiff applies twice, then edits a generated file and
// checks that diff classifies and renders it without touching the project.
func TestFullFlowIdempotentThenDiff(t *testing.T) {
	env := newSyncEnv(t)

	first := runSync(t, env, config.Options{})
	second := runSync(t, env, config.Options{})
	if !reflect.DeepEqual(first.Files, second.Files) {
		t.Error("second sync produced different hashes")
	}
	if second.Apply.Cleaned != 0 {
		t.Errorf("second sync cleaned %d files", second.Apply.Cleaned)
	}
	if second.Apply.SkippedScaffold != 6 {
		t.Errorf("second sync skipped %d scaffold files, want 6", second.Apply.SkippedScaffold)
	}

	writeFile(t, projectPath(env, "CLAUDE.md"), "edited\n")
	out := runSync(t, env, config.Options{Diff: true})

	d := out.Diff
	if d.Created != 0 || d.Updated != 1 || d.Unchanged != 16 || d.Skipped != 6 {
		t.Errorf("diff counts = %d create, %d update, %d unchanged, %d skip", d.Created, d.Updated, d.Unchanged, d.Skipped)
	}
	var claude *syncer.DiffEntry
	for i := range d.Entries {
		if d.Entries[i].Path == "CLAUDE.md" {
			claude = &d.Entries[i]
		}
	}
	if claude == nil || claude.Class != syncer.ClassUpdate {
		t.Fatalf("CLAUDE.md entry = %+v", claude)
	}
	if !strings.Contains(claude.Diff, "- edited") || !strings.Contains(claude.Diff, "+ Project acme-web v3.0.0") {
		t.Errorf("diff text:\n%s", claude.Diff)
	}

	data, err := os.ReadFile(projectPath(env, "CLAUDE.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "edited\n" {
		t.Errorf("diff mode rewrote CLAUDE.md: %q", data)
	}
}

// TestFullFlowNarrowingTargetsCleansStaleFiles removes outputs of targets that
// are no longer rendered while leaving user files alone.
func TestFullFlowNarrowingTargetsCleansStaleFiles(t *testing.T) {
	env := newSyncEnv(t)
	runSync(t, env, config.Options{})
	writeFile(t, projectPath(env, ".cursor/rules/mine.mdc"), "user rule\n")

	out := runSync(t, env, config.Options{Only: []string{"claude"}})

	assertFileExists(t, projectPath(env, "CLAUDE.md"))
	assertFileExists(t, projectPath(env, "AGENTS.md"))
	assertFileNotExists(t, projectPath(env, ".cursor/rules/base.mdc"))
	assertFileNotExists(t, projectPath(env, "WARP.md"))
	assertFileNotExists(t, projectPath(env, ".agents/skills/check/SKILL.md"))
	assertFileContains(t, projectPath(env, ".cursor/rules/mine.mdc"), "user rule")
	if out.Apply.Cleaned == 0 {
		t.Error("expected stale files to be cleaned")
	}

	// --no-clean keeps them.
	runSync(t, env, config.Options{})
	runSync(t, env, config.Options{Only: []string{"claude"}, NoClean: true})
	assertFileExists(t, projectPath(env, "WARP.md"))
}

// TestFullFlowPartialFailureKeepsPreviousManifest verifies that a write failure
// aborts cleanup and leaves the previous manifest in place.
func TestFullFlowPartialFailureKeepsPreviousManifest(t *testing.T) {
	env := newSyncEnv(t)
	runSync(t, env, config.Options{})
	before, err := os.ReadFile(env.Paths.ManifestPath)
	if err != nil {
		t.Fatal(err)
	}

	// A non-empty directory where WARP.md belongs cannot be replaced.
	if err := os.Remove(projectPath(env, "WARP.md")); err != nil {
		t.Fatal(err)
	}
	writeFile(t, projectPath(env, "WARP.md/blocker"), "x")

	_, err = linker.Sync(context.Background(), nil, env.Paths, config.Options{Only: []string{"warp"}})
	if !errors.Is(err, syncer.ErrWriteFailure) {
		t.Fatalf("Sync error = %v, want ErrWriteFailure", err)
	}
	var writeErr *syncer.WriteError
	if !errors.As(err, &writeErr) || !reflect.DeepEqual(writeErr.Paths(), []string{"WARP.md"}) {
		t.Errorf("failed paths = %v, want [WARP.md]", writeErr)
	}

	after, err := os.ReadFile(env.Paths.ManifestPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("manifest changed after a failed sync")
	}
	assertFileExists(t, projectPath(env, "CLAUDE.md"))
	assertFileNotExists(t, env.Paths.StagingDir)
}
