package linker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/JustAGhosT/agentkit-forge/internal/config"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// newProject lays out a project with an engine install holding a small
// template set and a "demo" overlay limited to the claude target.
func newProject(t *testing.T) config.Paths {
	t.Helper()
	t.Setenv("AGENTKIT_ROOT", "")
	project := t.TempDir()

	paths, err := config.ResolvePaths(project)
	if err != nil {
		t.Fatal(err)
	}

	writeFiles(t, paths.EngineRoot, map[string]string{
		"package.json":                 `{"name":"agentkit-forge","version":"2.1.0"}`,
		"templates/root/AGENTS.md":     "# {{repoName}} on {{defaultBranch}}\n",
		"templates/root/CHANGELOG.md":  "# Changelog\n",
		"templates/claude/CLAUDE.md":   "claude\n",
		"templates/cursor/rules/a.mdc": "cursor rule\n",
		"overlays/demo/settings.yaml":  "repoName: Demo Repo\nrenderTargets: [claude]\n",
		"spec/settings.yaml":           "permissions:\n  allow: [Read]\n",
	})
	writeFiles(t, project, map[string]string{".agentkit-repo": "demo\n"})
	return paths
}

func assertExists(t *testing.T, path string, want bool) {
	t.Helper()
	_, err := os.Stat(path)
	if got := err == nil; got != want {
		t.Errorf("%s exists = %v, want %v", path, got, want)
	}
}
