//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JustAGhosT/agentkit-forge/internal/config"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	EngineDir  string // AGENTKIT_ROOT, the engine install with templates/ and overlays/
	ProjectDir string // a mock consuming project
	Paths      config.Paths
}

// setupTestEnv creates an engine install outside the project and points
// AGENTKIT_ROOT at it, so sync never touches a real checkout.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		EngineDir:  t.TempDir(),
		ProjectDir: t.TempDir(),
	}
	t.Setenv("AGENTKIT_ROOT", env.EngineDir)

	paths, err := config.ResolvePaths(env.ProjectDir)
	if err != nil {
		t.Fatalf("ResolvePaths: %v", err)
	}
	env.Paths = paths
	return env
}

// setupEngine writes a synthetic engine install covering the always-on
// outputs, every render target and the spec files that drive per-command and
// per-rule generation.
func setupEngine(t *testing.T, engineDir string) {
	t.Helper()

	files := map[string]string{
		"package.json":       `{"name":"agentkit-forge","version":"3.0.0"}`,
		"spec/commands.yaml": "commands:\n  - name: check\n    description: Run all checks\n  - name: team-review\n    type: team\n",
		"spec/rules.yaml":    "rules:\n  - domain: typescript\n    conventions:\n      - prefer const\n",
		"spec/settings.yaml": "permissions:\n  allow: [Read, Edit]\n  deny: [Bash(rm -rf)]\n",

		"overlays/acme/settings.yaml": "repoName: acme-web\ndefaultBranch: develop\npermissions:\n  allow: [Bash(npm test)]\n",

		"templates/root/AGENTS.md":                          "# {{repoName}}\n\nDefault branch: {{defaultBranch}}\n",
		"templates/root/CHANGELOG.md":                       "# Changelog\n",
		"templates/github/PULL_REQUEST_TEMPLATE.md":         "## Summary\n",
		"templates/github/workflows/ci.yml":                 "name: ci\n",
		"templates/docs/README.md":                          "# Docs for {{repoName}}\n",
		"templates/vscode/settings.json":                    "{}\n",
		"templates/claude/CLAUDE.md":                        "Project {{repoName}} v{{version}}\n",
		"templates/claude/settings.json":                    `{"permissions":{}}`,
		"templates/claude/hooks/guard.sh":                   "#!/usr/bin/env bash\necho guard\n",
		"templates/claude/rules/style.md":                   "style\n",
		"templates/claude/skills/TEMPLATE/SKILL.md":         "---\nname: {{commandName}}\n---\n{{commandDescription}}\n",
		"templates/cursor/rules/base.mdc":                   "---\ndescription: base\n---\nbase rule\n",
		"templates/windsurf/rules/base.md":                  "windsurf\n",
		"templates/ai/README.md":                            "ai\n",
		"templates/copilot/copilot-instructions.md":         "copilot\n",
		"templates/copilot/instructions/ts.instructions.md": "ts\n",
		"templates/gemini/GEMINI.md":                        "gemini\n",
		"templates/gemini/styleguide.md":                    "gemini style\n",
		"templates/codex/skills/TEMPLATE/SKILL.md":          "codex {{commandName}}\n",
		"templates/warp/WARP.md":                            "warp\n",
		"templates/cline/clinerules/TEMPLATE.md":            "{{ruleDomain}}\n{{ruleConventions}}\n",
		"templates/roo/rules/TEMPLATE.md":                   "{{ruleDomain}}\n",
		"templates/mcp/servers.json":                        `{"servers":[]}`,
	}
	for rel, content := range files {
		writeFile(t, filepath.Join(engineDir, filepath.FromSlash(rel)), content)
	}
}

// expectedOutputs lists every project path setupEngine produces with all
// targets enabled.
var expectedOutputs = []string{
	".agents/skills/check/SKILL.md",
	".ai/README.md",
	".claude/hooks/guard.sh",
	".claude/rules/style.md",
	".claude/settings.json",
	".claude/skills/check/SKILL.md",
	".clinerules/typescript.md",
	".cursor/rules/base.mdc",
	".gemini/styleguide.md",
	".github/PULL_REQUEST_TEMPLATE.md",
	".github/copilot-instructions.md",
	".github/instructions/ts.instructions.md",
	".github/workflows/ci.yml",
	".mcp/servers.json",
	".roo/rules/typescript.md",
	".vscode/settings.json",
	".windsurf/rules/base.md",
	"AGENTS.md",
	"CHANGELOG.md",
	"CLAUDE.md",
	"GEMINI.md",
	"WARP.md",
	"docs/README.md",
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
