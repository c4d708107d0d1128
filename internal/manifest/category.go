package manifest

import "strings"

// categoryPrefixes maps a top-level destination folder to its report category.
var categoryPrefixes = []struct {
	prefix   string
	category string
}{
	{".claude/", "claude"},
	{".cursor/", "cursor"},
	{".windsurf/", "windsurf"},
	{".github/", "github"},
	{".gemini/", "gemini"},
	{".agents/", "codex"},
	{".clinerules/", "cline"},
	{".roo/", "roo"},
	{".ai/", "ai"},
	{".mcp/", "mcp"},
	{"docs/", "docs"},
	{".vscode/", "vscode"},
}

var categoryFiles = map[string]string{
	"GEMINI.md": "gemini",
	"WARP.md":   "warp",
	"CLAUDE.md": "claude",
}

// Categorize returns the report category for a relative path. Paths that
// match nothing fall into "root".
func Categorize(relPath string) string {
	norm := strings.ReplaceAll(relPath, "\\", "/")
	for _, c := range categoryPrefixes {
		if strings.HasPrefix(norm, c.prefix) {
			return c.category
		}
	}
	if cat, ok := categoryFiles[norm]; ok {
		return cat
	}
	return "root"
}
