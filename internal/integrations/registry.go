package integrations

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// ToolName identifies a render target.
type ToolName string

const (
	Claude   ToolName = "claude"
	Cursor   ToolName = "cursor"
	Windsurf ToolName = "windsurf"
	AI       ToolName = "ai"
	Copilot  ToolName = "copilot"
	Gemini   ToolName = "gemini"
	Codex    ToolName = "codex"
	Warp     ToolName = "warp"
	Cline    ToolName = "cline"
	Roo      ToolName = "roo"
	MCP      ToolName = "mcp"
)

// AllTools returns every render target in canonical order.
func AllTools() []ToolName {
	return []ToolName{Claude, Cursor, Windsurf, AI, Copilot, Gemini, Codex, Warp, Cline, Roo, MCP}
}

// ParseToolName converts a string to a ToolName, returning false if unknown.
func ParseToolName(s string) (ToolName, bool) {
	name := ToolName(strings.TrimSpace(s))
	if _, ok := toolRegistry[name]; ok {
		return name, true
	}
	return "", false
}

// alwaysOn strategies run regardless of the selected targets.
var alwaysOn = []Strategy{
	copyDir("root", "."),
	copyDir("github", ".github"),
	copyDir("docs", "docs"),
	copyDir("vscode", ".vscode"),
	copyDir("renovate", "."),
}

// toolRegistry maps each target to the strategies producing its outputs.
var toolRegistry = map[ToolName][]Strategy{
	Claude: {
		copyDir("claude/hooks", ".claude/hooks"),
		copyDir("claude/rules", ".claude/rules"),
		copyDir("claude/state", ".claude/state"),
		copyFile("claude/CLAUDE.md", "CLAUDE.md"),
		claudeSettings,
		perCommand("claude/skills/TEMPLATE/SKILL.md", ".claude/skills/%s/SKILL.md"),
	},
	Cursor: {
		copyDir("cursor/rules", ".cursor/rules"),
		perCommand("cursor/commands/TEMPLATE.md", ".cursor/commands/%s.md"),
	},
	Windsurf: {
		copyDir("windsurf/rules", ".windsurf/rules"),
		copyDir("windsurf/workflows", ".windsurf/workflows"),
		perCommand("windsurf/templates/command.md", ".windsurf/commands/%s.md"),
	},
	AI: {
		copyDir("ai", ".ai"),
	},
	Copilot: {
		copyFile("copilot/copilot-instructions.md", ".github/copilot-instructions.md"),
		copyDir("copilot/instructions", ".github/instructions"),
		perCommand("copilot/prompts/TEMPLATE.prompt.md", ".github/prompts/%s.prompt.md"),
	},
	Gemini: {
		gemini,
	},
	Codex: {
		perCommand("codex/skills/TEMPLATE/SKILL.md", ".agents/skills/%s/SKILL.md"),
	},
	Warp: {
		copyFile("warp/WARP.md", "WARP.md"),
	},
	Cline: {
		perRule("cline/clinerules/TEMPLATE.md", ".clinerules/%s.md"),
	},
	Roo: {
		perRule("roo/rules/TEMPLATE.md", ".roo/rules/%s.md"),
	},
	MCP: {
		copyDir("mcp", ".mcp"),
	},
}

// ResolveTargets picks the targets to render. A non-empty only list wins,
// then a non-empty overlay list, then every target. Unrecognized names are
// returned separately so the caller can warn about them.
func ResolveTargets(overlayTargets, only []string) (targets mapset.Set[ToolName], unknown []string) {
	names := only
	if len(names) == 0 {
		names = overlayTargets
	}
	if len(names) == 0 {
		return mapset.NewSet(AllTools()...), nil
	}

	targets = mapset.NewSet[ToolName]()
	for _, n := range names {
		if n = strings.TrimSpace(n); n == "" {
			continue
		}
		name, ok := ParseToolName(n)
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		targets.Add(name)
	}
	return targets, unknown
}

// TargetNames lists the members of targets in canonical order.
func TargetNames(targets mapset.Set[ToolName]) []string {
	var out []string
	for _, t := range AllTools() {
		if targets.Contains(t) {
			out = append(out, string(t))
		}
	}
	return out
}
