package scaffold

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultPatterns are the paths created once and then owned by the project.
var defaultPatterns = []string{
	// Root files.
	"AGENT_BACKLOG.md",
	"CHANGELOG.md",
	"CONTRIBUTING.md",
	"MIGRATIONS.md",
	"SECURITY.md",
	".editorconfig",
	".prettierrc",
	".markdownlint.json",

	// GitHub files matched by full path.
	".github/PULL_REQUEST_TEMPLATE.md",
	".github/copilot-instructions.md",

	// Everything beneath these directories, never the bare name.
	"docs/*/**",
	".vscode/*/**",
	".github/ISSUE_TEMPLATE/*/**",
	".github/instructions/*/**",
}

// Policy matches forward-slash relative paths against scaffold-once globs.
type Policy struct {
	patterns []string
}

// Default returns the built-in scaffold-once policy.
func Default() *Policy {
	return &Policy{patterns: append([]string(nil), defaultPatterns...)}
}

// NewPolicy builds a policy from doublestar patterns.
func NewPolicy(patterns ...string) (*Policy, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid scaffold pattern %q", p)
		}
	}
	return &Policy{patterns: append([]string(nil), patterns...)}, nil
}

// IsScaffoldOnce reports whether relPath is project-owned once it exists.
// Backslashes are normalized so Windows-style paths match too.
func (p *Policy) IsScaffoldOnce(relPath string) bool {
	if p == nil {
		return false
	}
	normalized := strings.ReplaceAll(relPath, "\\", "/")
	for _, pattern := range p.patterns {
		if ok, _ := doublestar.Match(pattern, normalized); ok {
			return true
		}
	}
	return false
}
