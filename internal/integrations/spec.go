package integrations

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"go.yaml.in/yaml/v3"
)

// Permissions is the allow/deny tool permission list written to
// .claude/settings.json.
type Permissions struct {
	Allow []string `yaml:"allow" json:"allow"`
	Deny  []string `yaml:"deny" json:"deny"`
}

// MergePermissions unions base and overlay allow and deny lists, keeping
// first-seen order and dropping duplicates.
func MergePermissions(base, overlay Permissions) Permissions {
	return Permissions{
		Allow: union(base.Allow, overlay.Allow),
		Deny:  union(base.Deny, overlay.Deny),
	}
}

func union(lists ...[]string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := []string{}
	for _, l := range lists {
		for _, s := range l {
			if seen.Add(s) {
				out = append(out, s)
			}
		}
	}
	return out
}

// CommandFlag documents one flag of a slash command.
type CommandFlag struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Default     any    `yaml:"default"`
}

// Command is a slash command from spec/commands.yaml.
type Command struct {
	Name        string        `yaml:"name"`
	Type        string        `yaml:"type"`
	Description string        `yaml:"description"`
	Flags       []CommandFlag `yaml:"flags"`
}

// Rule is a rule domain from spec/rules.yaml. Conventions are plain strings or
// {id, rule} maps.
type Rule struct {
	Domain      string   `yaml:"domain"`
	Description string   `yaml:"description"`
	AppliesTo   []string `yaml:"applies-to"`
	Conventions []any    `yaml:"conventions"`
}

// Spec is the engine's declarative input under <engine>/spec.
type Spec struct {
	Commands    []Command
	Rules       []Rule
	Permissions Permissions
}

type commandsFile struct {
	Commands []Command `yaml:"commands"`
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

type settingsFile struct {
	Permissions Permissions `yaml:"permissions"`
}

// LoadSpec reads commands.yaml, rules.yaml and settings.yaml from dir.
// Missing files leave the corresponding part empty.
func LoadSpec(dir string) (*Spec, error) {
	var (
		commands commandsFile
		rules    rulesFile
		settings settingsFile
	)
	for name, out := range map[string]any{
		"commands.yaml": &commands,
		"rules.yaml":    &rules,
		"settings.yaml": &settings,
	} {
		if err := readYAML(filepath.Join(dir, name), out); err != nil {
			return nil, err
		}
	}
	return &Spec{
		Commands:    commands.Commands,
		Rules:       rules.Rules,
		Permissions: settings.Permissions,
	}, nil
}

// readYAML decodes path into out. A missing file is not an error.
func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func commandVars(cmd Command, base Vars) Vars {
	return base.With(Vars{
		"commandName":        cmd.Name,
		"commandDescription": strings.TrimSpace(cmd.Description),
		"commandFlags":       formatCommandFlags(cmd.Flags),
	})
}

func formatCommandFlags(flags []CommandFlag) string {
	if len(flags) == 0 {
		return ""
	}
	rows := []string{"| Flag | Description | Default |", "|------|-------------|---------|"}
	for _, f := range flags {
		def := "-"
		if f.Default != nil {
			def = fmt.Sprint(f.Default)
		}
		desc := strings.ReplaceAll(f.Description, "|", `\|`)
		rows = append(rows, fmt.Sprintf("| `%s` | %s | %s |", f.Name, desc, def))
	}
	return strings.Join(rows, "\n")
}

func ruleVars(rule Rule, base Vars) Vars {
	conventions := make([]string, 0, len(rule.Conventions))
	for _, c := range rule.Conventions {
		switch v := c.(type) {
		case string:
			conventions = append(conventions, "- "+v)
		case map[string]any:
			conventions = append(conventions, fmt.Sprintf("- **[%v]** %v", orEmpty(v["id"]), orEmpty(v["rule"])))
		}
	}
	return base.With(Vars{
		"ruleDomain":      rule.Domain,
		"ruleDescription": strings.TrimSpace(rule.Description),
		"ruleAppliesTo":   strings.Join(rule.AppliesTo, "\n"),
		"ruleConventions": strings.Join(conventions, "\n"),
	})
}

func orEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}
