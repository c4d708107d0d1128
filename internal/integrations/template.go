package integrations

import (
	"encoding/json"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/JustAGhosT/agentkit-forge/internal/branding"
)

// Vars holds template variables. Values are strings, numbers, bools, string
// lists or lists of maps (for {{#each}} blocks).
type Vars map[string]any

// With returns a copy of v with extra merged over it.
func (v Vars) With(extra Vars) Vars {
	out := make(Vars, len(v)+len(extra))
	for k, val := range v {
		out[k] = val
	}
	for k, val := range extra {
		out[k] = val
	}
	return out
}

// rawVars are emitted unsanitized into shell script targets.
var rawVars = map[string]bool{"commandFlags": true}

const maxConditionalPasses = 50

var (
	ifOpen       = regexp.MustCompile(`\{\{#if\s+([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)
	eachBlock    = regexp.MustCompile(`(?s)\{\{#each\s+([a-zA-Z_][a-zA-Z0-9_]*)\}\}(.*?)\{\{/each\}\}`)
	itemProperty = regexp.MustCompile(`\{\{\.([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)
	unresolved   = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)
	shellSubst   = regexp.MustCompile(`\$\(([^)]*)\)`)
	shellMeta    = regexp.MustCompile("[`$\\\\;|&<>!{}]")
)

const (
	ifClose   = "{{/if}}"
	elseToken = "{{else}}"
)

// RenderTemplate expands {{#if}} and {{#each}} blocks, then replaces {{key}}
// placeholders with values from vars. Longer keys are replaced first so that
// {{versionInfo}} is not clobbered by {{version}}. targetPath decides whether
// raw variables may pass through unsanitized.
func RenderTemplate(tpl string, vars Vars, targetPath string) string {
	result := resolveConditionals(tpl, vars)
	result = resolveEachBlocks(result, vars)

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	allowRaw := isShellScript(targetPath)
	for _, k := range keys {
		placeholder := "{{" + k + "}}"
		if !strings.Contains(result, placeholder) {
			continue
		}
		result = strings.ReplaceAll(result, placeholder, formatValue(k, vars[k], allowRaw))
	}
	return result
}

// Unresolved lists the distinct {{key}} placeholders left in rendered output.
func Unresolved(rendered string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range unresolved.FindAllStringSubmatch(rendered, -1) {
		if m[1] == "else" || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		out = append(out, m[1])
	}
	return out
}

// Sanitize strips shell metacharacters from a template value. Command
// substitutions are unwrapped to their inner text first.
func Sanitize(s string) string {
	s = shellSubst.ReplaceAllString(s, "$1")
	return shellMeta.ReplaceAllString(s, "")
}

func formatValue(key string, value any, allowRaw bool) string {
	if s, ok := value.(string); ok {
		if allowRaw && rawVars[key] {
			return s
		}
		return Sanitize(s)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(data)
}

func isShellScript(targetPath string) bool {
	ext := strings.ToLower(path.Ext(targetPath))
	return ext == ".sh" || ext == ".ps1"
}

// resolveConditionals resolves the innermost {{#if}} block on each pass so
// nested blocks unwind from the inside out.
func resolveConditionals(tpl string, vars Vars) string {
	result := tpl
	for pass := 0; pass < maxConditionalPasses; pass++ {
		end := strings.Index(result, ifClose)
		if end < 0 {
			break
		}
		openers := ifOpen.FindAllStringSubmatchIndex(result[:end], -1)
		if len(openers) == 0 {
			break
		}
		open := openers[len(openers)-1]
		name := result[open[2]:open[3]]
		body := result[open[1]:end]

		keep := body
		truthy := Truthy(vars[name])
		if i := strings.Index(body, elseToken); i >= 0 {
			if truthy {
				keep = body[:i]
			} else {
				keep = body[i+len(elseToken):]
			}
		} else if !truthy {
			keep = ""
		}
		result = result[:open[0]] + keep + result[end+len(ifClose):]
	}
	return result
}

func resolveEachBlocks(tpl string, vars Vars) string {
	return eachBlock.ReplaceAllStringFunc(tpl, func(block string) string {
		m := eachBlock.FindStringSubmatch(block)
		items := toList(vars[m[1]])
		var b strings.Builder
		for i, item := range items {
			rendered := m[2]
			switch it := item.(type) {
			case string:
				rendered = strings.ReplaceAll(rendered, "{{.}}", Sanitize(it))
			case map[string]any:
				rendered = itemProperty.ReplaceAllStringFunc(rendered, func(ref string) string {
					prop := itemProperty.FindStringSubmatch(ref)[1]
					val, ok := it[prop]
					if !ok || val == nil {
						return ""
					}
					return formatValue(prop, val, false)
				})
			}
			rendered = strings.ReplaceAll(rendered, "{{@index}}", strconv.Itoa(i))
			b.WriteString(rendered)
		}
		return b.String()
	})
}

func toList(v any) []any {
	switch l := v.(type) {
	case []any:
		return l
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out
	}
	return nil
}

// Truthy reports whether a variable enables an {{#if}} block. nil, false,
// zero, the empty string and empty lists are false.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case []any, []string, []map[string]any:
		return len(toList(t)) > 0
	}
	return true
}

type commentStyle struct{ start, end string }

func commentFor(ext string) (commentStyle, bool) {
	switch strings.ToLower(ext) {
	case ".md", ".mdc":
		return commentStyle{"<!--", " -->"}, true
	case ".json", ".template":
		return commentStyle{}, false
	default:
		return commentStyle{"#", ""}, true
	}
}

// Header returns the generated-file header for a file extension, or "" for
// formats without comment syntax.
func Header(ext, version, overlay string) string {
	c, ok := commentFor(ext)
	if !ok {
		return ""
	}
	lines := []string{
		branding.GeneratedMarker() + " v" + version + " - DO NOT EDIT",
		"Source: " + branding.EngineDir() + "/spec + " + branding.EngineDir() + "/overlays/" + overlay,
		"Regenerate: " + branding.RegenerateHint(),
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(c.start + " " + l + c.end + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

// InsertHeader stamps content with the generated header. Scripts keep their
// shebang on the first line and markdown keeps its frontmatter on top. Content
// that already carries a header is returned unchanged.
func InsertHeader(content, ext, version, overlay string) string {
	header := Header(ext, version, overlay)
	if header == "" || strings.Contains(content, branding.GeneratedMarker()) {
		return content
	}

	switch strings.ToLower(ext) {
	case ".sh", ".ps1":
		if strings.HasPrefix(content, "#!") {
			if nl := strings.IndexByte(content, '\n'); nl >= 0 {
				return content[:nl+1] + header + content[nl+1:]
			}
		}
	case ".md", ".mdc":
		if strings.HasPrefix(content, "---") {
			const closing = "\n---"
			if i := strings.Index(content[3:], closing); i >= 0 {
				pos := 3 + i + len(closing)
				if pos < len(content) && content[pos] == '\n' {
					pos++
				}
				return content[:pos] + "\n" + header + content[pos:]
			}
		}
	}
	return header + content
}
