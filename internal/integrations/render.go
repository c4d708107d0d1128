package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"unicode/utf8"

	"github.com/JustAGhosT/agentkit-forge/internal/logging"
	"github.com/JustAGhosT/agentkit-forge/internal/manifest"
	"github.com/JustAGhosT/agentkit-forge/internal/platform"
	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"
)

// renderConcurrency bounds the strategies running at once.
const renderConcurrency = 8

// RenderContext is the input shared by every strategy of a run. It is read
// concurrently and must not be mutated once rendering starts.
type RenderContext struct {
	TemplatesDir string
	StagingDir   string
	Vars         Vars
	Version      string
	Overlay      string
	Permissions  Permissions
	Spec         *Spec
	Log          *logging.Logger
}

// Strategy renders part of the staging tree.
type Strategy func(rc *RenderContext) error

// ErrUnsafeOutput is returned when a generated path would leave the staging directory.
var ErrUnsafeOutput = errors.New("output path escapes staging directory")

// Render runs the always-on strategies, then the strategies of every target
// in targets, writing into rc.StagingDir. A missing template source is not an
// error; the strategy simply produces nothing.
func Render(ctx context.Context, rc *RenderContext, targets mapset.Set[ToolName]) error {
	if rc.Log == nil {
		rc.Log = logging.Discard()
	}
	if rc.Spec == nil {
		rc.Spec = &Spec{}
	}

	if err := runAll(ctx, rc, alwaysOn); err != nil {
		return err
	}

	var gated []Strategy
	for _, t := range AllTools() {
		if targets.Contains(t) {
			gated = append(gated, toolRegistry[t]...)
		}
	}
	return runAll(ctx, rc, gated)
}

func runAll(ctx context.Context, rc *RenderContext, strategies []Strategy) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(renderConcurrency)
	for _, s := range strategies {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return s(rc)
		})
	}
	return g.Wait()
}

// copyDir renders every file under templates/src into staging/dest.
func copyDir(src, dest string) Strategy {
	return func(rc *RenderContext) error {
		srcDir := filepath.Join(rc.TemplatesDir, filepath.FromSlash(src))
		files, err := manifest.Walk(srcDir)
		if err != nil {
			return fmt.Errorf("listing templates in %s: %w", src, err)
		}
		for _, rel := range files {
			if err := rc.renderFile(path.Join(src, rel), path.Join(dest, rel), rc.Vars); err != nil {
				return err
			}
		}
		return nil
	}
}

// copyFile renders a single template to dest.
func copyFile(src, dest string) Strategy {
	return func(rc *RenderContext) error {
		return rc.renderFile(src, dest, rc.Vars)
	}
}

// perCommand renders tpl once per non-team command, naming the output with
// the command name.
func perCommand(tpl, destPattern string) Strategy {
	return func(rc *RenderContext) error {
		for _, cmd := range rc.Spec.Commands {
			if cmd.Type == "team" || cmd.Name == "" {
				continue
			}
			if err := rc.renderFile(tpl, fmt.Sprintf(destPattern, cmd.Name), commandVars(cmd, rc.Vars)); err != nil {
				return err
			}
		}
		return nil
	}
}

// perRule renders tpl once per rule domain.
func perRule(tpl, destPattern string) Strategy {
	return func(rc *RenderContext) error {
		for _, rule := range rc.Spec.Rules {
			if rule.Domain == "" {
				continue
			}
			if err := rc.renderFile(tpl, fmt.Sprintf(destPattern, rule.Domain), ruleVars(rule, rc.Vars)); err != nil {
				return err
			}
		}
		return nil
	}
}

// gemini places GEMINI.md at the project root and everything else under .gemini/.
func gemini(rc *RenderContext) error {
	files, err := manifest.Walk(filepath.Join(rc.TemplatesDir, "gemini"))
	if err != nil {
		return fmt.Errorf("listing gemini templates: %w", err)
	}
	for _, rel := range files {
		dest := path.Join(".gemini", rel)
		if path.Base(rel) == "GEMINI.md" {
			dest = "GEMINI.md"
		}
		if err := rc.renderFile(path.Join("gemini", rel), dest, rc.Vars); err != nil {
			return err
		}
	}
	return nil
}

// claudeSettings writes .claude/settings.json from the template with its
// permissions replaced by the merged set.
func claudeSettings(rc *RenderContext) error {
	src := filepath.Join(rc.TemplatesDir, "claude", "settings.json")
	data, err := os.ReadFile(src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		rc.Log.Warn("skipping invalid claude settings template", "path", src, "error", err)
		return nil
	}
	settings["permissions"] = rc.Permissions

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(settings); err != nil {
		return fmt.Errorf("encoding claude settings: %w", err)
	}
	return rc.write(".claude/settings.json", buf.Bytes())
}

// renderFile renders templates/src into staging/dest. A missing source is
// skipped and content that is not valid UTF-8 is copied verbatim.
func (rc *RenderContext) renderFile(src, dest string, vars Vars) error {
	srcPath := filepath.Join(rc.TemplatesDir, filepath.FromSlash(src))
	data, err := os.ReadFile(srcPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading template %s: %w", src, err)
	}
	if !utf8.Valid(data) {
		return rc.write(dest, data)
	}

	rendered := RenderTemplate(string(data), vars, src)
	if missing := Unresolved(rendered); len(missing) > 0 {
		rc.Log.Verbose("unresolved placeholders", "template", src, "keys", missing)
	}
	out := InsertHeader(rendered, path.Ext(dest), rc.Version, rc.Overlay)
	return rc.write(dest, []byte(out))
}

func (rc *RenderContext) write(rel string, data []byte) error {
	dest, ok := platform.ResolveUnder(rc.StagingDir, path.Clean(rel))
	if !ok {
		return fmt.Errorf("%s: %w", rel, ErrUnsafeOutput)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating staging directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("staging %s: %w", rel, err)
	}
	return nil
}
