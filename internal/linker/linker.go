package linker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JustAGhosT/agentkit-forge/internal/branding"
	"github.com/JustAGhosT/agentkit-forge/internal/config"
	"github.com/JustAGhosT/agentkit-forge/internal/integrations"
	"github.com/JustAGhosT/agentkit-forge/internal/logging"
	"github.com/JustAGhosT/agentkit-forge/internal/manifest"
	"github.com/JustAGhosT/agentkit-forge/internal/scaffold"
	"github.com/JustAGhosT/agentkit-forge/internal/syncer"
	"github.com/dustin/go-humanize"
)

// Mode is the kind of run a sync performs.
type Mode string

const (
	ModeApply  Mode = "apply"
	ModeDryRun Mode = "dry-run"
	ModeDiff   Mode = "diff"
)

// Outcome reports what a sync run did. Exactly one of DryRun, Diff and Apply
// is set, matching Mode.
type Outcome struct {
	Mode     Mode
	Overlay  string
	RepoName string
	Version  string
	Targets  []string
	Files    manifest.Files
	Summary  manifest.Summary
	DryRun   *syncer.DryRunReport
	Diff     *syncer.DiffReport
	Apply    *syncer.Result
}

func modeFor(opts config.Options) Mode {
	switch {
	case opts.DryRun:
		return ModeDryRun
	case opts.Diff:
		return ModeDiff
	default:
		return ModeApply
	}
}

// Sync regenerates the project's AI tool configuration. Dry-run takes
// precedence over diff; without either, outputs are written to the project.
// The staging directory never outlives the call.
func Sync(ctx context.Context, log *logging.Logger, paths config.Paths, opts config.Options) (*Outcome, error) {
	if log == nil {
		log = logging.Discard()
	}
	mode := modeFor(opts)

	switch mode {
	case ModeDryRun:
		log.Info("Dry-run mode - no files will be written.")
	case ModeDiff:
		log.Info("Diff mode - showing what would change.")
	}
	log.Info("Starting sync...")

	version, err := ResolveVersion(paths.EngineRoot)
	if err != nil {
		log.Warn("engine version", "error", err)
	}

	spec, err := integrations.LoadSpec(filepath.Join(paths.EngineRoot, "spec"))
	if err != nil {
		return nil, fmt.Errorf("loading engine spec: %w", err)
	}

	overlay, detected, err := DetectOverlay(paths.ProjectRoot, opts.Overlay)
	if err != nil {
		return nil, err
	}
	if !detected {
		log.Info("No overlay detected, using " + DefaultOverlay)
	}
	settings, err := LoadOverlay(paths.OverlaysDir, overlay)
	if err != nil {
		return nil, err
	}

	vars := BuildVars(version, overlay, settings, time.Now())
	repoName, _ := vars["repoName"].(string)

	targets, unknown := integrations.ResolveTargets(settings.RenderTargets, opts.Only)
	for _, name := range unknown {
		log.Warn("ignoring unknown render target", "target", name)
	}
	targetNames := integrations.TargetNames(targets)

	log.Info(fmt.Sprintf("Repo: %s, Version: %s", repoName, version))
	if len(opts.Only) > 0 {
		log.Info("Syncing only: " + strings.Join(targetNames, ", "))
	}

	staging, err := syncer.NewStaging(paths.StagingDir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = staging.Remove() }()

	rc := &integrations.RenderContext{
		TemplatesDir: paths.TemplatesDir,
		StagingDir:   staging.Root(),
		Vars:         vars,
		Version:      version,
		Overlay:      overlay,
		Permissions:  integrations.MergePermissions(spec.Permissions, settings.Permissions),
		Spec:         spec,
		Log:          log,
	}
	if err := integrations.Render(ctx, rc, targets); err != nil {
		return nil, fmt.Errorf("rendering templates: %w", err)
	}

	files, summary, err := manifest.Compute(staging.Root())
	if err != nil {
		return nil, fmt.Errorf("building manifest: %w", err)
	}

	out := &Outcome{
		Mode:     mode,
		Overlay:  overlay,
		RepoName: repoName,
		Version:  version,
		Targets:  targetNames,
		Files:    files,
		Summary:  summary,
	}
	engine := syncer.NewEngine(log, scaffold.Default(), paths.ManifestPath)

	switch mode {
	case ModeDryRun:
		out.DryRun = engine.DryRun(staging, files)
		printSummary(log, summary, targetNames)
		return out, nil

	case ModeDiff:
		out.Diff, err = engine.Diff(staging, files, paths.ProjectRoot, opts.Overwrite)
		return out, err
	}

	out.Apply, err = engine.Apply(staging, paths.ProjectRoot, files, syncer.ApplyOptions{
		Overwrite: opts.Overwrite,
		NoClean:   opts.NoClean,
		Version:   version,
		RepoName:  repoName,
	})
	if err != nil {
		return out, err
	}

	printSummary(log, summary, targetNames)
	log.Info(fmt.Sprintf("Done! Generated %d files (%s).", out.Apply.Written, humanize.Bytes(uint64(out.Apply.BytesWritten))))
	return out, nil
}

// BuildVars assembles the template variables shared by every render target.
func BuildVars(version, overlay string, settings *OverlaySettings, now time.Time) integrations.Vars {
	repoName := overlay
	if settings.RepoName != "" {
		repoName = settings.RepoName
	}
	return integrations.Vars{
		"version":       version,
		"repoName":      repoName,
		"defaultBranch": orDefault(settings.DefaultBranch, "main"),
		"primaryStack":  orDefault(settings.PrimaryStack, "auto"),
		"syncDate":      now.UTC().Format(time.DateOnly),
		"lastModel":     orDefault(os.Getenv(branding.EnvVar("LAST_MODEL")), "sync-engine"),
		"lastAgent":     orDefault(os.Getenv(branding.EnvVar("LAST_AGENT")), "agentkit-forge"),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func printSummary(log *logging.Logger, summary manifest.Summary, targets []string) {
	log.Info(fmt.Sprintf("Summary: %d file(s) across %s", summary.Total(), strings.Join(targets, ", ")))
	for _, cat := range summary.Categories() {
		log.Printf("  %s: %d", cat, summary[cat])
	}
}
