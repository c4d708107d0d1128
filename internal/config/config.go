package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/JustAGhosT/agentkit-forge/internal/branding"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized option keys. They double as flag names and, upper-cased with
// dashes replaced by underscores, as AGENTKIT_* environment variables.
const (
	KeyDryRun    = "dry-run"
	KeyDiff      = "diff"
	KeyQuiet     = "quiet"
	KeyVerbose   = "verbose"
	KeyNoClean   = "no-clean"
	KeyOverwrite = "overwrite"
	KeyForce     = "force"
	KeyOverlay   = "overlay"
	KeyOnly      = "only"
)

// Options is the configuration record consumed by a sync run.
type Options struct {
	DryRun    bool
	Diff      bool
	Quiet     bool
	Verbose   bool
	NoClean   bool
	Overwrite bool // --overwrite or --force
	Overlay   string
	Only      []string
}

// Paths holds the filesystem locations a run touches.
type Paths struct {
	ProjectRoot  string
	EngineRoot   string
	ManifestPath string
	StagingDir   string
	TemplatesDir string
	OverlaysDir  string
	ConfigFile   string
}

// ResolvePaths derives engine paths for a project. The engine root is taken
// from AGENTKIT_ROOT when set, otherwise <project>/.agentkit.
func ResolvePaths(projectRoot string) (Paths, error) {
	project, err := filepath.Abs(projectRoot)
	if err != nil {
		return Paths{}, fmt.Errorf("resolving project root %s: %w", projectRoot, err)
	}

	engine := filepath.Join(project, branding.EngineDir())
	if v := os.Getenv(branding.EnvVar("ROOT")); v != "" {
		engine, err = filepath.Abs(v)
		if err != nil {
			return Paths{}, fmt.Errorf("resolving engine root %s: %w", v, err)
		}
	}

	return Paths{
		ProjectRoot:  project,
		EngineRoot:   engine,
		ManifestPath: filepath.Join(engine, ".manifest.json"),
		StagingDir:   filepath.Join(engine, ".tmp"),
		TemplatesDir: filepath.Join(engine, "templates"),
		OverlaysDir:  filepath.Join(engine, "overlays"),
		ConfigFile:   filepath.Join(engine, fileName+"."+fileType),
	}, nil
}

// RegisterFlags declares the sync option flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Bool(KeyDryRun, false, "Report what would be generated without writing")
	fs.Bool(KeyDiff, false, "Show what would change in the project, with line diffs")
	fs.BoolP(KeyQuiet, "q", false, "Suppress normal output")
	fs.BoolP(KeyVerbose, "v", false, "Log every file")
	fs.Bool(KeyNoClean, false, "Keep files generated by a previous sync that are no longer produced")
	fs.Bool(KeyOverwrite, false, "Overwrite project-owned scaffold files")
	fs.Bool(KeyForce, false, "Alias for --overwrite")
	fs.String(KeyOverlay, "", "Overlay name (defaults to the project's repo marker)")
	fs.String(KeyOnly, "", "Comma-separated render targets to generate")
}

// Load resolves Options from flags, AGENTKIT_* environment variables and the
// engine config file, in that order of precedence. A missing config file is
// not an error.
func Load(v *viper.Viper, flags *pflag.FlagSet, paths Paths) (Options, error) {
	v.SetConfigFile(paths.ConfigFile)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Options{}, fmt.Errorf("binding flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return Options{}, fmt.Errorf("reading config file %s: %w", paths.ConfigFile, err)
	}

	return Options{
		DryRun:    v.GetBool(KeyDryRun),
		Diff:      v.GetBool(KeyDiff),
		Quiet:     v.GetBool(KeyQuiet),
		Verbose:   v.GetBool(KeyVerbose),
		NoClean:   v.GetBool(KeyNoClean),
		Overwrite: v.GetBool(KeyOverwrite) || v.GetBool(KeyForce),
		Overlay:   strings.TrimSpace(v.GetString(KeyOverlay)),
		Only:      SplitList(v.GetString(KeyOnly)),
	}, nil
}

// SplitList splits a comma-separated list, trimming blanks and dropping empties.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
