// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package and rebuild; Go's //go:embed
// bakes it into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName        string `yaml:"cli_name"`
	DisplayName    string `yaml:"display_name"`
	Description    string `yaml:"description"`
	EngineDir      string `yaml:"engine_dir"`
	EnvPrefix      string `yaml:"env_prefix"`
	RepoMarker     string `yaml:"repo_marker"`
	RegenerateHint string `yaml:"regenerate_hint"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:        "agentkit",
			DisplayName:    "AgentKit Forge",
			Description:    "Generates AI tool configuration and keeps it in sync with your project",
			EngineDir:      ".agentkit",
			EnvPrefix:      "AGENTKIT",
			RepoMarker:     ".agentkit-repo",
			RegenerateHint: "agentkit sync",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "agentkit").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// EngineDir returns the engine install directory name inside a project (e.g., ".agentkit").
func EngineDir() string { load(); return defaults.EngineDir }

// EnvPrefix returns the environment variable prefix (e.g., "AGENTKIT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// RepoMarker returns the file name holding a project's overlay name.
func RepoMarker() string { load(); return defaults.RepoMarker }

// RegenerateHint returns the command users run to regenerate outputs.
func RegenerateHint() string { load(); return defaults.RegenerateHint }

// GeneratedMarker is the text that identifies a file header written by the engine.
func GeneratedMarker() string { return "GENERATED by " + DisplayName() }

// LogPrefix returns the tag prepended to console messages, e.g. "[agentkit:sync]".
func LogPrefix(command string) string { return "[" + CLIName() + ":" + command + "]" }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("ROOT") → "AGENTKIT_ROOT".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
