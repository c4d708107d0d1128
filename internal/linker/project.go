package linker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/JustAGhosT/agentkit-forge/internal/branding"
	"github.com/JustAGhosT/agentkit-forge/internal/integrations"
	"github.com/JustAGhosT/agentkit-forge/internal/platform"
	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"
)

const (
	// DefaultOverlay is used when neither a flag nor a repo marker names one.
	DefaultOverlay = "__TEMPLATE__"

	// DefaultVersion is stamped when the engine install declares none.
	DefaultVersion = "0.0.0"

	overlaySettingsFile = "settings.yaml"
)

var (
	// ErrInvalidOverlay is returned for overlay names that leave the overlays directory.
	ErrInvalidOverlay = errors.New("invalid overlay name")

	// ErrInvalidVersion marks an engine version that is not semver. The raw
	// value is still returned alongside it.
	ErrInvalidVersion = errors.New("engine version is not valid semver")
)

// OverlaySettings is overlays/<name>/settings.yaml.
type OverlaySettings struct {
	RepoName      string                   `yaml:"repoName"`
	RenderTargets []string                 `yaml:"renderTargets"`
	DefaultBranch string                   `yaml:"defaultBranch"`
	PrimaryStack  string                   `yaml:"primaryStack"`
	Permissions   integrations.Permissions `yaml:"permissions"`
}

// DetectOverlay names the overlay for a project: the flag value, else the
// contents of the repo marker file, else DefaultOverlay. detected is false
// when the default was used.
func DetectOverlay(projectRoot, flag string) (name string, detected bool, err error) {
	if flag = strings.TrimSpace(flag); flag != "" {
		return flag, true, nil
	}

	marker := filepath.Join(projectRoot, branding.RepoMarker())
	data, err := os.ReadFile(marker)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return "", false, fmt.Errorf("reading %s: %w", marker, err)
	default:
		if name := strings.TrimSpace(string(data)); name != "" {
			return name, true, nil
		}
	}
	return DefaultOverlay, false, nil
}

// LoadOverlay reads the settings of the named overlay. A missing overlay or
// settings file yields zero settings.
func LoadOverlay(overlaysDir, name string) (*OverlaySettings, error) {
	dir, ok := platform.ResolveUnder(overlaysDir, name)
	if !ok || dir == filepath.Clean(overlaysDir) {
		return nil, fmt.Errorf("%q: %w", name, ErrInvalidOverlay)
	}

	path := filepath.Join(dir, overlaySettingsFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &OverlaySettings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading overlay settings: %w", err)
	}

	var settings OverlaySettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing overlay settings %s: %w", path, err)
	}
	return &settings, nil
}

type packageJSON struct {
	Version string `json:"version"`
}

// ResolveVersion reads the engine version from package.json, falling back to
// spec/VERSION when package.json is missing or unreadable, and to
// DefaultVersion otherwise. A value that does not parse as semver is still
// returned, together with ErrInvalidVersion.
func ResolveVersion(engineRoot string) (string, error) {
	version := DefaultVersion

	var pkg packageJSON
	data, err := os.ReadFile(filepath.Join(engineRoot, "package.json"))
	if err == nil {
		err = json.Unmarshal(data, &pkg)
	}
	if err == nil {
		if pkg.Version != "" {
			version = pkg.Version
		}
	} else if raw, rerr := os.ReadFile(filepath.Join(engineRoot, "spec", "VERSION")); rerr == nil {
		if v := strings.TrimSpace(string(raw)); v != "" {
			version = v
		}
	}

	if _, err := semver.NewVersion(version); err != nil {
		return version, fmt.Errorf("%q: %w", version, ErrInvalidVersion)
	}
	return version, nil
}
