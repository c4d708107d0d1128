package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrCorrupt marks a previous manifest that could not be read, parsed or validated.
var ErrCorrupt = errors.New("manifest corrupt")

// New builds a manifest stamped with the current time.
func New(version, repoName string, files Files) *Manifest {
	if files == nil {
		files = make(Files)
	}
	return &Manifest{
		GeneratedAt: time.Now().UTC(),
		Version:     version,
		RepoName:    repoName,
		Files:       files,
	}
}

// Load reads the manifest at path. A missing file returns (nil, nil). Any
// other failure wraps ErrCorrupt so callers can treat it as absent state.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrCorrupt, path, err)
	}

	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s: %s", ErrCorrupt, path, result.String())
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrCorrupt, path, err)
	}
	if m.Files == nil {
		m.Files = make(Files)
	}
	return &m, nil
}

// Save writes m to path as indented JSON with a trailing newline. The write
// goes through a temp file in the same directory and a rename.
func Save(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating manifest directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp manifest: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp manifest: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("setting manifest permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing manifest %s: %w", path, err)
	}
	return nil
}

// String renders the issues of a failed validation on one line.
func (r *ValidationResult) String() string {
	if r == nil || r.Valid {
		return "valid"
	}
	parts := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue.Path != "" {
			parts = append(parts, issue.Path+": "+issue.Message)
		} else {
			parts = append(parts, issue.Message)
		}
	}
	return strings.Join(parts, "; ")
}
