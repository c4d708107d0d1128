package syncer

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/JustAGhosT/agentkit-forge/internal/logging"
	"github.com/JustAGhosT/agentkit-forge/internal/manifest"
	"github.com/JustAGhosT/agentkit-forge/internal/scaffold"
)

// fixture holds the directories of one sync scenario.
type fixture struct {
	engineDir string
	target    string
	engine    *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	engineDir := t.TempDir()
	return &fixture{
		engineDir: engineDir,
		target:    t.TempDir(),
		engine:    NewEngine(logging.Discard(), scaffold.Default(), filepath.Join(engineDir, ".manifest.json")),
	}
}

// stage creates a populated staging tree and returns it with its manifest files.
func (f *fixture) stage(t *testing.T, files map[string]string) (*Staging, manifest.Files) {
	t.Helper()
	staging, err := NewStaging(filepath.Join(f.engineDir, ".tmp"))
	if err != nil {
		t.Fatalf("NewStaging: %v", err)
	}
	writeTree(t, staging.Root(), files)

	computed, _, err := manifest.Compute(staging.Root())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return staging, computed
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// readTree returns every regular file under root keyed by slash path.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("reading tree %s: %v", root, err)
	}
	return out
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("%s should not exist (err=%v)", path, err)
	}
}

func assertContent(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if string(data) != want {
		t.Errorf("%s = %q, want %q", path, string(data), want)
	}
}
