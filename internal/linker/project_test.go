package linker

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestDetectOverlay(t *testing.T) {
	tests := []struct {
		name         string
		marker       string
		flag         string
		want         string
		wantDetected bool
	}{
		{"flag wins", "from-marker", "from-flag", "from-flag", true},
		{"marker", "  from-marker\n", "", "from-marker", true},
		{"blank marker", "\n", "", DefaultOverlay, false},
		{"nothing", "", "", DefaultOverlay, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := t.TempDir()
			if tt.marker != "" {
				writeFiles(t, project, map[string]string{".agentkit-repo": tt.marker})
			}
			got, detected, err := DetectOverlay(project, tt.flag)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want || detected != tt.wantDetected {
				t.Errorf("DetectOverlay = %q, %v, want %q, %v", got, detected, tt.want, tt.wantDetected)
			}
		})
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"demo/settings.yaml": "repoName: demo-repo\nrenderTargets: [claude, cursor]\ndefaultBranch: trunk\npermissions:\n  deny: [Bash(rm)]\n",
	})

	s, err := LoadOverlay(dir, "demo")
	if err != nil {
		t.Fatal(err)
	}
	if s.RepoName != "demo-repo" || s.DefaultBranch != "trunk" {
		t.Errorf("settings = %+v", s)
	}
	if !reflect.DeepEqual(s.RenderTargets, []string{"claude", "cursor"}) {
		t.Errorf("renderTargets = %v", s.RenderTargets)
	}
	if !reflect.DeepEqual(s.Permissions.Deny, []string{"Bash(rm)"}) {
		t.Errorf("deny = %v", s.Permissions.Deny)
	}

	missing, err := LoadOverlay(dir, "absent")
	if err != nil || missing == nil || missing.RepoName != "" {
		t.Errorf("missing overlay = %+v, %v", missing, err)
	}

	for _, bad := range []string{"../outside", "."} {
		if _, err := LoadOverlay(dir, bad); !errors.Is(err, ErrInvalidOverlay) {
			t.Errorf("LoadOverlay(%q) error = %v, want ErrInvalidOverlay", bad, err)
		}
	}
}

func TestResolveVersion(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		want    string
		wantErr bool
	}{
		{"package.json", map[string]string{"package.json": `{"version":"3.4.5"}`, "spec/VERSION": "9.9.9"}, "3.4.5", false},
		{"package.json without version", map[string]string{"package.json": `{}`, "spec/VERSION": "9.9.9"}, DefaultVersion, false},
		{"VERSION fallback", map[string]string{"spec/VERSION": " 1.2.3\n"}, "1.2.3", false},
		{"broken package.json", map[string]string{"package.json": `{`, "spec/VERSION": "1.0.0"}, "1.0.0", false},
		{"nothing", nil, DefaultVersion, false},
		{"not semver", map[string]string{"package.json": `{"version":"banana"}`}, "banana", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFiles(t, root, tt.files)

			got, err := ResolveVersion(root)
			if got != tt.want {
				t.Errorf("version = %q, want %q", got, tt.want)
			}
			if gotErr := errors.Is(err, ErrInvalidVersion); gotErr != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildVars(t *testing.T) {
	t.Setenv("AGENTKIT_LAST_MODEL", "")
	t.Setenv("AGENTKIT_LAST_AGENT", "bot")
	now := time.Date(2026, 3, 4, 23, 0, 0, 0, time.UTC)

	vars := BuildVars("1.0.0", "demo", &OverlaySettings{PrimaryStack: "go"}, now)
	want := map[string]any{
		"version":       "1.0.0",
		"repoName":      "demo",
		"defaultBranch": "main",
		"primaryStack":  "go",
		"syncDate":      "2026-03-04",
		"lastModel":     "sync-engine",
		"lastAgent":     "bot",
	}
	for k, v := range want {
		if vars[k] != v {
			t.Errorf("%s = %v, want %v", k, vars[k], v)
		}
	}

	if got := BuildVars("1.0.0", "demo", &OverlaySettings{RepoName: "Other"}, now)["repoName"]; got != "Other" {
		t.Errorf("repoName = %v, want overlay setting", got)
	}
}
