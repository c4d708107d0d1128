package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/JustAGhosT/agentkit-forge/internal/branding"
	"github.com/JustAGhosT/agentkit-forge/internal/manifest"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var manifestJSON bool

func init() {
	manifestShowCmd.Flags().BoolVar(&manifestJSON, "json", false, "Print the manifest as JSON")
	manifestCmd.AddCommand(manifestShowCmd)
	rootCmd.AddCommand(manifestCmd)
}

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect the record of generated files",
}

var manifestShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the manifest written by the last sync",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := resolvePaths()
		if err != nil {
			return err
		}
		return showManifest(cmd.OutOrStdout(), paths.ManifestPath, manifestJSON, time.Now())
	},
}

// showManifest prints the manifest at path. A missing or corrupt manifest is
// reported, not returned as an error.
func showManifest(w io.Writer, path string, asJSON bool, now time.Time) error {
	m, err := manifest.Load(path)
	switch {
	case errors.Is(err, manifest.ErrCorrupt):
		fmt.Fprintf(w, "Manifest at %s is corrupt: %v\n", path, err)
		fmt.Fprintf(w, "Run '%s' to regenerate it.\n", branding.RegenerateHint())
		return nil
	case err != nil:
		return err
	case m == nil:
		fmt.Fprintf(w, "No manifest at %s. Run '%s' first.\n", path, branding.RegenerateHint())
		return nil
	}

	if asJSON {
		out, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling manifest: %w", err)
		}
		fmt.Fprintln(w, string(out))
		return nil
	}

	summary := manifest.Summarize(m.Files)
	fmt.Fprintf(w, "Manifest:  %s\n", path)
	fmt.Fprintf(w, "Generated: %s (%s)\n", m.GeneratedAt.Format(time.RFC3339), humanize.RelTime(m.GeneratedAt, now, "ago", "from now"))
	fmt.Fprintf(w, "Version:   %s\n", m.Version)
	fmt.Fprintf(w, "Repo:      %s\n", m.RepoName)
	fmt.Fprintf(w, "Files:     %d\n", summary.Total())
	for _, cat := range summary.Categories() {
		fmt.Fprintf(w, "  %-10s %d\n", cat, summary[cat])
	}
	return nil
}
