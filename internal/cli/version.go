package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/JustAGhosT/agentkit-forge/internal/branding"
	"github.com/JustAGhosT/agentkit-forge/internal/linker"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print CLI and engine version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(w, buildVersion)
			return nil
		}

		engine := "unknown"
		if paths, err := resolvePaths(); err == nil {
			// An invalid engine version is still worth printing.
			engine, _ = linker.ResolveVersion(paths.EngineRoot)
		}
		return printVersion(w, versionJSON, engine)
	},
}

func printVersion(w io.Writer, asJSON bool, engine string) error {
	if asJSON {
		info := map[string]string{
			"version": buildVersion,
			"engine":  engine,
			"commit":  buildCommit,
			"date":    buildDate,
		}
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling version info: %w", err)
		}
		fmt.Fprintln(w, string(out))
		return nil
	}

	fmt.Fprintf(w, "%s version %s (engine: %s, commit: %s, built: %s)\n",
		branding.CLIName(), buildVersion, engine, buildCommit, buildDate)
	return nil
}
