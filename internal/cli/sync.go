package cli

import (
	"os"

	"github.com/JustAGhosT/agentkit-forge/internal/branding"
	"github.com/JustAGhosT/agentkit-forge/internal/config"
	"github.com/JustAGhosT/agentkit-forge/internal/linker"
	"github.com/JustAGhosT/agentkit-forge/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	config.RegisterFlags(syncCmd.Flags())
	config.RegisterFlags(diffCmd.Flags())
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(diffCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Regenerate AI tool configuration from the engine templates",
	Long: `Render the engine templates for every enabled target, then write the results
into the project. Files the previous sync generated but this one did not are
removed, and project-owned scaffold files are only created when missing.

Examples:
  agentkit sync
  agentkit sync --dry-run
  agentkit sync --diff --only claude,cursor
  agentkit sync --overwrite --no-clean`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, false)
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show what a sync would change, without writing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, true)
	},
}

func runSync(cmd *cobra.Command, forceDiff bool) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}

	opts, err := config.Load(viper.New(), cmd.Flags(), paths)
	if err != nil {
		return err
	}
	if forceDiff {
		opts.Diff = true
	}

	log := logging.New(os.Stdout, branding.LogPrefix("sync"), opts.Quiet, opts.Verbose)
	_, err = linker.Sync(cmd.Context(), log, paths, opts)
	return err
}
