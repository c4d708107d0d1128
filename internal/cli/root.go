package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/JustAGhosT/agentkit-forge/internal/branding"
	"github.com/JustAGhosT/agentkit-forge/internal/config"
	"github.com/JustAGhosT/agentkit-forge/internal/syncer"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	projectDir string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` renders AI tool configuration (CLAUDE.md, .cursor, .github
instructions and more) from engine templates and keeps it in sync with your project.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "C", "", "Project root (defaults to the current directory)")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	reportError(os.Stderr, err)
	return err
}

// reportError prints err unless the sync engine already logged it.
func reportError(w io.Writer, err error) {
	if err == nil || errors.Is(err, syncer.ErrWriteFailure) {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

// resolvePaths returns the engine paths for --project or the working directory.
func resolvePaths() (config.Paths, error) {
	dir := projectDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return config.Paths{}, fmt.Errorf("getting current directory: %w", err)
		}
		dir = cwd
	}
	return config.ResolvePaths(dir)
}
