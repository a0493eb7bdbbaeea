// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-org-stats/internal/config"
)

var cfg = config.New()

var rootCmd = &cobra.Command{
	Use:   "github-org-stats",
	Short: "A CLI tool to summarize the public repositories of GitHub organizations.",
	Long: `github-org-stats fetches the public repositories of one or more GitHub
organizations and prints, per organization, a table of its most recently
pushed repositories headed by summed stars, forks, followers, open issues
and size, plus the latest update and push times.
Every summary is also recorded as one row of a CSV file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// SetBuildInfo records the build metadata printed by the version command.
func SetBuildInfo(version, commit, date string) {
	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version, commit, date)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose/debug logging")
}
