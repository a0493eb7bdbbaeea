// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-org-stats/internal/config"
	"github.com/naka-gawa/github-org-stats/internal/gateway"
	"github.com/naka-gawa/github-org-stats/internal/report"
	"github.com/naka-gawa/github-org-stats/internal/usecase"
)

var reportCmd = &cobra.Command{
	Use:   "report ORG [ORG...]",
	Short: "Summarizes the public repositories of GitHub organizations",
	Long: `Fetches the public, non-fork repositories of every ORG, in the order given,
prints one table per organization to standard output and writes one CSV row per
organization to --out (truncated at start).

Archived repositories are ignored. With --latest-n N only the N most recently
pushed repositories are listed AND summed, so the sums of a larger organization
cover that subset only; add --full-stats to sum every repository while still
listing N.

Organizations that cannot be fetched are reported on standard error and skipped.

Authentication: GITHUB_TOKEN (also read from a .env file), falling back to
'gh auth token'. Without a token the anonymous API rate limit applies.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		// Set up signal-based cancellation so pending fetches stop on Ctrl-C.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Use the verbose flag to set up the logger.
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if cfg.Verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		config.LoadEnv()
		token, err := config.ResolveToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve GitHub token: %w", err)
		}
		if token == "" {
			logger.Println("No GitHub token configured, using the anonymous rate limit.")
		}
		cfg.Token = token

		return runReport(ctx, cmd, args, logger)
	},
}

func runReport(ctx context.Context, cmd *cobra.Command, orgs []string, logger *log.Logger) error {
	// Inject dependencies and run the main business logic.
	githubGateway, err := gateway.NewGitHubGateway(cfg.Token, gateway.API(cfg.API), logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}

	csvWriter, err := report.CreateCSVFile(cfg.OutPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := csvWriter.Close(); closeErr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), closeErr)
		}
	}()

	runner := usecase.NewRunner(githubGateway, csvWriter, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger, cfg.Options())
	result, err := runner.Run(ctx, orgs)
	if err != nil {
		return fmt.Errorf("report aborted: %w", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Processed %d organization(s), skipped %d. CSV written to %s\n",
		len(result.Processed), len(result.Skipped), cfg.OutPath)
	return nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVarP(&cfg.LatestN, "latest-n", "l", cfg.LatestN, "Take only the n most recently pushed repositories per organization (0 = all)")
	reportCmd.Flags().StringVarP(&cfg.OutPath, "out", "o", cfg.OutPath, "Path of the CSV report")
	reportCmd.Flags().BoolVar(&cfg.FullStats, "full-stats", cfg.FullStats, "Sum every repository even when --latest-n limits the table")
	reportCmd.Flags().StringVar(&cfg.API, "api", cfg.API, "GitHub API used for fetching: rest|graphql (graphql requires a token)")
	reportCmd.Flags().IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Number of organizations fetched in parallel")
}
