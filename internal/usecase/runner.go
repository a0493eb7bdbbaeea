package usecase

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-org-stats/internal/domain"
	"github.com/naka-gawa/github-org-stats/internal/gateway"
	"github.com/naka-gawa/github-org-stats/internal/report"
)

var (
	failureColor = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
)

// SummaryWriter persists one summary per processed organization.
type SummaryWriter interface {
	WriteSummary(summary report.Summary) error
}

// Options controls what a Runner reports.
type Options struct {
	// Limit is the number of most recently pushed repositories reported per organization, or NoLimit.
	Limit int
	// FullStats folds every non-archived repository into the statistics even when Limit truncates the table.
	FullStats bool
	// Concurrency is the number of organizations fetched in parallel.
	Concurrency int
}

// RunResult lists the organizations a run reported and the ones it skipped, in input order.
type RunResult struct {
	Processed []string
	Skipped   []string
}

// Runner is the use case for reporting a list of organizations.
// It orchestrates fetching, selecting, aggregating and rendering.
type Runner struct {
	fetcher gateway.Fetcher
	csv     SummaryWriter
	out     io.Writer
	diag    io.Writer
	logger  *log.Logger
	opts    Options
}

// NewRunner creates a new Runner instance. Tables go to out; skipped
// organizations and excluded repositories are reported on diag.
func NewRunner(fetcher gateway.Fetcher, csv SummaryWriter, out, diag io.Writer, logger *log.Logger, opts Options) *Runner {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Runner{
		fetcher: fetcher,
		csv:     csv,
		out:     out,
		diag:    diag,
		logger:  logger,
		opts:    opts,
	}
}

type fetchResult struct {
	fetched domain.OrgRepositories
	err     error
	done    chan struct{}
}

// Run reports every organization in names. Organizations are fetched
// concurrently but rendered and written strictly in input order. A fetch
// failure skips that organization; a failure to write the CSV report aborts the run.
func (r *Runner) Run(ctx context.Context, names []string) (RunResult, error) {
	r.logger.Printf("Usecase: Starting report of %d organizations...", len(names))

	ctx, cancel := context.WithCancel(ctx)
	results := make([]*fetchResult, len(names))
	for i := range results {
		results[i] = &fetchResult{done: make(chan struct{})}
	}

	// eg.Go blocks once Concurrency fetches are in flight, so scheduling runs
	// beside the emit loop below.
	scheduled := make(chan struct{})
	go func() {
		defer close(scheduled)
		// Only SetLimit is used: fetch errors travel in results, so no
		// goroutine returns an error and Wait has nothing to report.
		var eg errgroup.Group
		eg.SetLimit(r.opts.Concurrency)
		for i, name := range names {
			res := results[i]
			eg.Go(func() error {
				defer close(res.done)
				res.fetched, res.err = r.fetcher.FetchOrganization(ctx, name)
				return nil
			})
		}
		_ = eg.Wait()
	}()
	defer func() {
		cancel()
		<-scheduled
	}()

	var result RunResult
	for i, name := range names {
		res := results[i]
		select {
		case <-res.done:
		case <-ctx.Done():
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if res.err != nil {
			r.reportFetchFailure(name, res.err)
			result.Skipped = append(result.Skipped, name)
			continue
		}
		if err := r.emit(res.fetched); err != nil {
			return result, err
		}
		result.Processed = append(result.Processed, name)
	}

	r.logger.Println("Usecase: Report complete.")
	return result, nil
}

func (r *Runner) emit(fetched domain.OrgRepositories) error {
	org := fetched.Organization
	for _, excluded := range fetched.Excluded {
		warningColor.Fprintf(r.diag, "Warning: %s: excluding repository: %v\n", org.RequestName, excluded)
	}

	selected := SelectRepositories(fetched.Repositories, r.opts.Limit)
	scope := selected
	if r.opts.FullStats {
		scope = SelectRepositories(fetched.Repositories, NoLimit)
	}
	stats := Accumulate(scope)
	logDistribution(r.logger, org.DisplayName, scope)

	summary := report.Summarize(org, stats)
	report.RenderTable(r.out, summary, selected)
	return r.csv.WriteSummary(summary)
}

func (r *Runner) reportFetchFailure(name string, err error) {
	var notFound *domain.OrganizationNotFoundError
	if errors.As(err, &notFound) {
		cause := err
		if notFound.Err != nil {
			cause = notFound.Err
		}
		failureColor.Fprintf(r.diag, "Organization %s not found: %v\n", name, cause)
		return
	}
	failureColor.Fprintf(r.diag, "Failed to fetch organization %s: %v\n", name, err)
}
