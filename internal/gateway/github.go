// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/gregjones/httpcache"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-org-stats/internal/domain"
)

// API selects the GitHub API used to fetch organizations.
type API string

const (
	APIREST    API = "rest"
	APIGraphQL API = "graphql"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// FetchOrganization resolves name and returns its complete public, non-fork
	// repository collection. A failed lookup returns *domain.OrganizationNotFoundError.
	FetchOrganization(ctx context.Context, name string) (domain.OrgRepositories, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	api           API
	logger        *log.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// An empty token is allowed; GitHub then serves public data at the anonymous rate limit.
func NewGitHubGateway(token string, api API, logger *log.Logger) (Fetcher, error) {
	if api != APIREST && api != APIGraphQL {
		return nil, fmt.Errorf("unsupported api %q", api)
	}
	if api == APIGraphQL && token == "" {
		return nil, errors.New("the graphql api requires a GitHub token")
	}
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(httpcache.NewMemoryCacheTransport(), github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	var transport http.RoundTripper = rateLimitWaiter
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		}
	}
	httpClient := &http.Client{Transport: transport}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		api:           api,
		logger:        logger,
	}, nil
}

func (g *GitHubGateway) FetchOrganization(ctx context.Context, name string) (domain.OrgRepositories, error) {
	if g.api == APIGraphQL {
		return g.fetchOrganizationGraphQL(ctx, name)
	}
	return g.fetchOrganizationREST(ctx, name)
}

func (g *GitHubGateway) fetchOrganizationREST(ctx context.Context, name string) (domain.OrgRepositories, error) {
	g.logger.Printf("[1/2] Looking up organization %s...", name)
	info, _, err := g.restClient.Organizations.Get(ctx, name)
	if err != nil {
		if isNotFound(err) {
			return domain.OrgRepositories{}, &domain.OrganizationNotFoundError{Name: name, Err: err}
		}
		return domain.OrgRepositories{}, fmt.Errorf("failed to get organization %s: %w", name, err)
	}
	org, ok := newOrganization(name, info.Name, timestampPtr(info.CreatedAt))
	if !ok {
		g.logger.Printf("  Organization %s has no creation date, reporting year 0", name)
	}

	g.logger.Printf("[2/2] Listing public repositories of %s...", name)
	opts := &github.RepositoryListByOrgOptions{
		Type:        "public",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var c collector
	for {
		repos, resp, err := g.restClient.Repositories.ListByOrg(ctx, name, opts)
		if err != nil {
			return domain.OrgRepositories{}, fmt.Errorf("failed to list repositories of %s: %w", name, err)
		}
		for _, repo := range repos {
			if repo.GetFork() {
				continue
			}
			c.add(rawFromREST(repo))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of repositories...")
	}
	g.logger.Printf("Completed fetching %d repositories of %s.", len(c.repos), name)
	return c.result(org), nil
}

func rawFromREST(repo *github.Repository) rawRepository {
	raw := rawRepository{
		Name:       repo.GetName(),
		Stars:      repo.StargazersCount,
		Forks:      repo.ForksCount,
		Watchers:   repo.WatchersCount,
		UpdatedAt:  timestampPtr(repo.UpdatedAt),
		PushedAt:   timestampPtr(repo.PushedAt),
		OpenIssues: repo.OpenIssuesCount,
		Size:       repo.Size,
		CreatedAt:  timestampPtr(repo.CreatedAt),
		Archived:   repo.Archived,
	}
	if repo.License != nil {
		raw.License = repo.License.Name
	}
	return raw
}

func timestampPtr(ts *github.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}

func isNotFound(err error) bool {
	var errResp *github.ErrorResponse
	return errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound
}
