package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shurcooL/githubv4"

	"github.com/naka-gawa/github-org-stats/internal/domain"
)

// graphqlRepository mirrors the Repository fields requested by orgRepositoriesQuery.
type graphqlRepository struct {
	Name           string
	StargazerCount int
	ForkCount      int
	LicenseInfo    struct {
		Name string
	}
	UpdatedAt *githubv4.DateTime
	PushedAt  *githubv4.DateTime
	Issues    struct {
		TotalCount int
	} `graphql:"issues(states: OPEN)"`
	PullRequests struct {
		TotalCount int
	} `graphql:"pullRequests(states: OPEN)"`
	DiskUsage  *int
	CreatedAt  *githubv4.DateTime
	IsArchived *bool
}

// orgRepositoriesQuery fetches the organization metadata together with one page of repositories.
type orgRepositoriesQuery struct {
	Organization struct {
		Name         *string
		CreatedAt    *githubv4.DateTime
		Repositories struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []graphqlRepository
		} `graphql:"repositories(first: 100, after: $cursor, privacy: PUBLIC, isFork: false)"`
	} `graphql:"organization(login: $login)"`
}

func (g *GitHubGateway) fetchOrganizationGraphQL(ctx context.Context, name string) (domain.OrgRepositories, error) {
	g.logger.Printf("Fetching organization %s and its repositories via GraphQL...", name)
	variables := map[string]interface{}{
		"login":  githubv4.String(name),
		"cursor": (*githubv4.String)(nil),
	}

	var (
		c   collector
		org domain.Organization
	)
	for page := 0; ; page++ {
		var q orgRepositoriesQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			if page == 0 && isGraphQLNotFound(err) {
				return domain.OrgRepositories{}, &domain.OrganizationNotFoundError{Name: name, Err: err}
			}
			return domain.OrgRepositories{}, fmt.Errorf("failed to execute GraphQL query for organization %s: %w", name, err)
		}
		if page == 0 {
			var ok bool
			org, ok = newOrganization(name, q.Organization.Name, dateTimePtr(q.Organization.CreatedAt))
			if !ok {
				g.logger.Printf("  Organization %s has no creation date, reporting year 0", name)
			}
		}
		for _, node := range q.Organization.Repositories.Nodes {
			c.add(node.raw())
		}
		if !q.Organization.Repositories.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Organization.Repositories.PageInfo.EndCursor)
		g.logger.Println("  Fetching next page of repositories...")
	}
	g.logger.Printf("Completed fetching %d repositories of %s.", len(c.repos), name)
	return c.result(org), nil
}

// raw maps the node onto the REST counters: watchers_count equals the
// stargazer count and open_issues_count includes open pull requests.
func (r graphqlRepository) raw() rawRepository {
	openIssues := r.Issues.TotalCount + r.PullRequests.TotalCount
	raw := rawRepository{
		Name:       r.Name,
		Stars:      &r.StargazerCount,
		Forks:      &r.ForkCount,
		Watchers:   &r.StargazerCount,
		UpdatedAt:  dateTimePtr(r.UpdatedAt),
		PushedAt:   dateTimePtr(r.PushedAt),
		OpenIssues: &openIssues,
		Size:       r.DiskUsage,
		CreatedAt:  dateTimePtr(r.CreatedAt),
		Archived:   r.IsArchived,
	}
	if r.LicenseInfo.Name != "" {
		raw.License = &r.LicenseInfo.Name
	}
	return raw
}

func dateTimePtr(dt *githubv4.DateTime) *time.Time {
	if dt == nil {
		return nil
	}
	t := dt.Time
	return &t
}

// isGraphQLNotFound reports whether err is GitHub's answer for an unknown organization login.
// githubv4 surfaces only the message of each GraphQL error, not its type,
// so the message text is the only signal available.
func isGraphQLNotFound(err error) bool {
	return strings.Contains(err.Error(), "Could not resolve to an Organization")
}
