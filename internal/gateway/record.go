package gateway

import (
	"math"
	"time"

	"github.com/naka-gawa/github-org-stats/internal/domain"
)

// rawRepository is the API-agnostic view of one repository before validation.
// A nil pointer means GitHub did not send the field.
type rawRepository struct {
	Name       string
	Stars      *int
	Forks      *int
	Watchers   *int
	License    *string
	UpdatedAt  *time.Time
	PushedAt   *time.Time
	OpenIssues *int
	Size       *int
	CreatedAt  *time.Time
	Archived   *bool
}

// toRepository validates raw against the per-field presence policy: every field
// except License is required. A record that fails is excluded, never zero-filled.
func toRepository(raw rawRepository) (domain.Repository, *domain.FetchContractError) {
	violation := func(field string) (domain.Repository, *domain.FetchContractError) {
		return domain.Repository{}, &domain.FetchContractError{Repository: raw.Name, Field: field}
	}

	if raw.Name == "" {
		return violation("name")
	}
	counts := []struct {
		field string
		value *int
	}{
		{"stargazers_count", raw.Stars},
		{"forks_count", raw.Forks},
		{"watchers_count", raw.Watchers},
		{"open_issues_count", raw.OpenIssues},
		{"size", raw.Size},
	}
	for _, c := range counts {
		if c.value == nil || *c.value < 0 || int64(*c.value) > math.MaxUint32 {
			return violation(c.field)
		}
	}
	switch {
	case raw.UpdatedAt == nil || raw.UpdatedAt.IsZero():
		return violation("updated_at")
	case raw.PushedAt == nil || raw.PushedAt.IsZero():
		return violation("pushed_at")
	case raw.CreatedAt == nil || raw.CreatedAt.IsZero():
		return violation("created_at")
	case raw.Archived == nil:
		return violation("archived")
	}

	var license *string
	if raw.License != nil && *raw.License != "" {
		name := *raw.License
		license = &name
	}

	return domain.Repository{
		Name:        raw.Name,
		Stars:       uint32(*raw.Stars),
		Forks:       uint32(*raw.Forks),
		Watchers:    uint32(*raw.Watchers),
		License:     license,
		UpdatedAt:   raw.UpdatedAt.UTC(),
		PushedAt:    raw.PushedAt.UTC(),
		OpenIssues:  uint32(*raw.OpenIssues),
		Size:        uint32(*raw.Size),
		CreatedYear: raw.CreatedAt.UTC().Year(),
		Archived:    *raw.Archived,
	}, nil
}

// collector accumulates validated records in API order.
type collector struct {
	repos    []domain.Repository
	excluded []*domain.FetchContractError
}

func (c *collector) add(raw rawRepository) {
	repo, violation := toRepository(raw)
	if violation != nil {
		c.excluded = append(c.excluded, violation)
		return
	}
	c.repos = append(c.repos, repo)
}

func (c *collector) result(org domain.Organization) domain.OrgRepositories {
	repos := c.repos
	if repos == nil {
		repos = []domain.Repository{}
	}
	return domain.OrgRepositories{
		Organization: org,
		Repositories: repos,
		Excluded:     c.excluded,
	}
}

// newOrganization applies the organization field policy: a missing display
// name falls back to the request name, a missing creation date yields year 0.
func newOrganization(requestName string, displayName *string, createdAt *time.Time) (domain.Organization, bool) {
	org := domain.Organization{RequestName: requestName, DisplayName: requestName}
	if displayName != nil && *displayName != "" {
		org.DisplayName = *displayName
	}
	if createdAt == nil || createdAt.IsZero() {
		return org, false
	}
	org.CreatedYear = createdAt.UTC().Year()
	return org, true
}
