// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Organization is the resolved metadata of one requested GitHub organization.
type Organization struct {
	// RequestName is the login supplied by the caller.
	RequestName string
	// DisplayName is the canonical name returned by GitHub, or RequestName when GitHub has none.
	DisplayName string
	CreatedYear int
}

// Repository holds the fields of a single public repository used for reporting.
// It is the core domain entity of this application.
type Repository struct {
	Name        string
	Stars       uint32
	Forks       uint32
	Watchers    uint32
	License     *string
	UpdatedAt   time.Time
	PushedAt    time.Time
	OpenIssues  uint32
	Size        uint32
	CreatedYear int
	Archived    bool
}

// LicenseName returns the license display name, or "" when the repository has none.
func (r Repository) LicenseName() string {
	if r.License == nil {
		return ""
	}
	return *r.License
}

// OrgRepositories is the complete result of fetching one organization.
type OrgRepositories struct {
	Organization Organization
	// Repositories are the well-formed records in the order GitHub returned them.
	Repositories []Repository
	// Excluded lists the records dropped because a required field was missing.
	Excluded []*FetchContractError
}

// AggregateStats holds the running sums and latest-activity maxima of one organization.
type AggregateStats struct {
	StarsSum      uint64
	ForksSum      uint64
	FollowersSum  uint64
	OpenIssuesSum uint64
	SizeSum       uint64
	UpdatedAtMax  time.Time
	PushedAtMax   time.Time
}

// NewAggregateStats returns an empty accumulator. The maxima start at the zero
// time, which precedes every timestamp GitHub can return.
func NewAggregateStats() AggregateStats {
	return AggregateStats{}
}

// Fold returns stats updated with a single repository.
func Fold(stats AggregateStats, repo Repository) AggregateStats {
	stats.StarsSum += uint64(repo.Stars)
	stats.ForksSum += uint64(repo.Forks)
	stats.FollowersSum += uint64(repo.Watchers)
	stats.OpenIssuesSum += uint64(repo.OpenIssues)
	stats.SizeSum += uint64(repo.Size)
	if repo.UpdatedAt.After(stats.UpdatedAtMax) {
		stats.UpdatedAtMax = repo.UpdatedAt
	}
	if repo.PushedAt.After(stats.PushedAtMax) {
		stats.PushedAtMax = repo.PushedAt
	}
	return stats
}
