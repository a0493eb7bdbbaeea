package usecase

import (
	"slices"

	"github.com/naka-gawa/github-org-stats/internal/domain"
)

// NoLimit makes SelectRepositories keep every non-archived repository.
const NoLimit = -1

// SelectRepositories drops archived repositories, orders the rest by PushedAt
// descending and keeps at most limit of them. Repositories pushed at the same
// instant keep their relative input order. A negative limit keeps all of them.
// repos is not modified.
func SelectRepositories(repos []domain.Repository, limit int) []domain.Repository {
	selected := make([]domain.Repository, 0, len(repos))
	for _, repo := range repos {
		if !repo.Archived {
			selected = append(selected, repo)
		}
	}
	slices.SortStableFunc(selected, func(a, b domain.Repository) int {
		return b.PushedAt.Compare(a.PushedAt)
	})
	if limit >= 0 && limit < len(selected) {
		selected = selected[:limit]
	}
	return selected
}
